package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CallbackResult string

const (
	CallbackReceived          CallbackResult = "received"
	CallbackQueued            CallbackResult = "queued"
	CallbackMalformed         CallbackResult = "malformed"
	CallbackRejected          CallbackResult = "rejected"
	CallbackUnknownOrder      CallbackResult = "unknown_order"
	CallbackDuplicate         CallbackResult = "duplicate"
	CallbackApplied           CallbackResult = "applied"
	CallbackFulfillmentFailed CallbackResult = "fulfillment_failed"
)

// CallbackLog is the audit row written for every inbound gateway callback.
type CallbackLog struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Status      string          `json:"status"`
	Result      CallbackResult  `json:"result"`
	Detail      string          `json:"detail,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	ReceivedAt  time.Time       `json:"receivedAt"`
	ProcessedAt time.Time       `json:"processedAt"`
}
