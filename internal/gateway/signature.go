package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
)

type RequestKind string

const (
	KindCharge     RequestKind = "charge"
	KindCreateLink RequestKind = "create_link"
	KindDeleteLink RequestKind = "delete_link"
	KindCallback   RequestKind = "callback"
)

const (
	FieldMerchantID       = "merchant_id"
	FieldMerchantSalt     = "merchant_salt"
	FieldUserIP           = "user_ip"
	FieldMerchantOID      = "merchant_oid"
	FieldEmail            = "email"
	FieldPaymentAmount    = "payment_amount"
	FieldPaymentType      = "payment_type"
	FieldInstallmentCount = "installment_count"
	FieldCurrency         = "currency"
	FieldTestMode         = "test_mode"
	FieldName             = "name"
	FieldPrice            = "price"
	FieldMaxInstallment   = "max_installment"
	FieldLinkType         = "link_type"
	FieldLang             = "lang"
	FieldMinCount         = "min_count"
	FieldLinkID           = "id"
	FieldStatus           = "status"
	FieldTotalAmount      = "total_amount"
)

// layouts fix the concatenation order agreed with the gateway. The order is
// part of the wire contract; reordering breaks every signature silently.
var layouts = map[RequestKind][]string{
	KindCharge: {
		FieldMerchantID, FieldUserIP, FieldMerchantOID, FieldEmail, FieldPaymentAmount,
		FieldPaymentType, FieldInstallmentCount, FieldCurrency, FieldTestMode, FieldMerchantSalt,
	},
	KindCreateLink: {
		FieldName, FieldPrice, FieldCurrency, FieldMaxInstallment, FieldLinkType,
		FieldLang, FieldMinCount, FieldMerchantSalt,
	},
	KindDeleteLink: {
		FieldLinkID, FieldMerchantID, FieldMerchantSalt,
	},
	KindCallback: {
		FieldMerchantOID, FieldMerchantSalt, FieldStatus, FieldTotalAmount,
	},
}

type Credentials struct {
	MerchantID   string
	MerchantKey  string
	MerchantSalt string
}

// Scheme turns the ordered message into a signature.
type Scheme func(key, message []byte) string

// HMACSHA256 is base64(HMAC-SHA256(merchant key, message)).
func HMACSHA256(key, message []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type Signer struct {
	creds  Credentials
	scheme Scheme
}

func NewSigner(creds Credentials) (*Signer, error) {
	return NewSignerWithScheme(creds, HMACSHA256)
}

func NewSignerWithScheme(creds Credentials, scheme Scheme) (*Signer, error) {
	switch {
	case creds.MerchantID == "":
		return nil, errors.New("gateway.NewSigner: merchant id is required")
	case creds.MerchantKey == "":
		return nil, errors.New("gateway.NewSigner: merchant key is required")
	case creds.MerchantSalt == "":
		return nil, errors.New("gateway.NewSigner: merchant salt is required")
	case scheme == nil:
		return nil, errors.New("gateway.NewSigner: scheme is required")
	}
	return &Signer{creds: creds, scheme: scheme}, nil
}

func (s *Signer) MerchantID() string {
	return s.creds.MerchantID
}

// Sign builds the message for kind from fields and signs it. Merchant id
// and salt come from the credentials; every other field must be present.
func (s *Signer) Sign(kind RequestKind, fields map[string]string) (string, error) {
	const op = "gateway.Signer.Sign"

	message, err := s.message(kind, fields)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.scheme([]byte(s.creds.MerchantKey), []byte(message)), nil
}

// Verify recomputes the signature and compares it in constant time.
func (s *Signer) Verify(kind RequestKind, fields map[string]string, signature string) bool {
	expected, err := s.Sign(kind, fields)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *Signer) message(kind RequestKind, fields map[string]string) (string, error) {
	layout, ok := layouts[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown request kind %q", entity.ErrInvalidData, kind)
	}

	var b strings.Builder
	for _, name := range layout {
		switch name {
		case FieldMerchantSalt:
			b.WriteString(s.creds.MerchantSalt)
		case FieldMerchantID:
			b.WriteString(s.creds.MerchantID)
		default:
			value, ok := fields[name]
			if !ok {
				return "", fmt.Errorf("%w: %s signature: missing field %q", entity.ErrInvalidData, kind, name)
			}
			b.WriteString(value)
		}
	}
	return b.String(), nil
}
