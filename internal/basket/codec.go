package basket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
)

type envelope struct {
	Kind entity.LicenseOperation `json:"kind"`
	Data json.RawMessage         `json:"data"`
}

func Encode(b Basket) ([]byte, error) {
	const op = "basket.Encode"

	if b == nil {
		return nil, fmt.Errorf("%s: %w: nil basket", op, entity.ErrInvalidData)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal data: %w", op, err)
	}

	out, err := json.Marshal(envelope{Kind: b.Operation(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal envelope: %w", op, err)
	}
	return out, nil
}

// Decode parses a stored basket and fails closed: the tag must equal
// expected and the payload must match that shape exactly.
func Decode(data []byte, expected entity.LicenseOperation) (Basket, error) {
	const op = "basket.Decode"

	var env envelope
	if err := strictUnmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s: %w: envelope: %w", op, entity.ErrBasketMismatch, err)
	}
	if env.Kind != expected {
		return nil, fmt.Errorf("%s: %w: stored %q, expected %q",
			op, entity.ErrBasketMismatch, env.Kind, expected)
	}

	var b Basket
	switch expected {
	case entity.OperationNewLicense:
		b = &NewLicense{}
	case entity.OperationExtendLicense:
		b = &ExtendLicense{}
	case entity.OperationLink:
		b = &Link{}
	default:
		return nil, fmt.Errorf("%s: %w: unknown operation %q", op, entity.ErrBasketMismatch, expected)
	}

	if err := strictUnmarshal(env.Data, b); err != nil {
		return nil, fmt.Errorf("%s: %w: %s payload: %w", op, entity.ErrBasketMismatch, expected, err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrBasketMismatch, err)
	}
	return b, nil
}

func strictUnmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty payload")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after payload")
	}
	return nil
}
