package domain

import (
	"bytes"
	"encoding/json"
)

const EventPaymentCaptured = "payment.captured"

// FlexID decodes an id that the gateway may send as either a JSON string
// or a bare number (notes are free-form on the gateway side).
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexID) String() string { return string(f) }

// EventNotes is the free-form notes blob attached to a gateway payment.
type EventNotes struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	OfferingID FlexID `json:"course_offering_id"`
}

// PaymentEvent is the normalized payment payload both entry points reduce
// to before reconciliation.
type PaymentEvent struct {
	PaymentID string     `json:"payment_id"`
	OrderID   string     `json:"order_id"`
	Amount    int64      `json:"amount"` // minor units
	Notes     EventNotes `json:"notes"`
}

// WebhookEnvelope is the gateway's push notification body.
type WebhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment PaymentEvent `json:"payment"`
	} `json:"payload"`
}
