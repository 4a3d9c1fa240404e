// internal/domain/models/notification.go
package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Notification types.
const (
	NotificationSOS         = "sos"
	NotificationJournal     = "journal"
	NotificationMed         = "med"
	NotificationAppointment = "appointment"
)

// Notification is a persisted alert shown to clients and pushed to
// subscribed browsers.
//
// NOTE:
//   - The extra field depends on Type: sos sets From, appointment sets
//     Appointment, journal and med carry the created entity in Payload.
//   - Notifications are never removed; Read only flips to true.
type Notification struct {
	ID          string          `bson:"id" json:"id"`
	Type        string          `bson:"type" json:"type"`
	Message     string          `bson:"message" json:"message"`
	Time        int64           `bson:"time" json:"time"`
	Read        bool            `bson:"read" json:"read"`
	From        string          `bson:"from,omitempty" json:"from,omitempty"`
	Appointment *Appointment    `bson:"appointment,omitempty" json:"appointment,omitempty"`
	Payload     Payload         `bson:"payload,omitempty" json:"payload,omitempty"`
}

// Payload is a JSON object carried verbatim in API responses. In Mongo it
// is stored as an embedded document rather than opaque bytes.
type Payload []byte

// NewPayload encodes v for Notification.Payload. Encoding failures yield an
// empty payload; payloads are informational only.
func NewPayload(v any) Payload {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// MarshalJSON writes the payload as-is.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON keeps a copy of data. JSON null clears the payload.
func (p *Payload) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = nil
		return nil
	}
	*p = append((*p)[:0], data...)
	return nil
}

// MarshalBSONValue stores the payload object as an embedded document.
func (p Payload) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if len(p) == 0 {
		return bsontype.Null, nil, nil
	}
	var d bson.D
	if err := bson.UnmarshalExtJSON(p, false, &d); err != nil {
		return 0, nil, fmt.Errorf("payload to bson: %w", err)
	}
	return bson.MarshalValue(d)
}

// UnmarshalBSONValue reads an embedded document back as relaxed JSON.
// Binary values written by earlier versions are taken as raw JSON.
func (p *Payload) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*p = nil
	case bsontype.EmbeddedDocument:
		b, err := bson.MarshalExtJSON(bson.Raw(data), false, false)
		if err != nil {
			return fmt.Errorf("payload from bson: %w", err)
		}
		*p = b
	case bsontype.Binary:
		_, b := bson.RawValue{Type: t, Value: data}.Binary()
		*p = append(Payload(nil), b...)
	default:
		return fmt.Errorf("payload: unexpected bson type %s", t)
	}
	return nil
}
