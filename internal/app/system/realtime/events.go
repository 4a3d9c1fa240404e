package realtime

import (
	"encoding/json"

	"github.com/dalemusser/carehub/internal/domain/models"
)

// Outbound event names.
const (
	EventLocationUpdate      = "locationUpdate"
	EventSOS                 = "sos"
	EventJournal             = "journal"
	EventMedicationUpdate    = "medicationUpdate"
	EventAppointmentCreated  = "appointmentCreated"
	EventAppointmentReminder = "appointmentReminder"
	EventNotification        = "notification"
)

// Inbound event names. sos, journal and medicationUpdate share their
// outbound names.
const (
	EventJoin           = "join"
	EventUpdateLocation = "updateLocation"
)

// Medication update actions.
const (
	MedAdded   = "added"
	MedRemoved = "removed"
	MedTaken   = "taken"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// LocationUpdate is the locationUpdate payload.
type LocationUpdate struct {
	UserID string  `json:"userId"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Time   int64   `json:"time"`
}

// SOS is the sos payload.
type SOS struct {
	From string `json:"from"`
	Name string `json:"name"`
	Time int64  `json:"time"`
}

// Journal is the journal payload.
type Journal struct {
	Entry  models.JournalEntry `json:"entry"`
	Author string              `json:"author"`
}

// MedicationUpdate is the medicationUpdate payload. Which of Med, ID and
// Record is set depends on Action.
type MedicationUpdate struct {
	Action string                        `json:"action"`
	Med    *models.Medication            `json:"med,omitempty"`
	ID     string                        `json:"id,omitempty"`
	Record *models.MedicationTakenRecord `json:"record,omitempty"`
}

// AppointmentEvent is the appointmentCreated and appointmentReminder payload.
type AppointmentEvent struct {
	Appointment models.Appointment `json:"appointment"`
}

// NotificationEvent is the notification payload.
type NotificationEvent struct {
	Notification models.Notification `json:"notification"`
}
