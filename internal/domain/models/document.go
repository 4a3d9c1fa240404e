// internal/domain/models/document.go
package models

// Document is the single persisted aggregate holding every entity sequence.
// It is always read and written whole.
type Document struct {
	Users                []User                  `bson:"users" json:"users"`
	Patients             []Patient               `bson:"patients" json:"patients"`
	Caretakers           []Caretaker             `bson:"caretakers" json:"caretakers"`
	Notifications        []Notification          `bson:"notifications" json:"notifications"`
	LocationHistory      []LocationPoint         `bson:"locationHistory" json:"locationHistory"`
	Meds                 []Medication            `bson:"meds" json:"meds"`
	Journals             []JournalEntry          `bson:"journals" json:"journals"`
	Appointments         []Appointment           `bson:"appointments" json:"appointments"`
	WebpushSubscriptions []PushSubscription      `bson:"webpushSubscriptions" json:"webpushSubscriptions"`
	MedHistory           []MedicationTakenRecord `bson:"medHistory" json:"medHistory"`
}

// NewDocument returns the empty document: every sequence present and empty.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize replaces nil sequences with empty ones so that a document
// loaded from older storage (e.g. without medHistory) serializes with every
// key present.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Patients == nil {
		d.Patients = []Patient{}
	}
	if d.Caretakers == nil {
		d.Caretakers = []Caretaker{}
	}
	if d.Notifications == nil {
		d.Notifications = []Notification{}
	}
	if d.LocationHistory == nil {
		d.LocationHistory = []LocationPoint{}
	}
	if d.Meds == nil {
		d.Meds = []Medication{}
	}
	if d.Journals == nil {
		d.Journals = []JournalEntry{}
	}
	if d.Appointments == nil {
		d.Appointments = []Appointment{}
	}
	if d.WebpushSubscriptions == nil {
		d.WebpushSubscriptions = []PushSubscription{}
	}
	if d.MedHistory == nil {
		d.MedHistory = []MedicationTakenRecord{}
	}
}

// FindUserByEmail returns the index of the user whose email matches
// (already normalized) email, or -1.
func (d *Document) FindUserByEmail(email string) int {
	for i := range d.Users {
		if NormalizeEmail(d.Users[i].Email) == email {
			return i
		}
	}
	return -1
}

// FindNotification returns the index of the notification with id, or -1.
func (d *Document) FindNotification(id string) int {
	for i := range d.Notifications {
		if d.Notifications[i].ID == id {
			return i
		}
	}
	return -1
}
