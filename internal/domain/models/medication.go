// internal/domain/models/medication.go
package models

// Medication is a scheduled dose for a user. Time is the time of day the
// dose is due (e.g. "08:30"), kept as the client sent it.
type Medication struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Dose      string `bson:"dose" json:"dose"`
	Time      string `bson:"time" json:"time"`
	ForUser   string `bson:"forUser" json:"forUser"`
	CreatedAt int64  `bson:"createdAt" json:"createdAt"`
}

// MedicationTakenRecord records that a dose was taken. MedID is not checked
// against the medication list.
type MedicationTakenRecord struct {
	ID    string `bson:"id" json:"id"`
	MedID string `bson:"medId" json:"medId"`
	By    string `bson:"by" json:"by"`
	Time  int64  `bson:"time" json:"time"`
}
