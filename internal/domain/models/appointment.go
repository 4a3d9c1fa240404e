// internal/domain/models/appointment.go
package models

// Appointment is a dated event for a user. Time is epoch milliseconds and is
// what the reminder scanner compares against.
type Appointment struct {
	ID        string `bson:"id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Time      int64  `bson:"time" json:"time"`
	ForUser   string `bson:"forUser" json:"forUser"`
	Notes     string `bson:"notes" json:"notes"`
	CreatedAt int64  `bson:"createdAt" json:"createdAt"`
}
