// internal/domain/models/patient.go
package models

// Patient is a person cared for by the user identified by OwnerID.
// PhotoRef is the storage path of the uploaded photo.
type Patient struct {
	ID        string `bson:"id" json:"id"`
	OwnerID   string `bson:"ownerId" json:"ownerId"`
	Name      string `bson:"name" json:"name"`
	Relation  string `bson:"relation" json:"relation"`
	Phone     string `bson:"phone" json:"phone"`
	PhotoRef  string `bson:"photoRef" json:"photoRef"`
	CreatedAt int64  `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}
