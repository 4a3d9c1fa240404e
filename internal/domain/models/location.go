package models

// LocationPoint is one entry of a user's location history.
type LocationPoint struct {
	ID     string  `bson:"id" json:"id"`
	UserID string  `bson:"userId" json:"userId"`
	Lat    float64 `bson:"lat" json:"lat"`
	Lng    float64 `bson:"lng" json:"lng"`
	Time   int64   `bson:"time" json:"time"`
}
