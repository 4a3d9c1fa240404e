// internal/domain/models/pushsubscription.go
package models

// PushSubscription is the browser PushSubscription object as serialized by
// PushSubscription.toJSON(). It is not tied to a user.
type PushSubscription struct {
	Endpoint       string   `bson:"endpoint" json:"endpoint"`
	ExpirationTime *int64   `bson:"expirationTime" json:"expirationTime"`
	Keys           PushKeys `bson:"keys" json:"keys"`
}

// PushKeys holds the client public key and auth secret used to encrypt
// payloads for the subscription.
type PushKeys struct {
	P256dh string `bson:"p256dh" json:"p256dh"`
	Auth   string `bson:"auth" json:"auth"`
}
