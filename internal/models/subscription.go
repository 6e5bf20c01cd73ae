package models

import "time"

// PushSubscription maps a user to one registered browser/device push endpoint.
// The endpoint URL plus the p256dh/auth key pair is the opaque descriptor the
// push platform issued to the client; the server never interprets it beyond
// handing it to the transport.
type PushSubscription struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	P256dh    string    `json:"p256dh" db:"p256dh"`
	Auth      string    `json:"auth" db:"auth"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
