package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceBlock tracks OTP sends for one client IP.
type DeviceBlock struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IPAddress    string             `bson:"ip_address" json:"ip_address"`
	ResendCount  int                `bson:"resend_count" json:"resend_count"`
	BlockedUntil *time.Time         `bson:"blocked_until,omitempty" json:"blocked_until,omitempty"`
	LastAttempt  time.Time          `bson:"last_attempt" json:"last_attempt"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

type DeviceStatus struct {
	IsBlocked    bool       `json:"is_blocked"`
	ResendCount  int        `json:"resend_count"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}
