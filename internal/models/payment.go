package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Payment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID         primitive.ObjectID `bson:"order_id" json:"order_id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Amount          float64            `bson:"amount" json:"amount"`
	Currency        string             `bson:"currency" json:"currency"`
	Status          PaymentStatus      `bson:"status" json:"payment_status"`
	Provider        string             `bson:"provider" json:"provider"`
	PaymentIntentID string             `bson:"payment_intent_id" json:"payment_intent_id"`
	ClientSecret    string             `bson:"-" json:"client_secret,omitempty"`
	FailureReason   string             `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreatePaymentRequest struct {
	OrderID string `json:"order_id" validate:"required,mongodb"`
}
