package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferType string

const (
	OfferTypePercentage OfferType = "percentage"
	OfferTypeFlat       OfferType = "flat"
)

type Offer struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code           string             `bson:"code" json:"code"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Type           OfferType          `bson:"type" json:"type"`
	Value          float64            `bson:"value" json:"value"`
	MinOrderAmount float64            `bson:"min_order_amount" json:"min_order_amount"`
	MaxDiscount    float64            `bson:"max_discount,omitempty" json:"max_discount,omitempty"`
	ValidFrom      time.Time          `bson:"valid_from" json:"valid_from"`
	ValidUntil     time.Time          `bson:"valid_until" json:"valid_until"`
	Active         bool               `bson:"active" json:"active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateOfferRequest struct {
	Code           string    `json:"code" validate:"required,alphanum,min=3,max=20"`
	Description    string    `json:"description,omitempty" validate:"omitempty,max=300"`
	Type           OfferType `json:"type" validate:"required,oneof=percentage flat"`
	Value          float64   `json:"value" validate:"required,gt=0"`
	MinOrderAmount float64   `json:"min_order_amount" validate:"gte=0"`
	MaxDiscount    float64   `json:"max_discount,omitempty" validate:"gte=0"`
	ValidFrom      time.Time `json:"valid_from" validate:"required"`
	ValidUntil     time.Time `json:"valid_until" validate:"required,gtfield=ValidFrom"`
}

type ApplyOfferRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"required,gt=0"`
}

type ApplyOfferResponse struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}
