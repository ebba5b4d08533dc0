package models

import (
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Quantity  float64            `bson:"quantity" json:"quantity"`
	Unit      units.Unit         `bson:"unit" json:"unit"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	LineTotal float64            `bson:"line_total" json:"line_total"`
	// StockDelta is what was reserved: kilograms or a count.
	StockDelta float64 `bson:"stock_delta" json:"-"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress Address            `bson:"shipping_address" json:"shipping_address"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Discount        float64            `bson:"discount" json:"discount"`
	DeliveryFee     float64            `bson:"delivery_fee" json:"delivery_fee"`
	Total           float64            `bson:"total" json:"total"`
	OfferCode       string             `bson:"offer_code,omitempty" json:"offer_code,omitempty"`
	PaymentMethod   PaymentMethod      `bson:"payment_method" json:"payment_method"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"payment_status"`
	PaymentIntentID string             `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
	ClientSecret    string             `bson:"-" json:"client_secret,omitempty"`
	Status          OrderStatus        `bson:"status" json:"status"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

type PlaceOrderRequest struct {
	AddressID     string        `json:"address_id" validate:"required,mongodb"`
	OfferCode     string        `json:"offer_code,omitempty" validate:"omitempty,max=20"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=cod online"`
	Notes         string        `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed out_for_delivery delivered cancelled"`
}
