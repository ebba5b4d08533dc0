package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Line1     string             `bson:"line1" json:"line1"`
	Line2     string             `bson:"line2,omitempty" json:"line2,omitempty"`
	Landmark  string             `bson:"landmark,omitempty" json:"landmark,omitempty"`
	City      string             `bson:"city" json:"city"`
	District  string             `bson:"district" json:"district"`
	State     string             `bson:"state" json:"state"`
	Pincode   string             `bson:"pincode" json:"pincode"`
	IsDefault bool               `bson:"is_default" json:"is_default"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type CreateAddressRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,phone_in"`
	Line1     string `json:"line1" validate:"required,max=200"`
	Line2     string `json:"line2,omitempty" validate:"omitempty,max=200"`
	Landmark  string `json:"landmark,omitempty" validate:"omitempty,max=100"`
	City      string `json:"city" validate:"required,max=100"`
	Pincode   string `json:"pincode" validate:"required,pincode"`
	IsDefault bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone_in"`
	Line1    *string `json:"line1,omitempty" validate:"omitempty,max=200"`
	Line2    *string `json:"line2,omitempty" validate:"omitempty,max=200"`
	Landmark *string `json:"landmark,omitempty" validate:"omitempty,max=100"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Pincode  *string `json:"pincode,omitempty" validate:"omitempty,pincode"`
}

// PincodeInfo is the result of a postal code lookup.
type PincodeInfo struct {
	Pincode     string   `json:"pincode"`
	District    string   `json:"district"`
	State       string   `json:"state"`
	PostOffices []string `json:"post_offices"`
	Serviceable bool     `json:"serviceable"`
}
