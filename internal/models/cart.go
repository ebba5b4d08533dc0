package models

import (
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductSnapshot is the copy of catalog fields taken when a line is first created.
type ProductSnapshot struct {
	Name         string     `bson:"name" json:"name"`
	Price        float64    `bson:"price" json:"price"`
	Weight       float64    `bson:"weight" json:"weight"`
	Unit         units.Unit `bson:"unit" json:"unit"`
	BaseUnit     string     `bson:"base_unit" json:"base_unit"`
	MinimumOrder float64    `bson:"minimum_order" json:"minimum_order"`
	StockQty     float64    `bson:"stock_qty" json:"stock_qty"`
	ImageRef     string     `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
}

// CartLine holds one product's quantity inside a session cart.
// TotalWeight is a count for piece lines and a magnitude in Unit otherwise.
type CartLine struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   string             `bson:"session_id" json:"session_id"`
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	TotalWeight float64            `bson:"total_weight" json:"total_weight"`
	Unit        units.Unit         `bson:"unit" json:"unit"`
	Snapshot    ProductSnapshot    `bson:"product_snapshot" json:"product_snapshot"`
	Version     int64              `bson:"version" json:"version"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type Cart struct {
	SessionID string      `json:"session_id"`
	Lines     []*CartLine `json:"lines"`
	Count     int         `json:"count"`
}

// CartMutation is the outcome of a quantity operation on a single line.
type CartMutation struct {
	Line    *CartLine `json:"line,omitempty"`
	Removed bool      `json:"removed"`
	Capped  bool      `json:"capped"`
	Message string    `json:"message,omitempty"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required,mongodb"`
}

type SpecificQuantityRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Unit   string  `json:"unit" validate:"required"`
}

type CartCountResponse struct {
	Count int64 `json:"count"`
}
