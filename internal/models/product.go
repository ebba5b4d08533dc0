package models

import (
	"encoding/base64"
	"time"

	"github.com/aaravmahajanofficial/fishshop-backend/internal/units"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Product prices are per kilogram for weight products and per piece otherwise.
// StockQty follows the same split: kilograms or a raw count.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID   primitive.ObjectID `bson:"category_id" json:"category_id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Price        float64            `bson:"price" json:"price"`
	Weight       float64            `bson:"weight" json:"weight"`
	Unit         units.Unit         `bson:"unit" json:"unit"`
	BaseUnit     string             `bson:"base_unit" json:"base_unit"`
	MinimumOrder float64            `bson:"minimum_order" json:"minimum_order"`
	StockQty     float64            `bson:"stock_qty" json:"stock_qty"`
	Available    bool               `bson:"available" json:"available"`
	Image        []byte             `bson:"image,omitempty" json:"-"`
	ImageMime    string             `bson:"image_mime,omitempty" json:"-"`
	ImageData    string             `bson:"-" json:"image,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// EncodeImage fills ImageData with a data URL built from the stored blob.
func (p *Product) EncodeImage() {
	if len(p.Image) == 0 || p.ImageData != "" {
		return
	}

	p.ImageData = "data:" + p.ImageMime + ";base64," + base64.StdEncoding.EncodeToString(p.Image)
}

func (p *Product) IsPieceBased() bool {
	return p.Unit == units.Piece
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=80"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type CreateProductRequest struct {
	CategoryID   string  `json:"category_id" validate:"required,mongodb"`
	Name         string  `json:"name" validate:"required,min=2,max=200"`
	Description  string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Weight       float64 `json:"weight" validate:"required,gt=0"`
	Unit         string  `json:"unit" validate:"required"`
	BaseUnit     string  `json:"base_unit" validate:"required"`
	MinimumOrder float64 `json:"minimum_order" validate:"gte=0"`
	StockQty     float64 `json:"stock_qty" validate:"gte=0"`
	Available    *bool   `json:"available,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID   *string  `json:"category_id,omitempty" validate:"omitempty,mongodb"`
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Weight       *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Unit         *string  `json:"unit,omitempty"`
	BaseUnit     *string  `json:"base_unit,omitempty"`
	MinimumOrder *float64 `json:"minimum_order,omitempty" validate:"omitempty,gte=0"`
	StockQty     *float64 `json:"stock_qty,omitempty" validate:"omitempty,gte=0"`
	Available    *bool    `json:"available,omitempty"`
}

type ProductFilter struct {
	CategoryID    *primitive.ObjectID
	AvailableOnly bool
	Page          int
	PageSize      int
}
