package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Phone        string             `bson:"phone" json:"phone"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	SessionToken string             `bson:"session_token,omitempty" json:"-"`
	LastLoginAt  *time.Time         `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// OTPRecord is the Redis-side state of an issued code.
type OTPRecord struct {
	CodeHash string
	Attempts int
}

type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone_in"`
}

type SendOTPResponse struct {
	ExpiresIn   int    `json:"expires_in"`
	ResendsLeft int    `json:"resends_left"`
	Code        string `json:"code,omitempty"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,phone_in"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	User      *User  `json:"user,omitempty"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// JWT claims structure
type Claims struct {
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token,omitempty"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
