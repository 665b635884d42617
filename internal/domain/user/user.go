package user

import (
	"context"
	"time"

	"github.com/example/ec-shop/internal/apperrors"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrNotFound      = apperrors.NotFound("user not found")
	ErrEmailTaken    = apperrors.New(apperrors.KindConflict, "email is already registered")
	ErrBadCredential = apperrors.Unauthorized("invalid email or password")
	ErrInvalidEmail  = apperrors.BadRequest("a valid email is required")
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:customer"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository is the persistence contract for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Directory is the narrow read interface other components use to resolve
// a user id to a known identity.
type Directory interface {
	Exists(ctx context.Context, id string) (bool, error)
}
