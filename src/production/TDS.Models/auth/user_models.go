package auth_models

import (
	"time"
)

// Role names recognized by the system
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account in the system
type User struct {
	UserID    string    `bson:"_id,omitempty" json:"_id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// NewUser creates a new User instance. Password must already be hashed.
func NewUser(name, email, hashedPassword, role string) *User {
	now := time.Now().UTC()
	return &User{
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsValidRole checks if a role is one the system recognizes
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
