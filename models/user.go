package models

import "time"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User mirrors a document in the Users collection. Field names must match the
// stored documents exactly; the collection is shared with the route-planning
// tooling that seeded it.
type User struct {
	UserID         string   `json:"user_id" bson:"user_id"`
	Email          string   `json:"email" bson:"email"`
	FullName       string   `json:"full_name" bson:"full_name"`
	PhoneNumber    string   `json:"phone_number" bson:"phone_number"`
	Address        string   `json:"address" bson:"address"`
	Latitude       float64  `json:"latitude" bson:"latitude"`
	Longitude      float64  `json:"longitude" bson:"longitude"`
	ProfilePicture string   `json:"profile_picture,omitempty" bson:"profile_picture,omitempty"`
	Password       string   `json:"-" bson:"password,omitempty"`
	Role           UserRole `json:"role" bson:"role"`
	IsActive       bool     `json:"is_active" bson:"is_active"`

	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// Sanitized returns a copy safe to leave the service boundary: credential
// material stripped.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// ProfileUpdate carries the partial field set accepted by the profile
// service. Nil pointers mean "leave unchanged". Password is plaintext here;
// the service hashes it before storage and drops it when empty.
type ProfileUpdate struct {
	Email          *string  `json:"email,omitempty"`
	FullName       *string  `json:"full_name,omitempty"`
	PhoneNumber    *string  `json:"phone_number,omitempty"`
	Address        *string  `json:"address,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	ProfilePicture *string  `json:"profile_picture,omitempty"`
	Password       *string  `json:"password,omitempty"`
}
