package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized into API responses.
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserDocument is the persisted form of User, including the hash.
// Kept separate so the hash never leaks through handler responses.
type UserDocument struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToDocument converts a User to its persisted form.
func (u *User) ToDocument() *UserDocument {
	return &UserDocument{
		UserID:       u.UserID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ToUser converts a persisted document back to a User.
func (d *UserDocument) ToUser() *User {
	return &User{
		UserID:       d.UserID,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
