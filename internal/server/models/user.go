// Package models holds the server-side domain records.
package models

import "time"

// User is an identity stored in the document store. PasswordHash is never
// serialized by encoding/json; the repository persists it through its own
// document type.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
