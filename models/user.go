// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// User represents an account allowed to call the table API.
type User struct {
	// Login is the unique user login and the JWT subject.
	Login string `json:"login"`

	// Password is the plaintext password on input. It is never persisted.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash stored by the repository.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
