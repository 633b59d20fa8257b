package models

import "time"

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     *string    `json:"full_name"`  //nolint:tagliatelle
	CreatedAt    time.Time  `json:"created_at"` //nolint:tagliatelle
	UpdatedAt    time.Time  `json:"updated_at"` //nolint:tagliatelle
	IsDeleted    bool       `json:"-"`
	DeletedAt    *time.Time `json:"-"`
}
