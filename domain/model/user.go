package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// User represents an account that owns scheduled posts and Google credentials
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserName  string    `json:"user_name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserClaims struct {
	jwt.StandardClaims
	UserName string `json:"user_name"`
}
