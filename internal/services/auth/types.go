package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRefreshNotFound = errors.New("refresh token not found")
)

type SessionRecord struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    int64
	Nickname  string
	Role      string
	ExpiresAt time.Time
}

type Me struct {
	ID       int64
	Nickname string
	Role     string
}

type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	Me            Me
}

// KakaoProfile is the subset of the identity provider's account payload the
// service consumes.
type KakaoProfile struct {
	KakaoUID int64
	Nickname string
	Gender   string
	Birthday string
	AgeRange string
}
