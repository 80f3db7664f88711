package model

import "time"

type Agreement struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Service   bool      `json:"service"`
	Privacy   bool      `json:"privacy"`
	Age       bool      `json:"age"`
	Marketing bool      `json:"marketing"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
