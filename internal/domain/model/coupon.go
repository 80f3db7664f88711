package model

import "time"

type Coupon struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	UserID    *int64     `json:"user_id"`
	Type      int        `json:"type"`
	UsedAt    *time.Time `json:"used_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}
