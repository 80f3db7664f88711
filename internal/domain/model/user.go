package model

import (
	"time"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
)

type User struct {
	ID            int64      `json:"id"`
	KakaoUID      int64      `json:"kakao_uid"`
	Nickname      string     `json:"nickname"`
	Phone         string     `json:"phone"`
	Gender        *string    `json:"gender"`
	Birthday      *string    `json:"birthday"`
	AgeRange      *string    `json:"age_range"`
	ReferralID    string     `json:"referral_id"`
	InvitedByID   *int64     `json:"invited_by_id"`
	Role          enums.Role `json:"role"`
	IsBlacklisted bool       `json:"is_blacklisted"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at"`
}
