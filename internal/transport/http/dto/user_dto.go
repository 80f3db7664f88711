package dto

import "time"

type MyInfoResponse struct {
	ID         int64   `json:"id"`
	Nickname   string  `json:"nickname"`
	Phone      string  `json:"phone"`
	Gender     *string `json:"gender,omitempty"`
	Birthday   *string `json:"birthday,omitempty"`
	AgeRange   *string `json:"age_range,omitempty"`
	ReferralID string  `json:"referral_id"`
	Role       string  `json:"role"`
}

type TeamIDResponse struct {
	TeamID int64 `json:"team_id"`
}

type MatchingIDResponse struct {
	MatchingID int64 `json:"matching_id"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type CouponResponse struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	Type      int        `json:"type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type RegisterCouponRequest struct {
	Code string `json:"code"`
}

type InvitationInfoResponse struct {
	ReferralID   string `json:"referral_id"`
	InvitedCount int    `json:"invited_count"`
}

type AgreementsRequest struct {
	Service   bool `json:"service"`
	Privacy   bool `json:"privacy"`
	Age       bool `json:"age"`
	Marketing bool `json:"marketing"`
}

type AgreementsResponse struct {
	Service   bool `json:"service"`
	Privacy   bool `json:"privacy"`
	Age       bool `json:"age"`
	Marketing bool `json:"marketing"`
}
