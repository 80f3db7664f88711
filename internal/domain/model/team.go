package model

import (
	"time"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
)

// Team is a group of users jointly applying for a matching. A user has at
// most one non-deleted team at a time; the team is soft-deleted when its
// matching concludes or the application is withdrawn.
type Team struct {
	ID             int64        `json:"id"`
	OwnerUserID    int64        `json:"owner_user_id"`
	Gender         enums.Gender `json:"gender"`
	MemberCount    int          `json:"member_count"`
	Age            int          `json:"age"`
	Drink          int          `json:"drink"`
	Intro          string       `json:"intro"`
	Universities   []int        `json:"universities"`
	Areas          []int        `json:"areas"`
	Days           []int        `json:"days"`
	Jobs           []int        `json:"jobs"`
	Appearances    []int        `json:"appearances"`
	Mbtis          []int        `json:"mbtis"`
	Fashions       []int        `json:"fashions"`
	Roles          []int        `json:"roles"`
	Vibes          []int        `json:"vibes"`
	PrefAgeMin     int          `json:"pref_age_min"`
	PrefAgeMax     int          `json:"pref_age_max"`
	PrefHeightMin  int          `json:"pref_height_min"`
	PrefHeightMax  int          `json:"pref_height_max"`
	SameUniversity bool         `json:"same_university"`
	CreatedAt      time.Time    `json:"created_at"`
	DeletedAt      *time.Time   `json:"deleted_at"`
}
