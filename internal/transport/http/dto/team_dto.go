package dto

import "time"

type CreateTeamRequest struct {
	Gender         string `json:"gender"`
	MemberCount    int    `json:"member_count"`
	Age            int    `json:"age"`
	Drink          int    `json:"drink"`
	Intro          string `json:"intro"`
	Universities   []int  `json:"universities"`
	Areas          []int  `json:"areas"`
	Days           []int  `json:"days"`
	Jobs           []int  `json:"jobs"`
	Appearances    []int  `json:"appearances"`
	Mbtis          []int  `json:"mbtis"`
	Fashions       []int  `json:"fashions"`
	Roles          []int  `json:"roles"`
	Vibes          []int  `json:"vibes"`
	PrefAgeMin     int    `json:"pref_age_min"`
	PrefAgeMax     int    `json:"pref_age_max"`
	PrefHeightMin  int    `json:"pref_height_min"`
	PrefHeightMax  int    `json:"pref_height_max"`
	SameUniversity bool   `json:"same_university"`
}

type CreateTeamResponse struct {
	TeamID int64 `json:"team_id"`
}

type TeamCountsResponse struct {
	Male    int `json:"male"`
	Female  int `json:"female"`
	Waiting int `json:"waiting"`
}

type TeamHistoryItem struct {
	TeamID        int64      `json:"team_id"`
	MemberCount   int        `json:"member_count"`
	AppliedAt     time.Time  `json:"applied_at"`
	ChatCreatedAt *time.Time `json:"chat_created_at,omitempty"`
}
