package dto

import "time"

type AdminMatchingResponse struct {
	MatchingID    int64      `json:"matching_id"`
	MaleTeamID    int64      `json:"male_team_id"`
	FemaleTeamID  int64      `json:"female_team_id"`
	ChatCreatedAt *time.Time `json:"chat_created_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type AdminRefuseReasonResponse struct {
	MatchingID int64     `json:"matching_id"`
	TeamID     int64     `json:"team_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type BlacklistRequest struct {
	Blacklisted bool `json:"blacklisted"`
}

type AdminActionResponse struct {
	OK bool `json:"ok"`
}
