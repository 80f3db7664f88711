package model

import "time"

// RefuseReason is the free-text explanation a team supplies after refusing
// a matching. Append-only.
type RefuseReason struct {
	ID         int64     `json:"id"`
	MatchingID int64     `json:"matching_id"`
	TeamID     int64     `json:"team_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
