package model

import (
	"time"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
)

// Matching pairs one male team with one female team. Each side decides
// independently; a consumed ticket is referenced by the side that accepted
// so it can be refunded if the partner later refuses.
type Matching struct {
	ID             int64          `json:"id"`
	MaleTeamID     int64          `json:"male_team_id"`
	FemaleTeamID   int64          `json:"female_team_id"`
	MaleDecision   enums.Decision `json:"male_decision"`
	FemaleDecision enums.Decision `json:"female_decision"`
	MaleTicketID   *int64         `json:"male_ticket_id"`
	FemaleTicketID *int64         `json:"female_ticket_id"`
	ChatCreatedAt  *time.Time     `json:"chat_created_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      *time.Time     `json:"deleted_at"`
}
