package dto

import (
	"time"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
)

type MatchingInfoResponse struct {
	MatchingID      int64      `json:"matching_id"`
	OurTeam         model.Team `json:"ourteam"`
	PartnerTeam     model.Team `json:"partner"`
	OurDecision     string     `json:"our_decision"`
	PartnerDecision string     `json:"partner_decision"`
	ChatCreatedAt   *time.Time `json:"chat_created_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type DecisionResponse struct {
	OK bool `json:"ok"`
}

type RefuseReasonRequest struct {
	Content string `json:"content"`
}

type RefuseReasonResponse struct {
	OK bool `json:"ok"`
}
