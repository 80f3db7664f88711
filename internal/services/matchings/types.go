package matchings

import (
	"errors"
	"time"

	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/enums"
	"github.com/MoonGyu1/MeetingApplicationServer-1/internal/domain/model"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("matching not found")
	ErrAlreadyResponded = errors.New("team already responded")
	ErrPartnerRefused   = errors.New("partner team refused the matching")
	ErrNoTicket         = errors.New("no unconsumed ticket")
)

// Info is the side-relative view of a matching: whichever side the caller's
// team is on becomes OurTeam, the other becomes PartnerTeam.
type Info struct {
	MatchingID      int64          `json:"matching_id"`
	OurTeam         model.Team     `json:"ourteam"`
	PartnerTeam     model.Team     `json:"partner"`
	OurDecision     enums.Decision `json:"our_decision"`
	PartnerDecision enums.Decision `json:"partner_decision"`
	ChatCreatedAt   *time.Time     `json:"chat_created_at"`
	CreatedAt       time.Time      `json:"created_at"`
}
