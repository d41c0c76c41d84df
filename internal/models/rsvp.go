package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

type RSVP struct {
	bun.BaseModel `bun:"table:rsvp"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name"`
	Email       string    `bun:"email"`
	LunchCount  int64     `bun:"lunch_count,default:0"`
	DinnerCount int64     `bun:"dinner_count,default:0"`
	Timestamp   time.Time `bun:"timestamp,nullzero,notnull,default:current_timestamp"`
}

// RSVPRequest is the submission body shared by create and update.
// Counts stay raw so the service layer can reject fractional or
// non-numeric values instead of silently truncating them.
type RSVPRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	LunchCount  json.RawMessage `json:"lunch_count"`
	DinnerCount json.RawMessage `json:"dinner_count"`
}

type RSVPResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LunchCount  int64  `json:"lunch_count"`
	DinnerCount int64  `json:"dinner_count"`
	Timestamp   string `json:"timestamp"`
}

// ToResponse renders the stored timestamp as text, the way the store's
// own timestamp type prints.
func (r *RSVP) ToResponse() RSVPResponse {
	return RSVPResponse{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		LunchCount:  r.LunchCount,
		DinnerCount: r.DinnerCount,
		Timestamp:   r.Timestamp.Format("2006-01-02 15:04:05"),
	}
}

type Stats struct {
	TotalLunch     int64 `bun:"total_lunch" json:"total_lunch"`
	TotalDinner    int64 `bun:"total_dinner" json:"total_dinner"`
	TotalResponses int64 `bun:"total_responses" json:"total_responses"`
}
