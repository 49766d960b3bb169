package model

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

// SessionRepository archives finished planning sessions. Archived records
// are only ever read back for display, never folded into a new state.
type SessionRepository interface {
	// Save stores the record under rec.ID, replacing any previous value.
	Save(ctx context.Context, rec *SessionRecord) error

	// Load returns the record or a 404 AppError when it does not exist.
	Load(ctx context.Context, sessionID string) (*SessionRecord, error)

	Delete(ctx context.Context, sessionID string) error
}

// SessionRecord is the archived transcript of one request.
type SessionRecord struct {
	ID                string            `json:"id"`
	City              string            `json:"city"`
	Interests         []string          `json:"interests"`
	AdditionalDetails string            `json:"additional_details"`
	Itinerary         string            `json:"itinerary"`
	Messages          []*schema.Message `json:"messages"`
	Usage             *UsageCost        `json:"usage,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// NewSessionRecord snapshots a finished result.
func NewSessionRecord(res *PlanResult) *SessionRecord {
	return &SessionRecord{
		ID:                res.SessionID,
		City:              res.State.City,
		Interests:         res.State.Interests,
		AdditionalDetails: res.State.AdditionalDetails,
		Itinerary:         res.Itinerary,
		Messages:          res.State.Messages,
		Usage:             res.Usage,
		CreatedAt:         res.CreatedAt,
	}
}
