package store

import (
	"context"
	"errors"
	"time"

	"captable/internal/model"
)

var (
	ErrNotFound     = errors.New("scenario not found")
	ErrShareExpired = errors.New("share link expired")
	// ErrOwnership is returned when saving over a scenario id held by another user.
	ErrOwnership = errors.New("scenario belongs to another user")
)

// Record is a stored scenario with its ownership metadata.
type Record struct {
	Scenario  model.Scenario `json:"scenario"`
	UserID    string         `json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Summary is a Record without the scenario body, for list responses.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rounds    int       `json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShareLink struct {
	Token      string    `json:"token"`
	ScenarioID string    `json:"scenario_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Store persists scenarios keyed by id, scoped to the owning user.
// A scenario owned by another user is reported as ErrNotFound by reads.
type Store interface {
	Get(ctx context.Context, userID, id string) (*Record, error)
	List(ctx context.Context, userID string) ([]Summary, error)
	// Save inserts or replaces the scenario, assigning an id when it has none.
	Save(ctx context.Context, userID string, s model.Scenario) (*Record, error)
	Delete(ctx context.Context, userID, id string) error
	CreateShareLink(ctx context.Context, userID, id string, ttl time.Duration) (*ShareLink, error)
	// GetShared resolves a share token. Expired links return ErrShareExpired.
	GetShared(ctx context.Context, token string) (*Record, error)
	Close()
}

// clone copies r so callers never share slices with the stored record.
func (r *Record) clone() *Record {
	out := *r
	out.Scenario = r.Scenario.Clone()
	return &out
}

func summarize(r Record) Summary {
	return Summary{
		ID:        r.Scenario.ID,
		Name:      r.Scenario.Name,
		Rounds:    len(r.Scenario.Rounds),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
