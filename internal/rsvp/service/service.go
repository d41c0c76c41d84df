package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rsvp-service/internal/logger"
	"rsvp-service/internal/models"
)

// ErrNotFound is returned by update and delete when no record carries
// the requested identifier.
var ErrNotFound = errors.New("rsvp not found")

// ValidationError marks a request that must be rejected before any store
// mutation is attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type DBLayer interface {
	CreateRSVP(ctx context.Context, rsvp *models.RSVP) error
	GetRSVPByID(ctx context.Context, id int64) (*models.RSVP, error)
	ListRSVPs(ctx context.Context) ([]models.RSVP, error)
	UpdateRSVP(ctx context.Context, rsvp *models.RSVP) error
	DeleteRSVP(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*models.Stats, error)
}

// Notifier delivers the confirmation message. Implementations are
// best-effort: errors surface to the caller only for logging.
type Notifier interface {
	SendConfirmation(name, email string, lunchCount, dinnerCount int64) error
}

type RSVPService struct {
	DB       DBLayer
	Notifier Notifier
	Logger   *logger.Logger
}

func NewRSVPService(db DBLayer, notifier Notifier, log *logger.Logger) *RSVPService {
	return &RSVPService{DB: db, Notifier: notifier, Logger: log}
}

// Submit validates and persists a new RSVP, then dispatches the
// confirmation email without waiting on it.
func (s *RSVPService) Submit(ctx context.Context, req models.RSVPRequest) (*models.RSVP, error) {
	name, email, lunch, dinner, err := normalize(req)
	if err != nil {
		return nil, err
	}

	rsvp := &models.RSVP{
		Name:        name,
		Email:       email,
		LunchCount:  lunch,
		DinnerCount: dinner,
	}

	if err := s.DB.CreateRSVP(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("failed to create rsvp: %w", err)
	}
	s.Logger.LogRSVP("CREATE", rsvp.ID, fmt.Sprintf("name=%s lunch=%d dinner=%d", name, lunch, dinner))

	// Confirmation is create-only and must never block or fail the
	// response. The durable write has already committed at this point.
	go s.notify(name, email, lunch, dinner)

	return rsvp, nil
}

func (s *RSVPService) notify(name, email string, lunch, dinner int64) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("MAIL", fmt.Sprintf("Notification panic recovered: %v", r))
		}
	}()

	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendConfirmation(name, email, lunch, dinner); err != nil {
		s.Logger.Error("MAIL", fmt.Sprintf("Failed to send confirmation to %s: %v", email, err))
	}
}

func (s *RSVPService) List(ctx context.Context) ([]models.RSVPResponse, error) {
	rsvps, err := s.DB.ListRSVPs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}

	responses := make([]models.RSVPResponse, 0, len(rsvps))
	for i := range rsvps {
		responses = append(responses, rsvps[i].ToResponse())
	}
	return responses, nil
}

// Update replaces the four mutable fields of an existing record. The
// identifier and creation timestamp are untouched and no notification
// is sent.
func (s *RSVPService) Update(ctx context.Context, id int64, req models.RSVPRequest) error {
	name, email, lunch, dinner, err := normalize(req)
	if err != nil {
		return err
	}

	existing, err := s.DB.GetRSVPByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up rsvp %d: %w", id, err)
	}

	existing.Name = name
	existing.Email = email
	existing.LunchCount = lunch
	existing.DinnerCount = dinner

	if err := s.DB.UpdateRSVP(ctx, existing); err != nil {
		return fmt.Errorf("failed to update rsvp %d: %w", id, err)
	}
	s.Logger.LogRSVP("UPDATE", id, fmt.Sprintf("name=%s lunch=%d dinner=%d", name, lunch, dinner))

	return nil
}

func (s *RSVPService) Delete(ctx context.Context, id int64) error {
	if _, err := s.DB.GetRSVPByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up rsvp %d: %w", id, err)
	}

	if err := s.DB.DeleteRSVP(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rsvp %d: %w", id, err)
	}
	s.Logger.LogRSVP("DELETE", id, "removed")

	return nil
}

func (s *RSVPService) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.DB.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// normalize applies the shared validation contract: blank names become
// "Anonymous", emails are trimmed (empty means no notification), counts
// must be non-negative integers and default to zero when absent.
func normalize(req models.RSVPRequest) (name, email string, lunch, dinner int64, err error) {
	name = strings.TrimSpace(req.Name)
	if name == "" {
		name = "Anonymous"
	}
	email = strings.TrimSpace(req.Email)

	lunch, err = parseCount(req.LunchCount)
	if err != nil {
		return "", "", 0, 0, err
	}
	dinner, err = parseCount(req.DinnerCount)
	if err != nil {
		return "", "", 0, 0, err
	}

	if lunch < 0 || dinner < 0 {
		return "", "", 0, 0, &ValidationError{Message: "Counts cannot be negative"}
	}
	return name, email, lunch, dinner, nil
}

// parseCount accepts an integer or an integer-shaped string, defaults an
// absent value to zero, and rejects everything else.
func parseCount(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, &ValidationError{Message: "Invalid count values"}
	}
	v, err := n.Int64()
	if err != nil {
		return 0, &ValidationError{Message: "Invalid count values"}
	}
	return v, nil
}
