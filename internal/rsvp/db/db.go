package db

import (
	"context"

	"github.com/uptrace/bun"

	"rsvp-service/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateSchema ensures the rsvp table exists. It is idempotent and must
// run before the service accepts traffic.
func (d *DB) CreateSchema(ctx context.Context) error {
	_, err := d.Bun.NewCreateTable().
		Model((*models.RSVP)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (d *DB) CreateRSVP(ctx context.Context, rsvp *models.RSVP) error {
	_, err := d.Bun.NewInsert().
		Model(rsvp).
		Exec(ctx)
	return err
}

func (d *DB) GetRSVPByID(ctx context.Context, id int64) (*models.RSVP, error) {
	var rsvp models.RSVP
	err := d.Bun.NewSelect().
		Model(&rsvp).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// ListRSVPs returns every record, most recent first. The id tiebreak keeps
// the order stable when two rows share a second-granularity timestamp.
func (d *DB) ListRSVPs(ctx context.Context) ([]models.RSVP, error) {
	rsvps := make([]models.RSVP, 0)
	err := d.Bun.NewSelect().
		Model(&rsvps).
		OrderExpr("timestamp DESC").
		OrderExpr("id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rsvps, nil
}

func (d *DB) UpdateRSVP(ctx context.Context, rsvp *models.RSVP) error {
	_, err := d.Bun.NewUpdate().
		Model(rsvp).
		Column("name", "email", "lunch_count", "dinner_count").
		Where("id = ?", rsvp.ID).
		Exec(ctx)
	return err
}

func (d *DB) DeleteRSVP(ctx context.Context, id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.RSVP)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// GetStats computes the meal totals and the response count in one read.
// COALESCE keeps the sums at zero on an empty table instead of NULL.
func (d *DB) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	err := d.Bun.NewRaw(`
		SELECT
			COALESCE(SUM(lunch_count), 0) AS total_lunch,
			COALESCE(SUM(dinner_count), 0) AS total_dinner,
			COUNT(*) AS total_responses
		FROM rsvp
	`).Scan(ctx, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
