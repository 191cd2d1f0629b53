package repository

import (
	"context"
	"database/sql"

	"github.com/pulsefit/studio-booking/internal/model"
)

// EventRepo provides CRUD operations for one-off events.
type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, name, description, starts_at, ends_at, price_cents, max_spots, booked_spots, is_active, created_at, updated_at`

func scanEvent(row interface{ Scan(dest ...interface{}) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartsAt, &e.EndsAt,
		&e.PriceCents, &e.MaxSpots, &e.BookedSpots, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Create inserts a new event. The caller supplies the prefixed id.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (id, name, description, starts_at, ends_at, price_cents, max_spots, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		e.ID, e.Name, e.Description, e.StartsAt, e.EndsAt, e.PriceCents, e.MaxSpots, e.IsActive); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM events WHERE id = ?`, e.ID).Scan(&e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by id.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListActive returns all active events ordered by start time.
func (r *EventRepo) ListActive(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE is_active = 1 ORDER BY starts_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of an event.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events SET name = ?, description = ?, starts_at = ?, ends_at = ?, price_cents = ?, max_spots = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		e.Name, e.Description, e.StartsAt, e.EndsAt, e.PriceCents, e.MaxSpots, e.IsActive, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes an event.
func (r *EventRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
