package repository

import (
	"context"
	"database/sql"

	"github.com/pulsefit/studio-booking/internal/model"
)

// ClassRepo provides CRUD operations for classes. Capacity fields
// (max_spots/booked_spots) are written here only by admin edits;
// the booking flow mutates booked_spots through its own conditional
// updates.
type ClassRepo struct{ db *sql.DB }

func NewClassRepo(db *sql.DB) *ClassRepo { return &ClassRepo{db: db} }

const classColumns = `id, name, description, trainer_id, price_cents, max_spots, booked_spots, is_active, created_at, updated_at`

func scanClass(row interface{ Scan(dest ...interface{}) error }) (model.Class, error) {
	var (
		c         model.Class
		trainerID sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.Description, &trainerID, &c.PriceCents,
		&c.MaxSpots, &c.BookedSpots, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if trainerID.Valid {
		v := trainerID.String
		c.TrainerID = &v
	}
	return c, nil
}

// Create inserts a new class. The caller supplies the prefixed id.
func (r *ClassRepo) Create(ctx context.Context, c *model.Class) error {
	const q = `INSERT INTO classes (id, name, description, trainer_id, price_cents, max_spots, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		c.ID, c.Name, c.Description, c.TrainerID, c.PriceCents, c.MaxSpots, c.IsActive); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM classes WHERE id = ?`, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a class by id.
func (r *ClassRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+classColumns+` FROM classes WHERE id = ?`, id)
	c, err := scanClass(row)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActive returns all active classes ordered by name.
func (r *ClassRepo) ListActive(ctx context.Context) ([]model.Class, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+classColumns+` FROM classes WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Class, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of a class.
func (r *ClassRepo) Update(ctx context.Context, c *model.Class) error {
	const q = `UPDATE classes SET name = ?, description = ?, trainer_id = ?, price_cents = ?, max_spots = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.Description, c.TrainerID, c.PriceCents, c.MaxSpots, c.IsActive, c.ID)
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

// Deactivate soft-deletes a class. Rows stay in place because
// bookings reference them.
func (r *ClassRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE classes SET is_active = 0 WHERE id = ?`, id)
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
