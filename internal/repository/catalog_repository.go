package repository

import (
	"context"
	"database/sql"

	"github.com/pulsefit/studio-booking/internal/model"
)

// ScheduleRepo persists the recurring weekly time slots of classes.
type ScheduleRepo struct{ db *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

func (r *ScheduleRepo) Create(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO schedules (id, class_id, weekday, start_time, duration_min) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, s.ID, s.ClassID, s.Weekday, s.StartTime, s.DurationMin); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM schedules WHERE id = ?`, s.ID).Scan(&s.CreatedAt)
}

// ListByClass returns the slots of one class ordered by weekday and
// start time.
func (r *ScheduleRepo) ListByClass(ctx context.Context, classID string) ([]model.Schedule, error) {
	const q = `SELECT id, class_id, weekday, start_time, duration_min, created_at
	           FROM schedules WHERE class_id = ? ORDER BY weekday, start_time`
	rows, err := r.db.QueryContext(ctx, q, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Schedule, 0)
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.ID, &s.ClassID, &s.Weekday, &s.StartTime, &s.DurationMin, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a schedule slot. A slot referenced by bookings
// cannot be removed; the foreign key violation maps to ErrConflict.
func (r *ScheduleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		if isMySQLErr(err, 1451) {
			return ErrConflict
		}
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

// PackRepo persists prepaid session bundles.
type PackRepo struct{ db *sql.DB }

func NewPackRepo(db *sql.DB) *PackRepo { return &PackRepo{db: db} }

func (r *PackRepo) Create(ctx context.Context, p *model.Pack) error {
	const q = `INSERT INTO packs (id, name, description, sessions, price_cents, kind, is_active)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Sessions, p.PriceCents, p.Kind, p.IsActive); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM packs WHERE id = ?`, p.ID).Scan(&p.CreatedAt)
}

func (r *PackRepo) ListActive(ctx context.Context) ([]model.Pack, error) {
	const q = `SELECT id, name, description, sessions, price_cents, kind, is_active, created_at
	           FROM packs WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Pack, 0)
	for rows.Next() {
		var p model.Pack
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Sessions, &p.PriceCents, &p.Kind, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PackRepo) Update(ctx context.Context, p *model.Pack) error {
	const q = `UPDATE packs SET name = ?, description = ?, sessions = ?, price_cents = ?, kind = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Description, p.Sessions, p.PriceCents, p.Kind, p.IsActive, p.ID)
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

func (r *PackRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE packs SET is_active = 0 WHERE id = ?`, id)
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

// AddonRepo persists optional priced extras. Add-ons are toggled
// active/inactive rather than deleted because booking_addons rows
// reference them.
type AddonRepo struct{ db *sql.DB }

func NewAddonRepo(db *sql.DB) *AddonRepo { return &AddonRepo{db: db} }

func (r *AddonRepo) Create(ctx context.Context, a *model.Addon) error {
	const q = `INSERT INTO addons (id, name, price_cents, is_active) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, a.ID, a.Name, a.PriceCents, a.IsActive); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM addons WHERE id = ?`, a.ID).Scan(&a.CreatedAt)
}

func (r *AddonRepo) ListAll(ctx context.Context) ([]model.Addon, error) {
	const q = `SELECT id, name, price_cents, is_active, created_at FROM addons ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Addon, 0)
	for rows.Next() {
		var a model.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.PriceCents, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AddonRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE addons SET is_active = ? WHERE id = ?`, active, id)
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

// TrainerRepo persists studio trainers.
type TrainerRepo struct{ db *sql.DB }

func NewTrainerRepo(db *sql.DB) *TrainerRepo { return &TrainerRepo{db: db} }

func (r *TrainerRepo) Create(ctx context.Context, t *model.Trainer) error {
	const q = `INSERT INTO trainers (id, name, bio, specialty, is_active) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, t.ID, t.Name, t.Bio, t.Specialty, t.IsActive); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM trainers WHERE id = ?`, t.ID).Scan(&t.CreatedAt)
}

func (r *TrainerRepo) ListActive(ctx context.Context) ([]model.Trainer, error) {
	const q = `SELECT id, name, bio, specialty, is_active, created_at FROM trainers WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Trainer, 0)
	for rows.Next() {
		var t model.Trainer
		if err := rows.Scan(&t.ID, &t.Name, &t.Bio, &t.Specialty, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TrainerRepo) Update(ctx context.Context, t *model.Trainer) error {
	const q = `UPDATE trainers SET name = ?, bio = ?, specialty = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Bio, t.Specialty, t.IsActive, t.ID)
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
