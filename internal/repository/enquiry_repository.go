package repository

import (
	"context"
	"database/sql"

	"github.com/pulsefit/studio-booking/internal/model"
)

// EnquiryRepo persists public contact requests.
type EnquiryRepo struct{ db *sql.DB }

func NewEnquiryRepo(db *sql.DB) *EnquiryRepo { return &EnquiryRepo{db: db} }

func (r *EnquiryRepo) Create(ctx context.Context, e *model.Enquiry) error {
	const q = `INSERT INTO enquiries (id, name, email, phone, message) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, e.ID, e.Name, e.Email, e.Phone, e.Message); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM enquiries WHERE id = ?`, e.ID).Scan(&e.CreatedAt)
}

// ListAll returns enquiries newest first, unresolved before resolved.
func (r *EnquiryRepo) ListAll(ctx context.Context) ([]model.Enquiry, error) {
	const q = `SELECT id, name, email, phone, message, resolved, created_at
	           FROM enquiries ORDER BY resolved, created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Enquiry, 0)
	for rows.Next() {
		var e model.Enquiry
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Message, &e.Resolved, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Resolve marks an enquiry resolved. Resolving an already-resolved
// enquiry succeeds; MySQL reports zero affected rows for a no-change
// update, so zero rows triggers an existence check instead of being
// treated as not found directly.
func (r *EnquiryRepo) Resolve(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE enquiries SET resolved = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1 FROM enquiries WHERE id = ?`, id).Scan(&one)
}
