package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pulsefit/studio-booking/internal/model"
)

// BookingRepo provides persistence for bookings and their add-on
// join rows. Creation reserves a spot on the booked class or event
// with a conditional update and writes the booking plus its add-ons
// inside a single transaction, so a failed add-on insert never
// leaves a dangling booking row or a leaked spot.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to start
// their own transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// Create reserves a spot and inserts the booking with its add-on
// rows. addonIDs must already be de-duplicated by the caller. It
// returns ErrCapacityFull when the activity has no spots left and
// sql.ErrNoRows when the activity row does not exist. On success
// the booking's CreatedAt/UpdatedAt are populated from the stored
// row.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking, addonIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := reserveSpotTx(ctx, tx, b); err != nil {
		return err
	}

	const ins = `INSERT INTO bookings (id, user_id, class_id, event_id, pack_id, schedule_id, payment_id, status)
	             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins,
		b.ID, b.UserID, b.ClassID, b.EventID, b.PackID, b.ScheduleID, b.PaymentID, b.Status); err != nil {
		return err
	}
	// Query back the row to populate timestamps set by the database.
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}

	if err := createAddOnsBulkTx(ctx, tx, b.ID, addonIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// reserveSpotTx increments booked_spots on the booked class or event
// only while spots remain. Check and write happen in one statement,
// so concurrent creations cannot push booked_spots past max_spots.
func reserveSpotTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	table := "classes"
	id := b.ClassID
	if b.EventID != nil {
		table = "events"
		id = b.EventID
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE "+table+" SET booked_spots = booked_spots + 1 WHERE id = ? AND booked_spots < max_spots", *id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Zero rows: either the activity is full or it does not exist.
	var one int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ? LIMIT 1", *id).Scan(&one)
	if err != nil {
		return err // sql.ErrNoRows when the activity is missing
	}
	return ErrCapacityFull
}

// createAddOnsBulkTx inserts booking_addons rows in a single
// statement. Passing an empty slice has no effect and returns nil.
func createAddOnsBulkTx(ctx context.Context, tx *sql.Tx, bookingID string, addonIDs []string) error {
	if len(addonIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_addons (booking_id, addon_id) VALUES `
	args := make([]interface{}, 0, len(addonIDs)*2)
	for i, aid := range addonIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, aid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

const bookingColumns = `id, user_id, class_id, event_id, pack_id, schedule_id, payment_id, status, created_at, updated_at`

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (model.Booking, error) {
	var (
		b                                    model.Booking
		classID, eventID, packID, scheduleID sql.NullString
	)
	err := row.Scan(&b.ID, &b.UserID, &classID, &eventID, &packID, &scheduleID,
		&b.PaymentID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	if classID.Valid {
		v := classID.String
		b.ClassID = &v
	}
	if eventID.Valid {
		v := eventID.String
		b.EventID = &v
	}
	if packID.Valid {
		v := packID.String
		b.PackID = &v
	}
	if scheduleID.Valid {
		v := scheduleID.String
		b.ScheduleID = &v
	}
	return b, nil
}

// GetByID returns a booking regardless of owner. Used by admin
// endpoints; member-facing reads go through GetByIDForUser.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BookingDetail is a booking together with its add-ons. Add-on
// prices come live from the addons table, not from a copy taken at
// booking time.
type BookingDetail struct {
	model.Booking
	Addons []model.Addon `json:"addons"`
}

// GetByIDForUser returns a single booking with its add-ons for the
// given user. The ownership condition sits in the WHERE clause, so
// a booking owned by someone else yields the same sql.ErrNoRows as
// one that does not exist.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID string) (*BookingDetail, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ? AND user_id = ?`, bookingID, userID)
	b, err := scanBooking(row)
	if err != nil {
		return nil, err
	}
	det := &BookingDetail{Booking: b, Addons: []model.Addon{}}

	const addonQ = `SELECT a.id, a.name, a.price_cents, a.is_active, a.created_at
	                FROM booking_addons ba
	                JOIN addons a ON a.id = ba.addon_id
	                WHERE ba.booking_id = ?
	                ORDER BY a.name`
	rows, err := r.db.QueryContext(ctx, addonQ, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a model.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.PriceCents, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		det.Addons = append(det.Addons, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return det, nil
}

// ListByUser returns all bookings owned by the given user, newest
// first. When no bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListAll returns bookings across all users, optionally filtered by
// exact status. No pagination; newest first.
func (r *BookingRepo) ListAll(ctx context.Context, status string) ([]model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []interface{}{}
	if s := strings.TrimSpace(status); s != "" {
		q += ` WHERE status = ?`
		args = append(args, s)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// spotAdjustment returns the booked_spots delta for a status change.
// Entering cancelled releases the spot reserved at creation; leaving
// cancelled takes one again. Every other change keeps the ledger as
// is, so any sequence of transitions releases at most one spot more
// than it reserves and booked_spots always matches the set of
// non-cancelled bookings.
func spotAdjustment(from, to string) int {
	switch {
	case to == model.BookingStatusCancelled && from != model.BookingStatusCancelled:
		return -1
	case to != model.BookingStatusCancelled && from == model.BookingStatusCancelled:
		return +1
	default:
		return 0
	}
}

// Transition writes the target status unconditionally; there is no
// terminal-state guard, so the last transition written wins. Moving
// into cancelled releases the spot reserved at creation (floored at
// zero); moving back out of cancelled re-reserves one under the same
// capacity check as Create and returns ErrCapacityFull when the
// activity has filled up in the meantime. Status update and ledger
// change share one transaction.
func (r *BookingRepo) Transition(ctx context.Context, b *model.Booking, target string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, target, b.ID); err != nil {
		return err
	}

	if b.ClassID != nil || b.EventID != nil {
		switch spotAdjustment(b.Status, target) {
		case -1:
			table := "classes"
			id := b.ClassID
			if b.EventID != nil {
				table = "events"
				id = b.EventID
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE "+table+" SET booked_spots = booked_spots - 1 WHERE id = ? AND booked_spots > 0", *id); err != nil {
				return err
			}
		case +1:
			if err := reserveSpotTx(ctx, tx, b); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.Status = target
	return nil
}
