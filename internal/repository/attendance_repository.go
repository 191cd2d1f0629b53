package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/utils"
)

// ErrUnknownActivityKind is returned when an activity id carries a
// prefix that is neither "class" nor "event".
var ErrUnknownActivityKind = errors.New("unknown activity kind")

// ActivityKindFromID maps an opaque activity id to its kind via the
// id prefix. The prefix convention is shared with the booking flow
// and must stay stable.
func ActivityKindFromID(activityID string) (string, error) {
	switch utils.IDPrefix(activityID) {
	case "class":
		return model.ActivityKindClass, nil
	case "event":
		return model.ActivityKindEvent, nil
	default:
		return "", ErrUnknownActivityKind
	}
}

// AttendanceRepo persists per-booking attendance marks.
type AttendanceRepo struct{ db *sql.DB }

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{db: db} }

// Mark inserts an attendance record. The activity kind is inferred
// from the activity id prefix before the insert.
func (r *AttendanceRepo) Mark(ctx context.Context, a *model.Attendance) error {
	kind, err := ActivityKindFromID(a.ActivityID)
	if err != nil {
		return err
	}
	a.ActivityKind = kind
	const q = `INSERT INTO attendance (id, booking_id, activity_id, activity_kind, attended) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, a.ID, a.BookingID, a.ActivityID, a.ActivityKind, a.Attended); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT marked_at FROM attendance WHERE id = ?`, a.ID).Scan(&a.MarkedAt)
}

// ListByActivity returns attendance records for one activity.
func (r *AttendanceRepo) ListByActivity(ctx context.Context, activityID string) ([]model.Attendance, error) {
	const q = `SELECT id, booking_id, activity_id, activity_kind, attended, marked_at
	           FROM attendance WHERE activity_id = ? ORDER BY marked_at DESC`
	rows, err := r.db.QueryContext(ctx, q, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Attendance, 0)
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.BookingID, &a.ActivityID, &a.ActivityKind, &a.Attended, &a.MarkedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
