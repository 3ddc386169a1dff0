package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hosterly/booking-api/internal/model"
)

// TimeslotRepo provides CRUD access to hoster availability timeslots.
// Deletion is not exposed here: withdrawing a timeslot has cascading
// side effects (cancelled appointments, notifications) and therefore
// belongs to the booking engine, which runs it inside one transaction.
type TimeslotRepo struct{ DB *sql.DB }

func NewTimeslotRepo(db *sql.DB) *TimeslotRepo { return &TimeslotRepo{DB: db} }

// Create inserts a timeslot and returns the stored row. Range sanity
// (start < end) is checked by the handler before it gets here; no
// overlap check is performed on purpose; a hoster may publish
// overlapping availability.
func (r *TimeslotRepo) Create(ctx context.Context, hosterID uint64, start, end time.Time) (model.Timeslot, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO hoster_timeslots (hoster_id, start_time, end_time) VALUES (?,?,?)",
		hosterID, start.UTC(), end.UTC())
	if err != nil {
		return model.Timeslot{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Timeslot{}, err
	}
	var ts model.Timeslot
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,hoster_id,start_time,end_time,created_at FROM hoster_timeslots WHERE id=?",
		id).Scan(&ts.ID, &ts.HosterID, &ts.StartTime, &ts.EndTime, &ts.CreatedAt)
	return ts, err
}

// GetByID fetches a single timeslot, sql.ErrNoRows when absent.
func (r *TimeslotRepo) GetByID(ctx context.Context, id uint64) (model.Timeslot, error) {
	var ts model.Timeslot
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,hoster_id,start_time,end_time,created_at FROM hoster_timeslots WHERE id=?",
		id).Scan(&ts.ID, &ts.HosterID, &ts.StartTime, &ts.EndTime, &ts.CreatedAt)
	return ts, err
}

// ListByHoster returns the hoster's timeslots ordered by start time.
func (r *TimeslotRepo) ListByHoster(ctx context.Context, hosterID uint64) ([]model.Timeslot, error) {
	const q = `SELECT id,hoster_id,start_time,end_time,created_at
	           FROM hoster_timeslots WHERE hoster_id = ? ORDER BY start_time`
	return r.scanList(ctx, q, hosterID)
}

// ListByConnection returns the timeslots of the hoster behind the
// given connection token, ordered by start time. Unknown tokens yield
// an empty list, matching the permissive original listing behavior.
func (r *TimeslotRepo) ListByConnection(ctx context.Context, connectionID string) ([]model.Timeslot, error) {
	const q = `SELECT ht.id,ht.hoster_id,ht.start_time,ht.end_time,ht.created_at
	           FROM hoster_timeslots ht
	           JOIN hoster_clients hc ON hc.hoster_id = ht.hoster_id
	           WHERE hc.connection_id = ?
	           ORDER BY ht.start_time`
	return r.scanList(ctx, q, connectionID)
}

func (r *TimeslotRepo) scanList(ctx context.Context, query string, arg interface{}) ([]model.Timeslot, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Timeslot, 0)
	for rows.Next() {
		var ts model.Timeslot
		if err := rows.Scan(&ts.ID, &ts.HosterID, &ts.StartTime, &ts.EndTime, &ts.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
