package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hosterly/booking-api/internal/engine"
	"github.com/hosterly/booking-api/internal/model"
)

// RequestRepo provides CRUD access to client requests. Retraction is
// not exposed here; deleting a request notifies the hoster and so runs
// through the booking engine.
type RequestRepo struct{ DB *sql.DB }

func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{DB: db} }

// Create inserts a request and returns the stored row. Containment of
// [start,end) within the timeslot and the 1-5 preference range are
// enforced by the handler before insertion.
func (r *RequestRepo) Create(ctx context.Context, timeslotID uint64, connectionID string, start, end time.Time, preference int) (model.Request, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO client_requests (hoster_timeslot_id, connection_id, start_time, end_time, preference)
		 VALUES (?,?,?,?,?)`,
		timeslotID, connectionID, start.UTC(), end.UTC(), preference)
	if err != nil {
		return model.Request{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Request{}, err
	}
	return r.getByID(ctx, uint64(id))
}

func (r *RequestRepo) getByID(ctx context.Context, id uint64) (model.Request, error) {
	var req model.Request
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,hoster_timeslot_id,connection_id,start_time,end_time,preference,validated_by_hoster,created_at
		 FROM client_requests WHERE id=?`, id).
		Scan(&req.ID, &req.TimeslotID, &req.ConnectionID, &req.StartTime, &req.EndTime,
			&req.Preference, &req.ValidatedByHoster, &req.CreatedAt)
	return req, err
}

// UpdatePreference overwrites a request's preference unconditionally
// (the validated state is deliberately not consulted) and returns the
// updated row. sql.ErrNoRows when the request does not exist.
func (r *RequestRepo) UpdatePreference(ctx context.Context, requestID uint64, preference int) (model.Request, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE client_requests SET preference=? WHERE id=?", preference, requestID)
	if err != nil {
		return model.Request{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Request{}, err
	} else if n == 0 {
		// Distinguish "absent" from "unchanged": a same-value update
		// also affects zero rows on MySQL, so probe for existence.
		if _, err := r.getByID(ctx, requestID); err != nil {
			return model.Request{}, err
		}
	}
	return r.getByID(ctx, requestID)
}

// ListByTimeslot returns all requests submitted against a timeslot,
// joined with the requesting client's identity. The slice comes back
// in submission order; engine.OrderRequests puts it into the hoster's
// review order (preference desc, then submission time).
func (r *RequestRepo) ListByTimeslot(ctx context.Context, timeslotID uint64) ([]engine.RequestDetail, error) {
	const q = `SELECT cr.id, cr.hoster_timeslot_id, cr.connection_id, c.id, c.name,
	                  cr.start_time, cr.end_time, cr.preference, cr.validated_by_hoster, cr.created_at
	           FROM client_requests cr
	           JOIN hoster_clients hc ON hc.connection_id = cr.connection_id
	           JOIN clients c ON c.id = hc.client_id
	           WHERE cr.hoster_timeslot_id = ?
	           ORDER BY cr.created_at, cr.id`
	rows, err := r.DB.QueryContext(ctx, q, timeslotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]engine.RequestDetail, 0)
	for rows.Next() {
		var d engine.RequestDetail
		if err := rows.Scan(&d.ID, &d.TimeslotID, &d.ConnectionID, &d.ClientID, &d.ClientName,
			&d.StartTime, &d.EndTime, &d.Preference, &d.Validated, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ClientRequest is a request as listed back to the client that
// submitted it, with the enclosing timeslot's range attached.
type ClientRequest struct {
	ID            uint64    `json:"id"`
	TimeslotID    uint64    `json:"timeslot_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Preference    int       `json:"preference"`
	Validated     bool      `json:"validated"`
	TimeslotStart time.Time `json:"timeslot_start"`
	TimeslotEnd   time.Time `json:"timeslot_end"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListByConnection returns the requests belonging to a connection
// token, ordered by requested start time.
func (r *RequestRepo) ListByConnection(ctx context.Context, connectionID string) ([]ClientRequest, error) {
	const q = `SELECT cr.id, cr.hoster_timeslot_id, cr.start_time, cr.end_time,
	                  cr.preference, cr.validated_by_hoster,
	                  ht.start_time, ht.end_time, cr.created_at
	           FROM client_requests cr
	           JOIN hoster_timeslots ht ON ht.id = cr.hoster_timeslot_id
	           WHERE cr.connection_id = ?
	           ORDER BY cr.start_time`
	rows, err := r.DB.QueryContext(ctx, q, connectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ClientRequest, 0)
	for rows.Next() {
		var cr ClientRequest
		if err := rows.Scan(&cr.ID, &cr.TimeslotID, &cr.StartTime, &cr.EndTime,
			&cr.Preference, &cr.Validated, &cr.TimeslotStart, &cr.TimeslotEnd, &cr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}
