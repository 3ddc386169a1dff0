package repository

import (
	"context"
	"database/sql"

	"github.com/hosterly/booking-api/internal/engine"
)

// BookingStore is the SQL implementation of the booking engine's
// transactional store. Each WithinTx call maps to one database
// transaction with default (read committed) isolation; the engine's
// operations never depend on a read staying valid outside their own
// transaction, so nothing stronger is needed.
type BookingStore struct{ DB *sql.DB }

func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{DB: db} }

// WithinTx begins a transaction, runs fn against it and commits when
// fn returns nil. Any error, whether from fn or from the commit
// itself, leaves the database untouched via the deferred rollback.
func (s *BookingStore) WithinTx(ctx context.Context, fn func(engine.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// bookingTx adapts one *sql.Tx to the engine.Tx interface.
type bookingTx struct{ tx *sql.Tx }

func (b *bookingTx) RequestContext(ctx context.Context, requestID uint64) (engine.RequestContext, error) {
	const q = `SELECT cr.id, cr.hoster_timeslot_id, hc.hoster_id, hc.client_id,
	                  c.name, h.email, cr.start_time, cr.end_time, cr.validated_by_hoster
	           FROM client_requests cr
	           JOIN hoster_clients hc ON hc.connection_id = cr.connection_id
	           JOIN clients c ON c.id = hc.client_id
	           JOIN hosters h ON h.id = hc.hoster_id
	           WHERE cr.id = ?`
	var rc engine.RequestContext
	err := b.tx.QueryRowContext(ctx, q, requestID).Scan(
		&rc.RequestID, &rc.TimeslotID, &rc.HosterID, &rc.ClientID,
		&rc.ClientName, &rc.HosterEmail, &rc.StartTime, &rc.EndTime, &rc.Validated)
	return rc, err
}

func (b *bookingTx) InsertAppointment(ctx context.Context, a engine.NewAppointment) error {
	_, err := b.tx.ExecContext(ctx,
		`INSERT INTO appointments (hoster_id, client_id, hoster_timeslot_id, request_id, start_time, end_time)
		 VALUES (?,?,?,?,?,?)`,
		a.HosterID, a.ClientID, a.TimeslotID, a.RequestID, a.StartTime.UTC(), a.EndTime.UTC())
	return err
}

func (b *bookingTx) SetRequestValidated(ctx context.Context, requestID uint64, validated bool) error {
	_, err := b.tx.ExecContext(ctx,
		"UPDATE client_requests SET validated_by_hoster=? WHERE id=?", validated, requestID)
	return err
}

func (b *bookingTx) DeleteAppointmentByRequest(ctx context.Context, requestID uint64) (int64, error) {
	res, err := b.tx.ExecContext(ctx,
		"DELETE FROM appointments WHERE request_id=?", requestID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (b *bookingTx) TimeslotHoster(ctx context.Context, timeslotID uint64) (uint64, error) {
	var hosterID uint64
	err := b.tx.QueryRowContext(ctx,
		"SELECT hoster_id FROM hoster_timeslots WHERE id=?", timeslotID).Scan(&hosterID)
	return hosterID, err
}

func (b *bookingTx) TimeslotAppointments(ctx context.Context, timeslotID uint64) ([]engine.CanceledAppointment, error) {
	const q = `SELECT a.id, c.name, h.email, a.start_time, a.end_time
	           FROM appointments a
	           JOIN clients c ON c.id = a.client_id
	           JOIN hosters h ON h.id = a.hoster_id
	           WHERE a.hoster_timeslot_id = ?`
	rows, err := b.tx.QueryContext(ctx, q, timeslotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []engine.CanceledAppointment
	for rows.Next() {
		var ca engine.CanceledAppointment
		if err := rows.Scan(&ca.AppointmentID, &ca.ClientName, &ca.HosterEmail,
			&ca.StartTime, &ca.EndTime); err != nil {
			return nil, err
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

func (b *bookingTx) DeleteTimeslot(ctx context.Context, timeslotID uint64) (int64, error) {
	res, err := b.tx.ExecContext(ctx,
		"DELETE FROM hoster_timeslots WHERE id=?", timeslotID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (b *bookingTx) DeleteRequest(ctx context.Context, requestID uint64) (int64, error) {
	res, err := b.tx.ExecContext(ctx,
		"DELETE FROM client_requests WHERE id=?", requestID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
