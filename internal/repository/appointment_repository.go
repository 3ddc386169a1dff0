package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hosterly/booking-api/internal/model"
)

// AppointmentRepo provides read access to confirmed appointments.
// Appointments are the engine's own output: they are created by
// validation and removed by unvalidation or timeslot withdrawal, all
// inside engine transactions; nothing here mutates them.
type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

// AppointmentDetail is an appointment as shown to the hoster, with the
// counterparty's name attached.
type AppointmentDetail struct {
	ID         uint64    `json:"id"`
	ClientID   uint64    `json:"client_id"`
	ClientName string    `json:"client_name"`
	TimeslotID uint64    `json:"timeslot_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListByHoster returns the hoster's appointments ordered by start time.
func (r *AppointmentRepo) ListByHoster(ctx context.Context, hosterID uint64) ([]AppointmentDetail, error) {
	const q = `SELECT a.id, a.client_id, c.name, a.hoster_timeslot_id, a.start_time, a.end_time, a.created_at
	           FROM appointments a
	           JOIN clients c ON c.id = a.client_id
	           WHERE a.hoster_id = ?
	           ORDER BY a.start_time`
	rows, err := r.DB.QueryContext(ctx, q, hosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AppointmentDetail, 0)
	for rows.Next() {
		var d AppointmentDetail
		if err := rows.Scan(&d.ID, &d.ClientID, &d.ClientName, &d.TimeslotID,
			&d.StartTime, &d.EndTime, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByConnection returns the appointments visible to a connection
// token, meaning those between its client and its hoster, ordered by
// start time.
func (r *AppointmentRepo) ListByConnection(ctx context.Context, connectionID string) ([]model.Appointment, error) {
	const q = `SELECT a.id, a.hoster_id, a.client_id, a.hoster_timeslot_id, a.request_id,
	                  a.start_time, a.end_time, a.created_at
	           FROM appointments a
	           JOIN hoster_clients hc ON hc.client_id = a.client_id AND hc.hoster_id = a.hoster_id
	           WHERE hc.connection_id = ?
	           ORDER BY a.start_time`
	rows, err := r.DB.QueryContext(ctx, q, connectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Appointment, 0)
	for rows.Next() {
		var a model.Appointment
		var reqID sql.NullInt64
		if err := rows.Scan(&a.ID, &a.HosterID, &a.ClientID, &a.TimeslotID, &reqID,
			&a.StartTime, &a.EndTime, &a.CreatedAt); err != nil {
			return nil, err
		}
		if reqID.Valid {
			v := uint64(reqID.Int64)
			a.RequestID = &v
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
