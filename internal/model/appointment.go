package model

import "time"

// Appointment is the engine's own output: a confirmed booking created
// by validating a request, mirrored from the `appointments` table.
// Start and end are copied verbatim from the originating request.
//
// RequestID is a nullable back-reference to that request. Retracting
// the request nulls it (SET NULL) rather than deleting the
// appointment; an appointment, once created, lives independently of
// the request that spawned it and is removed only by unvalidation or
// by withdrawal of the whole timeslot.
type Appointment struct {
	ID         uint64    `json:"id"`          // appointments.id
	HosterID   uint64    `json:"hoster_id"`   // appointments.hoster_id
	ClientID   uint64    `json:"client_id"`   // appointments.client_id
	TimeslotID uint64    `json:"timeslot_id"` // appointments.hoster_timeslot_id
	RequestID  *uint64   `json:"request_id"`  // appointments.request_id (nullable)
	StartTime  time.Time `json:"start_time"`  // appointments.start_time
	EndTime    time.Time `json:"end_time"`    // appointments.end_time
	CreatedAt  time.Time `json:"created_at"`  // appointments.created_at
}
