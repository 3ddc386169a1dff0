package model

import "time"

// Request is a client's candidate sub-interval within a timeslot plus
// a preference rank, mirrored from the `client_requests` table. A
// request is Pending while ValidatedByHoster is false and Confirmed
// once the hoster validates it into an appointment.
//
// Preference ranges 1 (lowest) to 5 (highest). Requests for a timeslot
// are surfaced to the hoster ordered by descending preference, ties
// broken by submission time.
type Request struct {
	ID                uint64    `json:"id"`            // client_requests.id
	TimeslotID        uint64    `json:"timeslot_id"`   // client_requests.hoster_timeslot_id
	ConnectionID      string    `json:"connection_id"` // client_requests.connection_id
	StartTime         time.Time `json:"start_time"`    // client_requests.start_time
	EndTime           time.Time `json:"end_time"`      // client_requests.end_time
	Preference        int       `json:"preference"`    // client_requests.preference (1-5)
	ValidatedByHoster bool      `json:"validated"`     // client_requests.validated_by_hoster
	CreatedAt         time.Time `json:"created_at"`    // client_requests.created_at
}
