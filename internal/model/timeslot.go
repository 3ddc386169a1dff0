package model

import "time"

// Timeslot is a hoster-declared availability block open for client
// requests, mirrored from the `hoster_timeslots` table. Deleting a
// timeslot cascades to its requests and appointments at the schema
// level; the booking engine is responsible for reading the affected
// appointments first so cancellations can be notified.
//
// Overlapping timeslots for one hoster are allowed on purpose: the
// hoster's manual validation of requests is the conflict arbiter.
type Timeslot struct {
	ID        uint64    `json:"id"`         // hoster_timeslots.id
	HosterID  uint64    `json:"hoster_id"`  // hoster_timeslots.hoster_id
	StartTime time.Time `json:"start_time"` // hoster_timeslots.start_time
	EndTime   time.Time `json:"end_time"`   // hoster_timeslots.end_time
	CreatedAt time.Time `json:"created_at"` // hoster_timeslots.created_at
}
