// Package engine implements the booking reconciliation rules: the
// atomic operations that move state between the timeslot, request and
// appointment ledgers and keep them mutually consistent. The engine is
// stateless between calls; all persistent state lives in the SQL store
// behind the Store interface, and every multi-step operation runs
// inside exactly one transaction. Notifications are dispatched only
// after that transaction commits and are strictly best-effort.
package engine

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that the request or timeslot an operation was
// aimed at does not exist. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden reports that the request or timeslot an operation was
// aimed at belongs to a different hoster than the caller.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyValidated rejects a second validation of the same request.
// Without this guard a repeated validate would silently insert a
// duplicate appointment; the explicit conflict is the chosen policy.
var ErrAlreadyValidated = errors.New("request already validated")

// RequestContext is a request joined with the identities on both sides
// of its connection token. Every engine operation that acts on a
// request loads one of these first, inside the transaction, so the
// post-commit notification has its recipient and wording available
// without further reads.
type RequestContext struct {
	RequestID   uint64
	TimeslotID  uint64
	HosterID    uint64
	ClientID    uint64
	ClientName  string
	HosterEmail string
	StartTime   time.Time
	EndTime     time.Time
	Validated   bool
}

// NewAppointment carries the values copied verbatim from a request
// when it is validated. RequestID becomes the appointment's
// back-reference to its originating request.
type NewAppointment struct {
	HosterID   uint64
	ClientID   uint64
	TimeslotID uint64
	RequestID  uint64
	StartTime  time.Time
	EndTime    time.Time
}

// CanceledAppointment is an appointment read just before its timeslot
// is withdrawn, together with the contact identities needed to notify
// about the cancellation afterwards.
type CanceledAppointment struct {
	AppointmentID uint64
	ClientName    string
	HosterEmail   string
	StartTime     time.Time
	EndTime       time.Time
}

// RequestDetail is the projection surfaced to the hoster when
// reviewing the requests submitted against a timeslot.
type RequestDetail struct {
	ID           uint64    `json:"id"`
	TimeslotID   uint64    `json:"timeslot_id"`
	ConnectionID string    `json:"connection_id"`
	ClientID     uint64    `json:"client_id"`
	ClientName   string    `json:"client_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Preference   int       `json:"preference"`
	Validated    bool      `json:"validated"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tx is the transaction-scoped slice of the store the engine needs.
// Implementations report absent rows as database/sql.ErrNoRows; the
// engine translates that into ErrNotFound at its boundary.
type Tx interface {
	// RequestContext loads a request joined with its connection,
	// client and hoster rows.
	RequestContext(ctx context.Context, requestID uint64) (RequestContext, error)
	// InsertAppointment creates the appointment produced by validation.
	InsertAppointment(ctx context.Context, a NewAppointment) error
	// SetRequestValidated flips the request's validated flag.
	SetRequestValidated(ctx context.Context, requestID uint64, validated bool) error
	// DeleteAppointmentByRequest removes the appointment whose
	// back-reference points at the request, returning rows affected.
	DeleteAppointmentByRequest(ctx context.Context, requestID uint64) (int64, error)
	// TimeslotHoster returns the owning hoster of a timeslot.
	TimeslotHoster(ctx context.Context, timeslotID uint64) (uint64, error)
	// TimeslotAppointments lists the appointments that a timeslot
	// withdrawal will cancel, with notification context.
	TimeslotAppointments(ctx context.Context, timeslotID uint64) ([]CanceledAppointment, error)
	// DeleteTimeslot removes the timeslot; the schema cascades the
	// deletion to its requests and appointments.
	DeleteTimeslot(ctx context.Context, timeslotID uint64) (int64, error)
	// DeleteRequest removes a request. Appointments are untouched:
	// their back-reference is nulled by the schema, never cascaded.
	DeleteRequest(ctx context.Context, requestID uint64) (int64, error)
}

// Store runs a function inside one atomic unit of work. The
// transaction commits when fn returns nil and rolls back otherwise;
// partial state changes are never observable.
type Store interface {
	WithinTx(ctx context.Context, fn func(Tx) error) error
}

// Notifier dispatches one advisory message. Implementations must be
// best-effort: failures are logged and swallowed, never returned, so
// a dead mail relay cannot fail a committed booking operation.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string)
}
