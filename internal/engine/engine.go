package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Engine executes the booking state transitions. It owns no state of
// its own; each operation opens one transaction through the store,
// applies every write of the transition inside it, and queues the
// resulting notifications for dispatch after the commit.
type Engine struct {
	store    Store
	notifier Notifier
}

// New constructs an Engine. Both dependencies are required.
func New(store Store, notifier Notifier) *Engine {
	if store == nil || notifier == nil {
		panic("nil dependency passed to engine.New")
	}
	return &Engine{store: store, notifier: notifier}
}

// notification is a message queued inside a transaction and dispatched
// only once that transaction has committed.
type notification struct {
	recipient string
	subject   string
	body      string
}

func (e *Engine) dispatch(ctx context.Context, pending []notification) {
	for _, n := range pending {
		e.notifier.Notify(ctx, n.recipient, n.subject, n.body)
	}
}

// span renders an interval the way it appears in notification bodies.
func span(start, end time.Time) string {
	return fmt.Sprintf("%s to %s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Validate turns a pending request into a confirmed appointment: it
// inserts an appointment copying the request's hoster, client,
// timeslot and interval, flips the request's validated flag, commits,
// and then notifies the hoster. Only the hoster behind the request's
// connection may validate it; anyone else gets ErrForbidden. A request
// that is already validated is rejected with ErrAlreadyValidated;
// repeating the call can therefore never produce duplicate
// appointments.
func (e *Engine) Validate(ctx context.Context, requestID, hosterID uint64) error {
	var pending []notification
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		rc, err := tx.RequestContext(ctx, requestID)
		if err != nil {
			return notFound(err)
		}
		if rc.HosterID != hosterID {
			return ErrForbidden
		}
		if rc.Validated {
			return ErrAlreadyValidated
		}
		if err := tx.InsertAppointment(ctx, NewAppointment{
			HosterID:   rc.HosterID,
			ClientID:   rc.ClientID,
			TimeslotID: rc.TimeslotID,
			RequestID:  rc.RequestID,
			StartTime:  rc.StartTime,
			EndTime:    rc.EndTime,
		}); err != nil {
			return err
		}
		if err := tx.SetRequestValidated(ctx, requestID, true); err != nil {
			return err
		}
		pending = append(pending, notification{
			recipient: rc.HosterEmail,
			subject:   "Appointment Confirmed",
			body: fmt.Sprintf("Your appointment with %s from %s has been confirmed.",
				rc.ClientName, span(rc.StartTime, rc.EndTime)),
		})
		return nil
	})
	if err != nil {
		return err
	}
	e.dispatch(ctx, pending)
	return nil
}

// Unvalidate reverses a validation: it deletes the appointment that
// references the request, resets the validated flag, commits and
// notifies the hoster. The same ownership rule as Validate applies.
// On a request that is not validated the delete affects zero rows and
// the flag write is redundant; the operation is a safe no-op and
// returns nil.
func (e *Engine) Unvalidate(ctx context.Context, requestID, hosterID uint64) error {
	var pending []notification
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		rc, err := tx.RequestContext(ctx, requestID)
		if err != nil {
			return notFound(err)
		}
		if rc.HosterID != hosterID {
			return ErrForbidden
		}
		if _, err := tx.DeleteAppointmentByRequest(ctx, requestID); err != nil {
			return err
		}
		if err := tx.SetRequestValidated(ctx, requestID, false); err != nil {
			return err
		}
		pending = append(pending, notification{
			recipient: rc.HosterEmail,
			subject:   "Appointment Cancelled",
			body: fmt.Sprintf("Your appointment with %s from %s has been cancelled.",
				rc.ClientName, span(rc.StartTime, rc.EndTime)),
		})
		return nil
	})
	if err != nil {
		return err
	}
	e.dispatch(ctx, pending)
	return nil
}

// Withdraw deletes a timeslot owned by the given hoster. Inside one
// transaction it reads every appointment the deletion will cancel,
// then removes the timeslot and lets the schema cascade to its
// requests and appointments. Only after the commit does it send one
// cancellation notice per affected appointment; when none existed,
// nothing is sent. A failure anywhere rolls the whole unit back.
func (e *Engine) Withdraw(ctx context.Context, timeslotID, hosterID uint64) error {
	var pending []notification
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		owner, err := tx.TimeslotHoster(ctx, timeslotID)
		if err != nil {
			return notFound(err)
		}
		if owner != hosterID {
			return ErrForbidden
		}
		appts, err := tx.TimeslotAppointments(ctx, timeslotID)
		if err != nil {
			return err
		}
		n, err := tx.DeleteTimeslot(ctx, timeslotID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		for _, a := range appts {
			pending = append(pending, notification{
				recipient: a.HosterEmail,
				subject:   "Availability Block Deleted",
				body: fmt.Sprintf("Your availability block from %s has been deleted. The appointment with %s has been cancelled.",
					span(a.StartTime, a.EndTime), a.ClientName),
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.dispatch(ctx, pending)
	return nil
}

// Retract deletes a client's request and notifies the hoster. An
// appointment created from the request earlier is deliberately left
// alone: once validated, the appointment's lifecycle is independent of
// the request that produced it, and only Unvalidate or Withdraw may
// remove it.
func (e *Engine) Retract(ctx context.Context, requestID uint64) error {
	var pending []notification
	err := e.store.WithinTx(ctx, func(tx Tx) error {
		rc, err := tx.RequestContext(ctx, requestID)
		if err != nil {
			return notFound(err)
		}
		n, err := tx.DeleteRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		pending = append(pending, notification{
			recipient: rc.HosterEmail,
			subject:   "Client Request Cancelled",
			body: fmt.Sprintf("%s has cancelled their request for %s.",
				rc.ClientName, span(rc.StartTime, rc.EndTime)),
		})
		return nil
	})
	if err != nil {
		return err
	}
	e.dispatch(ctx, pending)
	return nil
}
