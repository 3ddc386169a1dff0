package engine

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

// fakeTx is an in-memory Tx that records every write the engine makes.
type fakeTx struct {
	rc    RequestContext
	rcErr error

	owner    uint64
	ownerErr error
	appts    []CanceledAppointment

	inserted        []NewAppointment
	validatedFlag   *bool
	deletedApptReq  []uint64
	deletedApptRows int64
	deletedSlots    []uint64
	deletedSlotRows int64
	deletedReqs     []uint64
	deletedReqRows  int64

	insertErr error
}

func (f *fakeTx) RequestContext(ctx context.Context, id uint64) (RequestContext, error) {
	if f.rcErr != nil {
		return RequestContext{}, f.rcErr
	}
	return f.rc, nil
}

func (f *fakeTx) InsertAppointment(ctx context.Context, a NewAppointment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, a)
	return nil
}

func (f *fakeTx) SetRequestValidated(ctx context.Context, id uint64, v bool) error {
	f.validatedFlag = &v
	return nil
}

func (f *fakeTx) DeleteAppointmentByRequest(ctx context.Context, id uint64) (int64, error) {
	f.deletedApptReq = append(f.deletedApptReq, id)
	return f.deletedApptRows, nil
}

func (f *fakeTx) TimeslotHoster(ctx context.Context, id uint64) (uint64, error) {
	if f.ownerErr != nil {
		return 0, f.ownerErr
	}
	return f.owner, nil
}

func (f *fakeTx) TimeslotAppointments(ctx context.Context, id uint64) ([]CanceledAppointment, error) {
	return f.appts, nil
}

func (f *fakeTx) DeleteTimeslot(ctx context.Context, id uint64) (int64, error) {
	f.deletedSlots = append(f.deletedSlots, id)
	return f.deletedSlotRows, nil
}

func (f *fakeTx) DeleteRequest(ctx context.Context, id uint64) (int64, error) {
	f.deletedReqs = append(f.deletedReqs, id)
	return f.deletedReqRows, nil
}

// fakeStore runs fn against the embedded fakeTx and tracks whether the
// unit of work would have committed or rolled back.
type fakeStore struct {
	tx         *fakeTx
	committed  bool
	rolledBack bool
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(Tx) error) error {
	if err := fn(s.tx); err != nil {
		s.rolledBack = true
		return err
	}
	s.committed = true
	return nil
}

type sentMsg struct {
	recipient, subject, body string
}

type fakeNotifier struct {
	sent []sentMsg
}

func (n *fakeNotifier) Notify(ctx context.Context, recipient, subject, body string) {
	n.sent = append(n.sent, sentMsg{recipient, subject, body})
}

func testContext() RequestContext {
	return RequestContext{
		RequestID:   7,
		TimeslotID:  3,
		HosterID:    1,
		ClientID:    2,
		ClientName:  "Acme Corp",
		HosterEmail: "host@example.com",
		StartTime:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestValidateCreatesAppointmentAndNotifies(t *testing.T) {
	tx := &fakeTx{rc: testContext()}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Validate(context.Background(), 7, 1); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !store.committed {
		t.Fatal("transaction was not committed")
	}
	if len(tx.inserted) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(tx.inserted))
	}
	a := tx.inserted[0]
	if a.HosterID != 1 || a.ClientID != 2 || a.TimeslotID != 3 || a.RequestID != 7 {
		t.Errorf("appointment copied wrong identities: %+v", a)
	}
	if tx.validatedFlag == nil || !*tx.validatedFlag {
		t.Error("validated flag was not set")
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	msg := notifier.sent[0]
	if msg.recipient != "host@example.com" || msg.subject != "Appointment Confirmed" {
		t.Errorf("unexpected notification: %+v", msg)
	}
}

func TestValidateRejectsAlreadyValidated(t *testing.T) {
	rc := testContext()
	rc.Validated = true
	tx := &fakeTx{rc: rc}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	err := eng.Validate(context.Background(), 7, 1)
	if !errors.Is(err, ErrAlreadyValidated) {
		t.Fatalf("want ErrAlreadyValidated, got %v", err)
	}
	if len(tx.inserted) != 0 {
		t.Error("appointment inserted despite rejection")
	}
	if !store.rolledBack {
		t.Error("transaction was not rolled back")
	}
	if len(notifier.sent) != 0 {
		t.Error("notification sent despite rollback")
	}
}

func TestValidateMissingRequest(t *testing.T) {
	tx := &fakeTx{rcErr: sql.ErrNoRows}
	eng := New(&fakeStore{tx: tx}, &fakeNotifier{})

	if err := eng.Validate(context.Background(), 99, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestValidateForeignRequest(t *testing.T) {
	// The request belongs to hoster 1; hoster 42 must not be able to
	// validate it into an appointment.
	tx := &fakeTx{rc: testContext()}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Validate(context.Background(), 7, 42); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if len(tx.inserted) != 0 {
		t.Error("appointment created for a foreign hoster")
	}
	if tx.validatedFlag != nil {
		t.Error("validated flag touched by a foreign hoster")
	}
	if !store.rolledBack {
		t.Error("transaction was not rolled back")
	}
	if len(notifier.sent) != 0 {
		t.Error("notification sent for a forbidden validation")
	}
}

func TestUnvalidateForeignRequest(t *testing.T) {
	rc := testContext()
	rc.Validated = true
	tx := &fakeTx{rc: rc, deletedApptRows: 1}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Unvalidate(context.Background(), 7, 42); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if len(tx.deletedApptReq) != 0 {
		t.Error("appointment deleted by a foreign hoster")
	}
	if len(notifier.sent) != 0 {
		t.Error("notification sent for a forbidden unvalidation")
	}
}

func TestValidateInsertFailureSuppressesNotification(t *testing.T) {
	boom := errors.New("insert failed")
	tx := &fakeTx{rc: testContext(), insertErr: boom}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Validate(context.Background(), 7, 1); !errors.Is(err, boom) {
		t.Fatalf("want insert error, got %v", err)
	}
	if !store.rolledBack {
		t.Error("transaction was not rolled back")
	}
	if len(notifier.sent) != 0 {
		t.Error("notification dispatched for a rolled back transaction")
	}
}

func TestUnvalidateDeletesAndResets(t *testing.T) {
	rc := testContext()
	rc.Validated = true
	tx := &fakeTx{rc: rc, deletedApptRows: 1}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Unvalidate(context.Background(), 7, 1); err != nil {
		t.Fatalf("Unvalidate: %v", err)
	}
	if len(tx.deletedApptReq) != 1 || tx.deletedApptReq[0] != 7 {
		t.Errorf("wrong appointment delete: %v", tx.deletedApptReq)
	}
	if tx.validatedFlag == nil || *tx.validatedFlag {
		t.Error("validated flag was not reset")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].subject != "Appointment Cancelled" {
		t.Errorf("unexpected notifications: %+v", notifier.sent)
	}
}

func TestUnvalidateIsIdempotent(t *testing.T) {
	// Request exists but was never validated: zero rows deleted, still nil.
	tx := &fakeTx{rc: testContext(), deletedApptRows: 0}
	eng := New(&fakeStore{tx: tx}, &fakeNotifier{})

	if err := eng.Unvalidate(context.Background(), 7, 1); err != nil {
		t.Fatalf("Unvalidate on non-validated request: %v", err)
	}
}

func TestWithdrawNotifiesEachCancelledAppointment(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tx := &fakeTx{
		owner:           1,
		deletedSlotRows: 1,
		appts: []CanceledAppointment{
			{AppointmentID: 10, ClientName: "Acme Corp", HosterEmail: "host@example.com", StartTime: start, EndTime: start.Add(time.Hour)},
			{AppointmentID: 11, ClientName: "Globex", HosterEmail: "host@example.com", StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour)},
		},
	}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Withdraw(context.Background(), 3, 1); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if len(tx.deletedSlots) != 1 || tx.deletedSlots[0] != 3 {
		t.Errorf("wrong timeslot delete: %v", tx.deletedSlots)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.sent))
	}
	for _, msg := range notifier.sent {
		if msg.subject != "Availability Block Deleted" {
			t.Errorf("unexpected subject %q", msg.subject)
		}
	}
}

func TestWithdrawQuietWhenNoAppointments(t *testing.T) {
	tx := &fakeTx{owner: 1, deletedSlotRows: 1}
	notifier := &fakeNotifier{}
	eng := New(&fakeStore{tx: tx}, notifier)

	if err := eng.Withdraw(context.Background(), 3, 1); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("expected no notifications, got %d", len(notifier.sent))
	}
}

func TestWithdrawForeignTimeslot(t *testing.T) {
	tx := &fakeTx{owner: 42, deletedSlotRows: 1}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Withdraw(context.Background(), 3, 1); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if len(tx.deletedSlots) != 0 {
		t.Error("foreign timeslot was deleted")
	}
	if len(notifier.sent) != 0 {
		t.Error("notification sent for forbidden withdrawal")
	}
}

func TestWithdrawMissingTimeslot(t *testing.T) {
	tx := &fakeTx{ownerErr: sql.ErrNoRows}
	eng := New(&fakeStore{tx: tx}, &fakeNotifier{})

	if err := eng.Withdraw(context.Background(), 3, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRetractDeletesRequestOnly(t *testing.T) {
	tx := &fakeTx{rc: testContext(), deletedReqRows: 1}
	store := &fakeStore{tx: tx}
	notifier := &fakeNotifier{}
	eng := New(store, notifier)

	if err := eng.Retract(context.Background(), 7); err != nil {
		t.Fatalf("Retract: %v", err)
	}
	if len(tx.deletedReqs) != 1 || tx.deletedReqs[0] != 7 {
		t.Errorf("wrong request delete: %v", tx.deletedReqs)
	}
	if len(tx.deletedApptReq) != 0 {
		t.Error("Retract must never touch appointments")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].subject != "Client Request Cancelled" {
		t.Errorf("unexpected notifications: %+v", notifier.sent)
	}
}

func TestRetractMissingRequest(t *testing.T) {
	tx := &fakeTx{rcErr: sql.ErrNoRows}
	eng := New(&fakeStore{tx: tx}, &fakeNotifier{})

	if err := eng.Retract(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
