package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"contract-registry/storage/postgres"
	"contract-registry/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- shared fakes for the service tests ---

type fakeStore struct {
	records  map[string]*postgres.ContractRecord
	order    []string
	failWith map[string]error
}

func newFakeStore(records ...*postgres.ContractRecord) *fakeStore {
	s := &fakeStore{
		records:  make(map[string]*postgres.ContractRecord),
		failWith: make(map[string]error),
	}
	for _, r := range records {
		s.records[r.ID] = r
		s.order = append(s.order, r.ID)
	}
	return s
}

func (s *fakeStore) FindCandidates(_ context.Context) ([]postgres.ContractRecord, error) {
	var out []postgres.ContractRecord
	for _, id := range s.order {
		r := s.records[id]
		if r.IsDeleted || r.EndDate == nil {
			continue
		}
		switch r.Status {
		case types.StatusActive, types.StatusExpiring, types.StatusRenewalProposed:
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) ClaimTransition(_ context.Context, id string, from, to int, by string, at time.Time) (bool, error) {
	if err := s.failWith[id]; err != nil {
		return false, err
	}
	r, ok := s.records[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.UpdatedBy = by
	r.UpdatedAt = at
	return true, nil
}

func (s *fakeStore) HasSuccessor(_ context.Context, parentID string) (bool, error) {
	for _, r := range s.records {
		if r.ParentID != nil && *r.ParentID == parentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateRenewal(_ context.Context, successor *postgres.ContractRecord, predecessorID string, at time.Time) (bool, error) {
	if has, _ := s.HasSuccessor(context.Background(), predecessorID); has {
		return false, nil
	}
	pred, ok := s.records[predecessorID]
	if !ok {
		return false, nil
	}
	if pred.Status != types.StatusExpiring && pred.Status != types.StatusRenewalProposed {
		return false, nil
	}
	pred.Status = types.StatusRenewed
	pred.UpdatedAt = at
	s.records[successor.ID] = successor
	s.order = append(s.order, successor.ID)
	return true, nil
}

// fakeRules serves canned rules and mailboxes to the resolver.
type fakeRules struct {
	rules     map[string]*postgres.NotificationRule
	mailboxes map[uint][]string // keyed by recipient rule id
}

func (f *fakeRules) RuleByCode(_ context.Context, code string) (*postgres.NotificationRule, error) {
	return f.rules[code], nil
}

func (f *fakeRules) Mailboxes(_ context.Context, rec postgres.RecipientRule) ([]string, error) {
	return f.mailboxes[rec.ID], nil
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type fakeSender struct {
	sent   []sentMail
	failIf func(subject string) bool
}

func (f *fakeSender) Send(to []string, subject, body string) error {
	if f.failIf != nil && f.failIf(subject) {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func silentNotifier() *Notifier {
	return NewNotifier(NewRecipientResolver(&fakeRules{}), &fakeSender{})
}

type fixedAllocator struct{ n int }

func (a *fixedAllocator) Next(_ context.Context, at time.Time) (string, error) {
	a.n++
	return time.Date(at.Year(), 1, 1, 0, 0, 0, 0, time.UTC).Format("R-2006") + "-" + string(rune('0'+a.n)), nil
}

func record(id string, status int, end *time.Time, noticeDays int) *postgres.ContractRecord {
	proto := "P-" + id
	return &postgres.ContractRecord{
		ID:             id,
		RecordKind:     types.KindContract,
		ProtocolNumber: &proto,
		Status:         status,
		EndDate:        end,
		NoticeDays:     noticeDays,
		Counterparty:   "ACME " + id,
		Subject:        "maintenance " + id,
	}
}

func newScanner(store *fakeStore) *Scanner {
	renewal := NewRenewalProcessor(store, &fixedAllocator{}, "engine")
	return NewScanner(store, renewal, silentNotifier(), "engine")
}

// --- tests ---

func TestScannerMovesOnlyCandidates(t *testing.T) {
	today := date(2025, 6, 10)

	a := record("A", types.StatusActive, datep(2025, 6, 13), 7)  // 3 days out
	b := record("B", types.StatusActive, datep(2025, 6, 9), 0)   // yesterday
	c := record("C", types.StatusDraft, datep(2025, 6, 9), 0)    // wrong starting state
	d := record("D", types.StatusActive, nil, 7)                 // no end date
	store := newFakeStore(a, b, c, d)

	results, err := newScanner(store).RunScheduledTransitions(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, types.StatusExpiring, store.records["A"].Status)
	assert.Equal(t, types.StatusExpired, store.records["B"].Status)
	assert.Equal(t, types.StatusDraft, store.records["C"].Status)
	assert.Equal(t, types.StatusActive, store.records["D"].Status)

	assert.Equal(t, "A", results[0].RecordID)
	assert.Equal(t, types.StatusActive, results[0].OldStatus)
	assert.Equal(t, types.StatusExpiring, results[0].NewStatus)
	assert.Equal(t, "P-A", results[0].ProtocolNumber)
	assert.Equal(t, "B", results[1].RecordID)
	assert.Equal(t, types.StatusExpired, results[1].NewStatus)
	assert.Equal(t, "engine", store.records["A"].UpdatedBy)
}

func TestScannerSecondPassIsEmpty(t *testing.T) {
	today := date(2025, 6, 10)
	store := newFakeStore(
		record("A", types.StatusActive, datep(2025, 6, 13), 7),
		record("B", types.StatusActive, datep(2025, 6, 9), 0),
	)
	scanner := newScanner(store)

	first, err := scanner.RunScheduledTransitions(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := scanner.RunScheduledTransitions(context.Background(), today)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestScannerSkipsFailingRecord(t *testing.T) {
	today := date(2025, 6, 10)
	store := newFakeStore(
		record("A", types.StatusActive, datep(2025, 6, 9), 0),
		record("B", types.StatusActive, datep(2025, 6, 9), 0),
	)
	store.failWith["A"] = errors.New("deadlock")

	results, err := newScanner(store).RunScheduledTransitions(context.Background(), today)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "B", results[0].RecordID)
	assert.Equal(t, types.StatusActive, store.records["A"].Status)
	assert.Equal(t, types.StatusExpired, store.records["B"].Status)
}

func TestScannerRenewsInTheSamePass(t *testing.T) {
	today := date(2025, 1, 8)
	a := record("A", types.StatusActive, datep(2025, 1, 10), 7)
	days := 30
	a.AutoRenewDays = &days
	store := newFakeStore(a)

	results, err := newScanner(store).RunScheduledTransitions(context.Background(), today)
	require.NoError(t, err)

	// One Expiring transition, then the renewal.
	require.Len(t, results, 2)
	assert.Equal(t, types.StatusExpiring, results[0].NewStatus)
	assert.Equal(t, types.StatusRenewed, results[1].NewStatus)
	assert.NotEmpty(t, results[1].SuccessorID)

	successor := store.records[results[1].SuccessorID]
	require.NotNil(t, successor)
	assert.Equal(t, types.StatusActive, successor.Status)
	require.NotNil(t, successor.ParentID)
	assert.Equal(t, "A", *successor.ParentID)
	assert.Equal(t, date(2025, 2, 9), *successor.EndDate)
	assert.Equal(t, types.StatusRenewed, store.records["A"].Status)
}

func TestScannerRenewalOnlyPass(t *testing.T) {
	today := date(2025, 1, 8)
	a := record("A", types.StatusRenewalProposed, datep(2025, 1, 10), 7)
	days := 15
	a.AutoRenewDays = &days
	b := record("B", types.StatusExpiring, datep(2025, 1, 9), 7) // no auto renew
	store := newFakeStore(a, b)

	results, err := newScanner(store).RunAutomaticRenewals(context.Background(), today)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].RecordID)
	assert.Equal(t, types.StatusRenewed, store.records["A"].Status)
	assert.Equal(t, types.StatusExpiring, store.records["B"].Status)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datep(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}
