package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contract-registry/logic/lifecycle"
	"contract-registry/storage/postgres"
	"contract-registry/types"
)

// RecordStore is the store boundary of the scan pass.
// *postgres.RecordRepo implements it.
type RecordStore interface {
	FindCandidates(ctx context.Context) ([]postgres.ContractRecord, error)
	ClaimTransition(ctx context.Context, id string, from, to int, by string, at time.Time) (bool, error)
}

// Scanner runs the daily pass: evaluate every candidate record, commit
// transitions one by one, renew the eligible subset, then notify.
type Scanner struct {
	store    RecordStore
	renewal  *RenewalProcessor
	notifier *Notifier
	actor    string
}

func NewScanner(store RecordStore, renewal *RenewalProcessor, notifier *Notifier, actor string) *Scanner {
	return &Scanner{store: store, renewal: renewal, notifier: notifier, actor: actor}
}

// RunScheduledTransitions executes one full scan for the given day and
// returns every committed StateChangeResult. A failing record is
// logged and skipped; only a failure of the candidate query itself
// aborts the pass and reaches the scheduler's retry policy.
//
// Every transition is committed per record and guarded on the state
// that made the record a candidate, so rerunning the pass for the same
// day converges on the same end state without double counting.
func (s *Scanner) RunScheduledTransitions(ctx context.Context, today time.Time) ([]types.StateChangeResult, error) {
	candidates, err := s.store.FindCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("candidate query: %w", err)
	}

	var results []types.StateChangeResult
	for i := range candidates {
		rec := &candidates[i]
		next, changed := lifecycle.Next(rec.Status, rec.EndDate, rec.NoticeDays, today)
		if !changed {
			continue
		}

		claimed, err := s.store.ClaimTransition(ctx, rec.ID, rec.Status, next, s.actor, today)
		if err != nil {
			slog.Error("transition failed, record skipped", "record", rec.ID, "err", err)
			continue
		}
		if !claimed {
			// Another run already moved it today.
			continue
		}

		old := rec.Status
		rec.Status = next
		results = append(results, resultFor(rec, old, next))
	}

	results = append(results, s.renewalPass(ctx, candidates, today)...)

	slog.Info("scan finished", "candidates", len(candidates), "changed", len(results))

	// Fire and forget: delivery never affects the job outcome.
	s.notifier.Notify(ctx, results)
	return results, nil
}

// RunAutomaticRenewals runs only the renewal sub-pass. The scheduler
// may call it on its own cadence; on the default setup it is folded
// into RunScheduledTransitions.
func (s *Scanner) RunAutomaticRenewals(ctx context.Context, today time.Time) ([]types.StateChangeResult, error) {
	candidates, err := s.store.FindCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("candidate query: %w", err)
	}

	results := s.renewalPass(ctx, candidates, today)
	slog.Info("renewal pass finished", "renewed", len(results))
	s.notifier.Notify(ctx, results)
	return results, nil
}

func (s *Scanner) renewalPass(ctx context.Context, candidates []postgres.ContractRecord, today time.Time) []types.StateChangeResult {
	var results []types.StateChangeResult
	for i := range candidates {
		rec := &candidates[i]
		res, err := s.renewal.Process(ctx, rec, today)
		if err != nil {
			slog.Error("renewal failed, record skipped", "record", rec.ID, "err", err)
			continue
		}
		if res != nil {
			results = append(results, *res)
		}
	}
	return results
}

func resultFor(rec *postgres.ContractRecord, old, next int) types.StateChangeResult {
	r := types.StateChangeResult{
		RecordID:     rec.ID,
		OldStatus:    old,
		NewStatus:    next,
		EndDate:      rec.EndDate,
		Subject:      rec.Subject,
		Counterparty: rec.Counterparty,
	}
	if rec.ProtocolNumber != nil {
		r.ProtocolNumber = *rec.ProtocolNumber
	}
	return r
}
