package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contract-registry/storage/postgres"
	"contract-registry/types"

	"github.com/google/uuid"
)

// RenewalStore is the slice of the record store the renewal processor
// writes through. *postgres.RecordRepo implements it.
type RenewalStore interface {
	HasSuccessor(ctx context.Context, parentID string) (bool, error)
	CreateRenewal(ctx context.Context, successor *postgres.ContractRecord, predecessorID string, at time.Time) (bool, error)
}

// ProtocolAllocator mints protocol numbers for successor records.
// Numbering policy belongs to the surrounding registry, not the engine.
type ProtocolAllocator interface {
	Next(ctx context.Context, at time.Time) (string, error)
}

type uuidAllocator struct{}

func (uuidAllocator) Next(_ context.Context, at time.Time) (string, error) {
	return fmt.Sprintf("R-%d-%s", at.Year(), strings.ToUpper(uuid.NewString()[:8])), nil
}

// NewProtocolAllocator returns the default uuid-derived allocator.
func NewProtocolAllocator() ProtocolAllocator {
	return uuidAllocator{}
}

// RenewalProcessor clones eligible records into successors and closes
// the predecessor, at most once per chain link.
type RenewalProcessor struct {
	store    RenewalStore
	protocol ProtocolAllocator
	actor    string
}

func NewRenewalProcessor(store RenewalStore, protocol ProtocolAllocator, actor string) *RenewalProcessor {
	return &RenewalProcessor{store: store, protocol: protocol, actor: actor}
}

// Process renews one record. Records that are not eligible, or whose
// chain already continues, come back as (nil, nil): they fall through
// to expiry like any other record.
func (p *RenewalProcessor) Process(ctx context.Context, rec *postgres.ContractRecord, today time.Time) (*types.StateChangeResult, error) {
	if rec.AutoRenewDays == nil || rec.EndDate == nil {
		return nil, nil
	}
	if rec.Status != types.StatusExpiring && rec.Status != types.StatusRenewalProposed {
		return nil, nil
	}

	// Cheap check first; CreateRenewal re-checks inside its transaction.
	has, err := p.store.HasSuccessor(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("successor lookup for %s: %w", rec.ID, err)
	}
	if has {
		return nil, nil
	}

	number, err := p.protocol.Next(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("protocol allocation for %s: %w", rec.ID, err)
	}

	end := rec.EndDate.AddDate(0, 0, *rec.AutoRenewDays)
	renewDays := *rec.AutoRenewDays
	successor := &postgres.ContractRecord{
		ID:             uuid.NewString(),
		RecordKind:     rec.RecordKind,
		ProtocolNumber: &number,
		Status:         types.StatusActive,
		EndDate:        &end,
		NoticeDays:     rec.NoticeDays,
		AutoRenewDays:  &renewDays,
		ParentID:       &rec.ID,
		Counterparty:   rec.Counterparty,
		Subject:        rec.Subject,
		Amount:         rec.Amount,
		CreatedAt:      today,
		CreatedBy:      p.actor,
		UpdatedAt:      today,
		UpdatedBy:      p.actor,
	}

	claimed, err := p.store.CreateRenewal(ctx, successor, rec.ID, today)
	if err != nil {
		return nil, fmt.Errorf("renewal of %s: %w", rec.ID, err)
	}
	if !claimed {
		// Lost the race to a concurrent pass or a manual renewal.
		return nil, nil
	}

	result := &types.StateChangeResult{
		RecordID:          rec.ID,
		OldStatus:         rec.Status,
		NewStatus:         types.StatusRenewed,
		EndDate:           rec.EndDate,
		Subject:           rec.Subject,
		Counterparty:      rec.Counterparty,
		SuccessorID:       successor.ID,
		SuccessorProtocol: number,
	}
	if rec.ProtocolNumber != nil {
		result.ProtocolNumber = *rec.ProtocolNumber
	}
	rec.Status = types.StatusRenewed
	return result, nil
}
