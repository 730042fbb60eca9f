package postgres

import (
	"context"
	"errors"
	"time"

	"contract-registry/types"

	"gorm.io/gorm"
)

// RecordRepo wraps all access to the contract_records table.
type RecordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Create inserts a new record.
func (r *RecordRepo) Create(ctx context.Context, rec *ContractRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// GetByID loads one record; (nil, nil) when it does not exist.
func (r *RecordRepo) GetByID(ctx context.Context, id string) (*ContractRecord, error) {
	var rec ContractRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = false", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save persists CRUD-layer edits on an existing record.
func (r *RecordRepo) Save(ctx context.Context, rec *ContractRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// SoftDelete flags a record as deleted without removing the row.
func (r *RecordRepo) SoftDelete(ctx context.Context, id, by string) error {
	return r.db.WithContext(ctx).
		Model(&ContractRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_by": by,
			"updated_at": time.Now(),
		}).Error
}

// List applies the structured filters of the registry list endpoint.
func (r *RecordRepo) List(ctx context.Context, f *types.RecordFilter) ([]ContractRecord, error) {
	tx := r.db.WithContext(ctx).
		Model(&ContractRecord{}).
		Where("is_deleted = false")

	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	if f.Kind != nil {
		tx = tx.Where("record_kind = ?", *f.Kind)
	}
	if f.Counterparty != "" {
		tx = tx.Where("counterparty LIKE ?", "%"+f.Counterparty+"%")
	}
	if f.Protocol != "" {
		tx = tx.Where("protocol_number = ?", f.Protocol)
	}
	if f.EndAfter != "" {
		tx = tx.Where("end_date >= ?", f.EndAfter)
	}
	if f.EndBefore != "" {
		tx = tx.Where("end_date <= ?", f.EndBefore)
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var out []ContractRecord
	err := tx.Order("created_at DESC").
		Limit(limit).
		Offset(f.Offset).
		Find(&out).Error
	return out, err
}

// FindCandidates returns the records a scan pass may move: states the
// engine owns, a set end date, not soft-deleted. Records already
// transitioned by an earlier run of the same day no longer match, which
// is what makes a repeated scan a no-op.
func (r *RecordRepo) FindCandidates(ctx context.Context) ([]ContractRecord, error) {
	var out []ContractRecord
	err := r.db.WithContext(ctx).
		Where("status IN ? AND end_date IS NOT NULL AND is_deleted = false",
			[]int{types.StatusActive, types.StatusExpiring, types.StatusRenewalProposed}).
		Order("end_date").
		Find(&out).Error
	return out, err
}

// ClaimTransition commits one state change as a single guarded UPDATE.
// It reports false when another run already moved the record out of
// the expected state, so concurrent or retried scans never double
// count a transition.
func (r *RecordRepo) ClaimTransition(ctx context.Context, id string, from, to int, by string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ContractRecord{}).
		Where("id = ? AND status = ? AND is_deleted = false", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_by": by,
			"updated_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

// HasSuccessor reports whether a renewal chain already continues past
// the given record.
func (r *RecordRepo) HasSuccessor(ctx context.Context, parentID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&ContractRecord{}).
		Where("parent_id = ?", parentID).
		Count(&n).Error
	return n > 0, err
}

// CreateRenewal commits successor insert and predecessor close as one
// transaction. The successor check runs again inside the transaction
// and the predecessor flip is guarded on its current state, so at most
// one successor can ever exist per predecessor. Reports false when the
// record was claimed by someone else in the meantime.
func (r *RecordRepo) CreateRenewal(ctx context.Context, successor *ContractRecord, predecessorID string, at time.Time) (bool, error) {
	claimed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&ContractRecord{}).
			Where("parent_id = ?", predecessorID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		res := tx.Model(&ContractRecord{}).
			Where("id = ? AND status IN ? AND is_deleted = false",
				predecessorID,
				[]int{types.StatusExpiring, types.StatusRenewalProposed}).
			Updates(map[string]any{
				"status":     types.StatusRenewed,
				"updated_by": successor.CreatedBy,
				"updated_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Create(successor).Error; err != nil {
			return err
		}
		claimed = true
		return nil
	})
	return claimed, err
}
