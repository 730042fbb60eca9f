package postgres

import (
	"context"
	"errors"

	"contract-registry/types"

	"gorm.io/gorm"
)

// NotifyRepo reads notification rules and resolves recipient references
// through the user/department directory.
type NotifyRepo struct {
	db *gorm.DB
}

func NewNotifyRepo(db *gorm.DB) *NotifyRepo {
	return &NotifyRepo{db: db}
}

// RuleByCode loads an active rule with its recipients. A missing or
// disabled rule is not an error: (nil, nil) means nobody is configured.
func (r *NotifyRepo) RuleByCode(ctx context.Context, code string) (*NotificationRule, error) {
	var rule NotificationRule
	err := r.db.WithContext(ctx).
		Preload("Recipients").
		Where("code = ? AND active = true", code).
		First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// Mailboxes resolves one recipient rule to the addresses of live users.
func (r *NotifyRepo) Mailboxes(ctx context.Context, rec RecipientRule) ([]string, error) {
	tx := r.db.WithContext(ctx).
		Model(&User{}).
		Where("active = true AND is_deleted = false AND email <> ''")

	switch rec.Kind {
	case types.RecipientDepartment:
		if rec.DepartmentID == nil {
			return nil, nil
		}
		tx = tx.Where("department_id = ?", *rec.DepartmentID)
	case types.RecipientRole:
		if rec.RoleName == "" {
			return nil, nil
		}
		tx = tx.Where("role = ?", rec.RoleName)
	case types.RecipientUser:
		if rec.UserID == nil {
			return nil, nil
		}
		tx = tx.Where("id = ?", *rec.UserID)
	default:
		return nil, nil
	}

	var emails []string
	err := tx.Pluck("email", &emails).Error
	return emails, err
}

// --- CRUD surface for the configuration endpoints ---

func (r *NotifyRepo) CreateRule(ctx context.Context, rule *NotificationRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *NotifyRepo) ListRules(ctx context.Context) ([]NotificationRule, error) {
	var rules []NotificationRule
	err := r.db.WithContext(ctx).
		Preload("Recipients").
		Order("code").
		Find(&rules).Error
	return rules, err
}

func (r *NotifyRepo) GetRule(ctx context.Context, id uint) (*NotificationRule, error) {
	var rule NotificationRule
	err := r.db.WithContext(ctx).
		Preload("Recipients").
		First(&rule, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// SaveRule replaces a rule and its recipient set.
func (r *NotifyRepo) SaveRule(ctx context.Context, rule *NotificationRule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rule_id = ?", rule.ID).Delete(&RecipientRule{}).Error; err != nil {
			return err
		}
		return tx.Save(rule).Error
	})
}

func (r *NotifyRepo) DeleteRule(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rule_id = ?", id).Delete(&RecipientRule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&NotificationRule{}, id).Error
	})
}
