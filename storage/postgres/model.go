package postgres

import (
	"time"

	"contract-registry/types"
)

// ContractRecord maps the contract_records table. Audit and soft-delete
// columns belong to the CRUD layer; the engine only writes status,
// updated_at and updated_by.
type ContractRecord struct {
	ID             string     `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	RecordKind     int        `gorm:"column:record_kind;type:smallint;default:2" json:"record_kind"`
	ProtocolNumber *string    `gorm:"column:protocol_number;type:varchar(50);uniqueIndex" json:"protocol_number,omitempty"`
	Status         int        `gorm:"column:status;type:smallint;default:1;index" json:"status"`
	EndDate        *time.Time `gorm:"column:end_date;type:date;index" json:"end_date,omitempty"`
	NoticeDays     int        `gorm:"column:notice_days;default:0" json:"notice_days"`
	AutoRenewDays  *int       `gorm:"column:auto_renew_days" json:"auto_renew_days,omitempty"`
	ParentID       *string    `gorm:"column:parent_id;type:uuid;index" json:"parent_id,omitempty"`
	Counterparty   string     `gorm:"column:counterparty;type:varchar(255);index" json:"counterparty"`
	Subject        string     `gorm:"column:subject;type:text" json:"subject"`
	Amount         float64    `gorm:"column:amount;type:decimal(15,2)" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(100)" json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `gorm:"column:updated_by;type:varchar(100)" json:"updated_by"`
	IsDeleted bool      `gorm:"column:is_deleted;default:false;index" json:"-"`
}

// TableName forces the table name.
func (ContractRecord) TableName() string {
	return "contract_records"
}

func (c *ContractRecord) IsTerminal() bool {
	return types.IsTerminal(c.Status)
}

// NotificationRule is the named policy behind a notification code.
// Edited through the CRUD surface, read-only to the engine.
type NotificationRule struct {
	ID              uint   `gorm:"column:id;primaryKey" json:"id"`
	Code            string `gorm:"column:code;type:varchar(50);uniqueIndex;not null" json:"code"`
	Active          bool   `gorm:"column:active;default:true" json:"active"`
	SubjectTemplate string `gorm:"column:subject_template;type:varchar(255)" json:"subject_template"`
	Module          string `gorm:"column:module;type:varchar(50)" json:"module"`

	Recipients []RecipientRule `gorm:"foreignKey:RuleID" json:"recipients"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NotificationRule) TableName() string {
	return "notification_rules"
}

// RecipientRule attaches one department, role or user to a rule.
type RecipientRule struct {
	ID           uint    `gorm:"column:id;primaryKey" json:"id"`
	RuleID       uint    `gorm:"column:rule_id;index;not null" json:"rule_id"`
	Kind         int     `gorm:"column:kind;type:smallint;not null" json:"kind"`
	DepartmentID *uint   `gorm:"column:department_id" json:"department_id,omitempty"`
	RoleName     string  `gorm:"column:role_name;type:varchar(50)" json:"role_name,omitempty"`
	UserID       *string `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`
}

func (RecipientRule) TableName() string {
	return "recipient_rules"
}

// User is the slice of the surrounding directory the resolver needs.
type User struct {
	ID           string `gorm:"column:id;primaryKey;type:uuid"`
	Name         string `gorm:"column:name;type:varchar(100)"`
	Email        string `gorm:"column:email;type:varchar(255);index"`
	Role         string `gorm:"column:role;type:varchar(50);index"`
	DepartmentID *uint  `gorm:"column:department_id;index"`
	Active       bool   `gorm:"column:active;default:true"`
	IsDeleted    bool   `gorm:"column:is_deleted;default:false"`
}

func (User) TableName() string {
	return "users"
}

type Department struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;type:varchar(100)"`
}

func (Department) TableName() string {
	return "departments"
}
