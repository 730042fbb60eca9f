package types

import "time"

// Record kinds stored in the registry.
const (
	KindQuote    = 1
	KindContract = 2
)

// Lifecycle states, stored as smallint in the records table.
const (
	StatusDraft           = 1
	StatusInReview        = 2
	StatusSent            = 3
	StatusActive          = 4
	StatusExpiring        = 5
	StatusRenewalProposed = 6
	StatusExpired         = 7
	StatusRenewed         = 8
	StatusCancelled       = 9
	StatusSuspended       = 10
)

var statusNames = map[int]string{
	StatusDraft:           "draft",
	StatusInReview:        "in_review",
	StatusSent:            "sent",
	StatusActive:          "active",
	StatusExpiring:        "expiring_soon",
	StatusRenewalProposed: "renewal_proposed",
	StatusExpired:         "expired",
	StatusRenewed:         "renewed",
	StatusCancelled:       "cancelled",
	StatusSuspended:       "suspended",
}

// StatusName returns the wire name of a lifecycle state.
func StatusName(s int) string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether the engine may never touch the record again.
func IsTerminal(s int) bool {
	return s == StatusExpired || s == StatusRenewed || s == StatusCancelled
}

// StateChangeResult is emitted once per committed transition during a
// scan pass. It lives only until the pass's notifications go out.
type StateChangeResult struct {
	RecordID       string     `json:"record_id"`
	OldStatus      int        `json:"old_status"`
	NewStatus      int        `json:"new_status"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	ProtocolNumber string     `json:"protocol_number,omitempty"`
	Subject        string     `json:"subject,omitempty"`
	Counterparty   string     `json:"counterparty,omitempty"`

	// Set only for renewals.
	SuccessorID       string `json:"successor_id,omitempty"`
	SuccessorProtocol string `json:"successor_protocol,omitempty"`
}
