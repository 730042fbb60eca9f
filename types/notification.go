package types

// Transition categories a scan pass can produce. Each maps to exactly
// one notification code, so recipient lookup never dispatches on raw
// strings coming from the database.
const (
	CategoryExpiring = 1
	CategoryExpired  = 2
	CategoryRenewed  = 3
)

// Notification codes as stored on notification_rules.code.
const (
	CodeContractExpiring = "CONTRACT_EXPIRING"
	CodeContractExpired  = "CONTRACT_EXPIRED"
	CodeContractRenewed  = "CONTRACT_RENEWED"
)

var categoryCodes = map[int]string{
	CategoryExpiring: CodeContractExpiring,
	CategoryExpired:  CodeContractExpired,
	CategoryRenewed:  CodeContractRenewed,
}

// CategoryCode maps a transition category to its notification code.
func CategoryCode(cat int) (string, bool) {
	code, ok := categoryCodes[cat]
	return code, ok
}

// CategoryOf classifies a state-change result. Results the notifier has
// no rule family for (human-only transitions) return false.
func CategoryOf(r StateChangeResult) (int, bool) {
	switch r.NewStatus {
	case StatusExpiring:
		return CategoryExpiring, true
	case StatusExpired:
		return CategoryExpired, true
	case StatusRenewed:
		return CategoryRenewed, true
	}
	return 0, false
}

// Recipient rule kinds on recipient_rules.kind.
const (
	RecipientDepartment = 1
	RecipientRole       = 2
	RecipientUser       = 3
)
