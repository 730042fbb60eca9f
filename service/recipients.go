package service

import (
	"context"
	"strings"

	"contract-registry/storage/postgres"
)

// RuleSource is the read-only view of the notification configuration
// the resolver needs. *postgres.NotifyRepo implements it.
type RuleSource interface {
	RuleByCode(ctx context.Context, code string) (*postgres.NotificationRule, error)
	Mailboxes(ctx context.Context, rec postgres.RecipientRule) ([]string, error)
}

// Resolution is what one notification code resolves to.
type Resolution struct {
	Addresses []string
	// Subject is the rule's default subject template, may be empty.
	Subject string
}

// RecipientResolver turns a notification code into a deduplicated set
// of mailbox addresses.
type RecipientResolver struct {
	rules RuleSource
}

func NewRecipientResolver(rules RuleSource) *RecipientResolver {
	return &RecipientResolver{rules: rules}
}

// Resolve returns nil when no active rule exists for the code: nobody
// configured is a legitimate, silent outcome, not an error.
func (r *RecipientResolver) Resolve(ctx context.Context, code string) (*Resolution, error) {
	rule, err := r.rules.RuleByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}

	seen := make(map[string]struct{})
	res := &Resolution{Subject: rule.SubjectTemplate}
	for _, rec := range rule.Recipients {
		addrs, err := r.rules.Mailboxes(ctx, rec)
		if err != nil {
			return nil, err
		}
		for _, a := range addrs {
			addr := strings.TrimSpace(a)
			key := strings.ToLower(addr)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			res.Addresses = append(res.Addresses, addr)
		}
	}
	return res, nil
}
