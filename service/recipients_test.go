package service

import (
	"context"
	"testing"

	"contract-registry/storage/postgres"
	"contract-registry/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnionsAndDeduplicates(t *testing.T) {
	rules := &fakeRules{
		rules: map[string]*postgres.NotificationRule{
			types.CodeContractExpiring: {
				Code:            types.CodeContractExpiring,
				Active:          true,
				SubjectTemplate: "Scadenze contratti",
				Recipients: []postgres.RecipientRule{
					{ID: 1, Kind: types.RecipientDepartment},
					{ID: 2, Kind: types.RecipientRole},
					{ID: 3, Kind: types.RecipientUser},
				},
			},
		},
		mailboxes: map[uint][]string{
			1: {"ops@example.it", "amministrazione@example.it"},
			2: {"OPS@example.it", "direzione@example.it"}, // overlaps dept, different case
			3: {" ops@example.it ", ""},                   // whitespace and empty entries
		},
	}

	res, err := NewRecipientResolver(rules).Resolve(context.Background(), types.CodeContractExpiring)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "Scadenze contratti", res.Subject)
	assert.Equal(t, []string{"ops@example.it", "amministrazione@example.it", "direzione@example.it"}, res.Addresses)
}

func TestResolveMissingRuleIsSilent(t *testing.T) {
	res, err := NewRecipientResolver(&fakeRules{}).Resolve(context.Background(), types.CodeContractExpired)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestResolveRuleWithoutRecipients(t *testing.T) {
	rules := &fakeRules{
		rules: map[string]*postgres.NotificationRule{
			types.CodeContractRenewed: {Code: types.CodeContractRenewed, Active: true},
		},
	}

	res, err := NewRecipientResolver(rules).Resolve(context.Background(), types.CodeContractRenewed)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Addresses)
}
