package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"contract-registry/types"

	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	calls    int
	failings int // number of leading attempts that fail
}

func (f *fakeRunner) RunScheduledTransitions(_ context.Context, _ time.Time) ([]types.StateChangeResult, error) {
	f.calls++
	if f.calls <= f.failings {
		return nil, errors.New("db unavailable")
	}
	return []types.StateChangeResult{{RecordID: "A"}}, nil
}

func TestRunWithRetryRecovers(t *testing.T) {
	runner := &fakeRunner{failings: 2}
	RunWithRetry(context.Background(), runner, time.Now(), 3, 0)
	assert.Equal(t, 3, runner.calls)
}

func TestRunWithRetryStopsAfterFirstSuccess(t *testing.T) {
	runner := &fakeRunner{}
	RunWithRetry(context.Background(), runner, time.Now(), 3, 0)
	assert.Equal(t, 1, runner.calls)
}

func TestRunWithRetryGivesUpAfterBoundedAttempts(t *testing.T) {
	runner := &fakeRunner{failings: 100}
	RunWithRetry(context.Background(), runner, time.Now(), 3, 0)
	assert.Equal(t, 3, runner.calls)
}
