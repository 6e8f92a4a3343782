package workflows

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/mocks"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

type stubService struct {
	ports.Service
	failErr error
	causes  []string
}

func (s *stubService) Prepare(_ context.Context, wallet mdomain.Address) (*domain.Plan, error) {
	return &domain.Plan{RunID: "run-1", Wallet: wallet}, nil
}

func (s *stubService) Fail(_ context.Context, _ domain.Plan, cause string) error {
	s.causes = append(s.causes, cause)
	return s.failErr
}

func TestWorkflowID(t *testing.T) {
	assert.Equal(t, "checkout-0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc", WorkflowID(mmemory.DemoBuyer))
}

func TestTemporalCheckout_LogsUnrecordedFailure(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	var logs bytes.Buffer
	service := &stubService{failErr: errors.New("database is down")}
	orchestrator := NewTemporalCheckout(temporalClient, service, slog.New(slog.NewTextHandler(&logs, nil)))

	_, err := orchestrator.Checkout(context.Background(), mmemory.DemoBuyer)
	require.EqualError(t, err, "frontend unavailable")
	assert.Equal(t, []string{"frontend unavailable"}, service.causes)
	assert.Contains(t, logs.String(), "failed to record checkout failure")
	assert.Contains(t, logs.String(), "database is down")
	assert.Contains(t, logs.String(), "run-1")
	temporalClient.AssertExpectations(t)
}

func TestTemporalCheckout_RecordedFailureIsQuiet(t *testing.T) {
	temporalClient := &mocks.Client{}
	temporalClient.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	var logs bytes.Buffer
	service := &stubService{}
	orchestrator := NewTemporalCheckout(temporalClient, service, slog.New(slog.NewTextHandler(&logs, nil)))

	_, err := orchestrator.Checkout(context.Background(), mmemory.DemoBuyer)
	require.Error(t, err)
	assert.Len(t, service.causes, 1)
	assert.Empty(t, logs.String())
}
