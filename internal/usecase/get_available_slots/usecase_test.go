package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

type slotRepoMock struct {
	slots []*domain.Slot
}

func (m *slotRepoMock) GetByServiceAndDate(_ context.Context, _, _ int64, _ time.Time) ([]*domain.Slot, error) {
	return m.slots, nil
}

type lockRepoMock struct {
	sums map[int64]int
}

func (m *lockRepoMock) SumActiveBySlots(_ context.Context, _ []int64, _ time.Time) (map[int64]int, error) {
	return m.sums, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestExecute_AggregatesAndSubtractsLocks(t *testing.T) {
	slots := []*domain.Slot{
		makeSlot(1, "10:00", "11:00", 5, 1),
		makeSlot(2, "10:00", "11:00", 5, 0),
	}
	uc := NewUseCase(&slotRepoMock{slots: slots}, &lockRepoMock{sums: map[int64]int{2: 3}}, nopLogger{})

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 10, resp.Slots[0].TotalCapacity)
	assert.Equal(t, 6, resp.Slots[0].AvailableCapacity)
}

func TestExecute_NoSlots(t *testing.T) {
	uc := NewUseCase(&slotRepoMock{}, &lockRepoMock{}, nopLogger{})

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&slotRepoMock{}, &lockRepoMock{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{TenantID: 0, ServiceID: 10, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
