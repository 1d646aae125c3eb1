package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationError(t *testing.T) {
	errExecQuery := errors.New("storage: failed to execute query")
	errInternal := errors.New("usecase: internal error")

	serialization := &pq.Error{Code: "40001"}
	deadlock := &pq.Error{Code: "40P01"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "raw serialization failure",
			err:  serialization,
			want: true,
		},
		{
			name: "raw deadlock",
			err:  deadlock,
			want: true,
		},
		{
			name: "wrapped by repository",
			err:  fmt.Errorf("%w: IncrementBooked - execute update: %w", errExecQuery, serialization),
			want: true,
		},
		// Цепочка репозиторий -> usecase, как внутри DoSerializable
		{
			name: "wrapped by repository and usecase",
			err: fmt.Errorf("%w: commit - failed to increment booked count: %w", errInternal,
				fmt.Errorf("%w: IncrementBooked - execute update: %w", errExecQuery, serialization)),
			want: true,
		},
		{
			name: "wrapped at commit",
			err:  fmt.Errorf("%w: commit: %w", ErrTxFailed, serialization),
			want: true,
		},
		{
			name: "other pq error",
			err:  fmt.Errorf("%w: exec: %w", errExecQuery, &pq.Error{Code: "23505"}),
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationError(tt.err))
		})
	}
}
