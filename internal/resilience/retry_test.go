package resilience

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDo_SucceedsFirstTime(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RecoversFromTransientError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func() error {
		calls++
		if calls < 3 {
			return &fs.PathError{Op: "open", Path: "p.yaml", Err: syscall.EBUSY}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_PersistentTransientErrorExhausts(t *testing.T) {
	for _, errno := range []syscall.Errno{syscall.EBUSY, syscall.EAGAIN, syscall.ETIMEDOUT} {
		t.Run(errno.Error(), func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), fastPolicy(4), func() error {
				calls++
				return &fs.PathError{Op: "read", Path: "x", Err: errno}
			})

			require.Error(t, err)
			assert.Equal(t, 4, calls)
			assert.True(t, errors.Is(err, ErrTransientIO))
			assert.True(t, errors.Is(err, errno))

			var exhausted *ExhaustedError
			require.True(t, errors.As(err, &exhausted))
			assert.Equal(t, 4, exhausted.Attempts)
		})
	}
}

func TestDo_NonTransientErrorNotRetried(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(5), func() error {
		calls++
		return &fs.PathError{Op: "open", Path: "missing", Err: syscall.ENOENT}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, ErrTransientIO))
}

func TestDo_CustomRetryable(t *testing.T) {
	sentinel := errors.New("flaky")
	policy := fastPolicy(2)
	policy.Retryable = func(err error) bool { return errors.Is(err, sentinel) }

	calls := 0
	err := Do(context.Background(), policy, func() error {
		calls++
		return sentinel
	})
	assert.Equal(t, 2, calls)
	assert.True(t, errors.Is(err, sentinel))
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastPolicy(3), func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestDo_ZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Policy{}, func() error {
		calls++
		return syscall.EAGAIN
	})
	assert.Equal(t, 1, calls)
}

func TestDoValue_ReturnsValue(t *testing.T) {
	got, err := DoValue(context.Background(), fastPolicy(2), func() (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 20 * time.Millisecond},
		{1, 40 * time.Millisecond},
		{2, 80 * time.Millisecond},
		{5, 500 * time.Millisecond},
		{30, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		got := Backoff(tt.attempt, 20*time.Millisecond, 500*time.Millisecond)
		assert.Equal(t, tt.want, got, "attempt %d", tt.attempt)
	}
	assert.Equal(t, time.Duration(0), Backoff(3, 0, time.Second))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(syscall.EBUSY))
	assert.True(t, IsTransient(&os.PathError{Op: "open", Err: syscall.ETIMEDOUT}))
	assert.False(t, IsTransient(syscall.ENOENT))
	assert.False(t, IsTransient(nil))
}

type flakyReader struct {
	failures int
	calls    int
}

func (f *flakyReader) ReadFile(string) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, syscall.EAGAIN
	}
	return []byte("ok"), nil
}

func TestReadFile(t *testing.T) {
	r := &flakyReader{failures: 2}
	data, err := ReadFile(context.Background(), fastPolicy(3), r, "any")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, 3, r.calls)
}
