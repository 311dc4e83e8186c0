package yabackoff_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yabackoff"
)

func TestExponential_Sequence(t *testing.T) {
	tests := []struct {
		name       string
		initial    time.Duration
		multiplier float64
		max        time.Duration
		want       []time.Duration
	}{
		{
			name:       "doubling capped",
			initial:    100 * time.Millisecond,
			multiplier: 2,
			max:        time.Second,
			want: []time.Duration{
				100 * time.Millisecond,
				200 * time.Millisecond,
				400 * time.Millisecond,
				800 * time.Millisecond,
				time.Second,
				time.Second,
			},
		},
		{
			name:       "cap reached on second step",
			initial:    2 * time.Second,
			multiplier: 10,
			max:        5 * time.Second,
			want:       []time.Duration{2 * time.Second, 5 * time.Second, 5 * time.Second},
		},
		{
			name:       "constant",
			initial:    50 * time.Millisecond,
			multiplier: 1,
			max:        time.Second,
			want:       []time.Duration{50 * time.Millisecond, 50 * time.Millisecond},
		},
		{
			name: "zero arguments use defaults",
			want: []time.Duration{
				yabackoff.DefaultInitialInterval,
				time.Duration(float64(yabackoff.DefaultInitialInterval) * yabackoff.DefaultMultiplier),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backoff := yabackoff.NewExponential(tt.initial, tt.multiplier, tt.max, 0)

			for i, want := range tt.want {
				assert.Equal(t, want, backoff.Next(), "step %d", i)
				assert.Equal(t, want, backoff.Current(), "current after step %d", i)
			}
		})
	}
}

func TestExponential_ZeroValueMatchesDefaults(t *testing.T) {
	var zero yabackoff.Exponential

	defaults := yabackoff.NewExponential(0, 0, 0, 0)

	for range 3 {
		assert.Equal(t, defaults.Next(), zero.Next())
	}
}

func TestExponential_ResetStartsOver(t *testing.T) {
	backoff := yabackoff.NewExponential(time.Second, 3, time.Minute, 0)

	backoff.Next()
	backoff.Next()
	require.Equal(t, 3*time.Second, backoff.Current())

	backoff.Reset()

	assert.Equal(t, time.Second, backoff.Current())
	assert.Equal(t, time.Second, backoff.Next())
}

func TestExponential_ResetAfterIdle(t *testing.T) {
	initial := 20 * time.Millisecond
	resetAfter := 30 * time.Millisecond

	backoff := yabackoff.NewExponential(initial, 2, time.Second, resetAfter)

	backoff.Next()
	require.Equal(t, 2*initial, backoff.Next())

	time.Sleep(backoff.Current() + resetAfter)

	assert.Equal(t, initial, backoff.Next())
}

func TestExponential_WaitContext(t *testing.T) {
	t.Run("sleeps for the interval", func(t *testing.T) {
		backoff := yabackoff.NewExponential(30*time.Millisecond, 1, time.Second, 0)

		began := time.Now()

		require.NoError(t, backoff.WaitContext(context.Background()))
		assert.GreaterOrEqual(t, time.Since(began), 30*time.Millisecond)
	})

	t.Run("returns early on cancel", func(t *testing.T) {
		backoff := yabackoff.NewExponential(time.Hour, 2, time.Hour, 0)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, backoff.WaitContext(ctx), context.Canceled)
		assert.Equal(t, time.Hour, backoff.Current())
	})

	t.Run("returns early on deadline", func(t *testing.T) {
		backoff := yabackoff.NewExponential(time.Hour, 2, time.Hour, 0)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		began := time.Now()

		assert.ErrorIs(t, backoff.WaitContext(ctx), context.DeadlineExceeded)
		assert.Less(t, time.Since(began), time.Second)
	})
}
