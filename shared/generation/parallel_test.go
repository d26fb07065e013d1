package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOrdered_PreservesOrder(t *testing.T) {
	for _, n := range []int{0, 1, sequentialThreshold - 1, sequentialThreshold, 10007} {
		in := make([]int, n)
		for i := range in {
			in[i] = i
		}

		out, err := mapOrdered(context.Background(), in, func(v int) int { return v * 2 })
		require.NoError(t, err)
		require.Len(t, out, n)
		for i, v := range out {
			if v != i*2 {
				t.Fatalf("n=%d: index %d holds %d", n, i, v)
			}
		}
	}
}

func TestMapOrdered_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mapOrdered(ctx, make([]int, 10), func(v int) int { return v })
	assert.ErrorIs(t, err, context.Canceled)

	_, err = mapOrdered(ctx, make([]int, 5000), func(v int) int { return v })
	assert.ErrorIs(t, err, context.Canceled)
}
