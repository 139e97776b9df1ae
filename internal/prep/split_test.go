package prep

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIndicesDeterministic(t *testing.T) {
	t.Parallel()

	a, err := SplitIndices(10, 0.8, NewSeededSource(42))
	require.NoError(t, err)
	b, err := SplitIndices(10, 0.8, NewSeededSource(42))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a.Train, 8)
	assert.Len(t, a.Test, 2)

	c, err := SplitIndices(10, 0.8, NewSeededSource(7))
	require.NoError(t, err)
	assert.Len(t, c.Train, 8)
	assert.Len(t, c.Test, 2)
}

func TestSplitIndicesPartition(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 3, 10, 97} {
		for _, fraction := range []float64{0, 0.25, 0.5, 0.8, 1} {
			s, err := SplitIndices(n, fraction, NewSeededSource(uint64(n)))
			require.NoError(t, err)

			assert.Len(t, s.Train, int(math.Floor(fraction*float64(n))))
			assert.Equal(t, n, s.Len())

			all := append(slices.Clone(s.Train), s.Test...)
			slices.Sort(all)
			for i, idx := range all {
				assert.Equal(t, i, idx, "n=%d fraction=%v", n, fraction)
			}
		}
	}
}

func TestSplitIndicesDegenerate(t *testing.T) {
	t.Parallel()

	s, err := SplitIndices(0, 0.8, NewSeededSource(1))
	require.NoError(t, err)
	assert.Empty(t, s.Train)
	assert.Empty(t, s.Test)

	s, err = SplitIndices(5, 0, NewSeededSource(1))
	require.NoError(t, err)
	assert.Empty(t, s.Train)
	assert.Len(t, s.Test, 5)
}

func TestSplitIndicesInvalidFraction(t *testing.T) {
	t.Parallel()

	for _, f := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := SplitIndices(10, f, NewSeededSource(1))
		assert.ErrorIs(t, err, ErrInvalidFraction)
	}
}

type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestSplitIndicesUsesInjectedSource(t *testing.T) {
	t.Parallel()

	s, err := SplitIndices(5, 0.6, reverseShuffler{})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2}, s.Train)
	assert.Equal(t, []int{1, 0}, s.Test)
}

func TestStageError(t *testing.T) {
	t.Parallel()

	err := AtStage(StageScale, ErrDivisionByZero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.Equal(t, StageScale, StageOf(err))
	assert.Equal(t, "scale: division by zero: standard deviation is 0", err.Error())
	assert.NoError(t, AtStage(StageScale, nil))
	assert.Equal(t, "", StageOf(ErrEmptyInput))
}
