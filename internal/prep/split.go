package prep

import (
	"math"
	"math/rand/v2"
)

// DefaultTrainFraction is the share of rows assigned to the training set.
const DefaultTrainFraction = 0.8

// Shuffler is the randomness the splitter draws its permutation from.
// *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewSeededSource returns a deterministic PCG-backed generator.
func NewSeededSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Split partitions row indexes into training and testing sets.
type Split struct {
	Train []int
	Test  []int
}

// Len returns the total number of indexes in the split.
func (s Split) Len() int {
	return len(s.Train) + len(s.Test)
}

// SplitIndices permutes [0, n) with src and assigns the first
// floor(trainFraction*n) indexes to the training set.
func SplitIndices(n int, trainFraction float64, src Shuffler) (Split, error) {
	if math.IsNaN(trainFraction) || trainFraction < 0 || trainFraction > 1 {
		return Split{}, ErrInvalidFraction
	}
	if n <= 0 {
		return Split{Train: []int{}, Test: []int{}}, nil
	}

	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	src.Shuffle(n, func(i, j int) {
		idxs[i], idxs[j] = idxs[j], idxs[i]
	})

	trainSize := int(math.Floor(trainFraction * float64(n)))
	return Split{
		Train: idxs[:trainSize:trainSize],
		Test:  idxs[trainSize:],
	}, nil
}
