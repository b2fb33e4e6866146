package generator

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestBuildRecordSet(t *testing.T) {
	t.Run("CountMatchesFormula", func(t *testing.T) {
		for _, maxValue := range []float64{0.1, 0.2, 0.3, 1.0, 2.3, 10} {
			rs := BuildRecordSet(maxValue)
			assert.Equal(t, len(Labels)*StepCount(maxValue)*MaxRank, rs.Len(), "maxValue=%v", maxValue)
		}
	})

	t.Run("LabelMajorValueAscendingRankDescending", func(t *testing.T) {
		rs := BuildRecordSet(0.2)
		require.Equal(t, 140, rs.Len())

		assert.Equal(t, "amarelo 0.1 10", rs.At(0).String())
		assert.Equal(t, "amarelo 0.1 1", rs.At(9).String())
		assert.Equal(t, "amarelo 0.2 10", rs.At(10).String())
		assert.Equal(t, "azul 0.1 10", rs.At(20).String())
		assert.Equal(t, "vermelho 0.2 1", rs.At(139).String())

		for i := 1; i < rs.Len(); i++ {
			prev, cur := rs.At(i-1), rs.At(i)
			switch {
			case prev.Label != cur.Label:
				assert.Less(t, labelIndex(prev.Label), labelIndex(cur.Label))
				assert.Equal(t, 1, cur.Tenths)
				assert.Equal(t, MaxRank, cur.Rank)
			case prev.Tenths != cur.Tenths:
				assert.Equal(t, prev.Tenths+1, cur.Tenths)
				assert.Equal(t, 1, prev.Rank)
				assert.Equal(t, MaxRank, cur.Rank)
			default:
				assert.Equal(t, prev.Rank-1, cur.Rank)
			}
		}
	})

	t.Run("EmptyForNonPositiveMax", func(t *testing.T) {
		rs := BuildRecordSet(0)
		assert.Equal(t, 0, rs.Len())
		assert.Empty(t, rs.Best())
		assert.Empty(t, rs.Worst())
		assert.Empty(t, rs.Average(newTestRand(1)))
	})
}

func TestRecordSet_Orderings(t *testing.T) {
	rs := BuildRecordSet(0.5)

	t.Run("BestIsACopy", func(t *testing.T) {
		best := rs.Best()
		best[0].Rank = -1
		assert.Equal(t, MaxRank, rs.At(0).Rank)
	})

	t.Run("WorstIsExactReverse", func(t *testing.T) {
		best, worst := rs.Best(), rs.Worst()
		require.Equal(t, len(best), len(worst))
		for i := range best {
			assert.Equal(t, best[len(best)-1-i], worst[i])
		}
	})

	t.Run("AverageDrawsFromSet", func(t *testing.T) {
		avg := rs.Average(newTestRand(7))
		require.Len(t, avg, rs.Len())
		for _, r := range avg {
			assert.True(t, rs.Contains(r), "unexpected record %s", r)
		}
	})

	t.Run("AverageIsReproducibleWithSameSeed", func(t *testing.T) {
		assert.Equal(t, rs.Average(newTestRand(42)), rs.Average(newTestRand(42)))
	})
}

func TestRecordSet_Contains(t *testing.T) {
	rs := BuildRecordSet(0.2)

	assert.True(t, rs.Contains(Record{Label: "rosa", Tenths: 2, Rank: 5}))
	assert.False(t, rs.Contains(Record{Label: "rosa", Tenths: 3, Rank: 5}))
	assert.False(t, rs.Contains(Record{Label: "rosa", Tenths: 1, Rank: 11}))
	assert.False(t, rs.Contains(Record{Label: "roxo", Tenths: 1, Rank: 1}))
}

func labelIndex(label string) int {
	for i, l := range Labels {
		if l == label {
			return i
		}
	}
	return -1
}
