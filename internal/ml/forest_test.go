package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a cleanly separable two-class problem: class 1 iff the first feature is large
func separableData() ([][]float64, []int) {
	x := [][]float64{
		{1, 0}, {2, 1}, {1, 1}, {2, 0},
		{8, 0}, {9, 1}, {8, 1}, {9, 0},
	}
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}
	return x, y
}

func TestTrainForest_LearnsSeparableData(t *testing.T) {
	x, y := separableData()
	forest := TrainForest(x, y, 2, ForestConfig{Trees: 25, Seed: 1})
	require.Len(t, forest.Trees, 25)

	for i := range x {
		assert.Equal(t, y[i], forest.PredictVector(x[i]), "row %d", i)
	}
	assert.Equal(t, 0, forest.PredictVector([]float64{1.5, 0.5}))
	assert.Equal(t, 1, forest.PredictVector([]float64{8.5, 0.5}))
}

func TestTrainForest_DeterministicForSeed(t *testing.T) {
	x, y := separableData()

	a := TrainForest(x, y, 2, ForestConfig{Trees: 10, Seed: 42})
	b := TrainForest(x, y, 2, ForestConfig{Trees: 10, Seed: 42})

	probe := [][]float64{{0, 0}, {3, 1}, {5, 0}, {7, 1}, {10, 0}}
	for _, vec := range probe {
		assert.Equal(t, a.PredictVector(vec), b.PredictVector(vec))
	}
}

func TestTrainForest_DefaultTreeCount(t *testing.T) {
	x, y := separableData()
	forest := TrainForest(x, y, 2, ForestConfig{Seed: 1})
	assert.Len(t, forest.Trees, 100)
}

func TestTrainForest_SingleClass(t *testing.T) {
	x := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	y := []int{1, 1, 1}

	forest := TrainForest(x, y, 2, ForestConfig{Trees: 5, Seed: 7})
	assert.Equal(t, 1, forest.PredictVector([]float64{100, -3}))
}
