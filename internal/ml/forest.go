package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Forest is a bagged ensemble of CART-style decision trees. Training is fully
// deterministic for a fixed seed.
type Forest struct {
	Trees      []*treeNode `json:"trees"`
	NumClasses int         `json:"num_classes"`
}

type treeNode struct {
	Leaf      bool      `json:"leaf"`
	Class     int       `json:"class,omitempty"`
	Feature   int       `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

// ForestConfig controls ensemble training.
type ForestConfig struct {
	Trees int
	Seed  int64
}

// TrainForest fits cfg.Trees trees, each on a bootstrap sample of x/y with
// sqrt(d) feature subsampling at every split.
func TrainForest(x [][]float64, y []int, numClasses int, cfg ForestConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	n := len(x)
	forest := &Forest{
		Trees:      make([]*treeNode, 0, cfg.Trees),
		NumClasses: numClasses,
	}
	if n == 0 {
		return forest
	}

	maxFeatures := int(math.Sqrt(float64(len(x[0]))))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		forest.Trees = append(forest.Trees, growTree(x, y, sample, numClasses, maxFeatures, rng))
	}
	return forest
}

// PredictVector returns the majority-vote class for one input vector.
func (f *Forest) PredictVector(vec []float64) int {
	votes := make([]int, f.NumClasses)
	for _, tree := range f.Trees {
		votes[classify(tree, vec)]++
	}
	best := 0
	for c := 1; c < len(votes); c++ {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best
}

func classify(node *treeNode, vec []float64) int {
	for !node.Leaf {
		if vec[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class
}

func growTree(x [][]float64, y []int, idx []int, numClasses, maxFeatures int, rng *rand.Rand) *treeNode {
	if pure(y, idx) {
		return &treeNode{Leaf: true, Class: majority(y, idx, numClasses)}
	}

	feature, threshold, ok := bestSplit(x, y, idx, numClasses, maxFeatures, rng)
	if !ok {
		return &treeNode{Leaf: true, Class: majority(y, idx, numClasses)}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{Leaf: true, Class: majority(y, idx, numClasses)}
	}

	return &treeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(x, y, left, numClasses, maxFeatures, rng),
		Right:     growTree(x, y, right, numClasses, maxFeatures, rng),
	}
}

// bestSplit scans a random feature subset for the threshold minimising the
// weighted Gini impurity of the resulting partition.
func bestSplit(x [][]float64, y []int, idx []int, numClasses, maxFeatures int, rng *rand.Rand) (int, float64, bool) {
	bestFeature := -1
	bestThreshold := 0.0
	bestScore := math.Inf(1)

	for _, feature := range rng.Perm(len(x[idx[0]]))[:maxFeatures] {
		values := make([]float64, 0, len(idx))
		seen := make(map[float64]struct{}, len(idx))
		for _, i := range idx {
			v := x[i][feature]
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				values = append(values, v)
			}
		}
		if len(values) < 2 {
			continue
		}
		sort.Float64s(values)

		for k := 0; k+1 < len(values); k++ {
			threshold := (values[k] + values[k+1]) / 2

			leftCounts := make([]int, numClasses)
			rightCounts := make([]int, numClasses)
			leftN, rightN := 0, 0
			for _, i := range idx {
				if x[i][feature] <= threshold {
					leftCounts[y[i]]++
					leftN++
				} else {
					rightCounts[y[i]]++
					rightN++
				}
			}
			if leftN == 0 || rightN == 0 {
				continue
			}

			score := (float64(leftN)*gini(leftCounts, leftN) + float64(rightN)*gini(rightCounts, rightN)) / float64(leftN+rightN)
			if score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func gini(counts []int, total int) float64 {
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func pure(y []int, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}

func majority(y []int, idx []int, numClasses int) int {
	counts := make([]int, numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	best := 0
	for c := 1; c < len(counts); c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
