package selection

import (
	"math/rand"
	"sort"
)

// treeConfig carries the hyperparameters of a single CART tree inside the
// forest. Class weights counter label imbalance: every sample of class c
// contributes classWeights[c] instead of 1 to counts and impurities.
type treeConfig struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	classWeights    [2]float64
}

// decisionTree is a binary CART classifier over a numeric feature matrix.
// Splits minimize class-weighted gini impurity; per-feature importances
// accumulate the weighted impurity decrease of every accepted split.
type decisionTree struct {
	cfg         treeConfig
	root        *treeNode
	importances []float64
	rootWeight  float64
}

type treeNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode

	// leaf payload: weighted probability of the positive class
	proba float64
}

// valuePair pairs a feature value with its sample index for threshold scans.
type valuePair struct {
	v float64
	i int
}

type splitCandidate struct {
	feature   int
	threshold float64
	gain      float64
	leftIdx   []int
	rightIdx  []int
}

// fit builds the tree over the bootstrap sample identified by idx.
func (t *decisionTree) fit(X [][]float64, y []int, idx []int, rnd *rand.Rand) {
	t.importances = make([]float64, len(X[0]))
	t.rootWeight = t.weightOf(y, idx)
	t.root = t.buildNode(X, y, idx, 0, rnd)
}

func (t *decisionTree) buildNode(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *treeNode {
	w0, w1 := t.classCounts(y, idx)

	if w0 == 0 || w1 == 0 ||
		len(idx) < t.cfg.minSamplesSplit ||
		(t.cfg.maxDepth > 0 && depth >= t.cfg.maxDepth) {
		return leafNode(w0, w1)
	}

	best := t.findBestSplit(X, y, idx, rnd)
	if best.feature < 0 || best.gain <= 0 {
		return leafNode(w0, w1)
	}

	t.importances[best.feature] += (w0 + w1) / t.rootWeight * best.gain

	node := &treeNode{feature: best.feature, threshold: best.threshold}
	node.left = t.buildNode(X, y, best.leftIdx, depth+1, rnd)
	node.right = t.buildNode(X, y, best.rightIdx, depth+1, rnd)
	return node
}

// findBestSplit scans a random feature subset for the threshold with the
// highest weighted-gini gain.
func (t *decisionTree) findBestSplit(X [][]float64, y []int, idx []int, rnd *rand.Rand) splitCandidate {
	p := len(X[0])
	featIndices := make([]int, p)
	for j := range featIndices {
		featIndices[j] = j
	}
	if t.cfg.maxFeatures > 0 && t.cfg.maxFeatures < p {
		for i := 0; i < t.cfg.maxFeatures; i++ {
			j := i + rnd.Intn(p-i)
			featIndices[i], featIndices[j] = featIndices[j], featIndices[i]
		}
		featIndices = featIndices[:t.cfg.maxFeatures]
	}

	w0, w1 := t.classCounts(y, idx)
	parentWeight := w0 + w1
	parentImpurity := gini(w0, w1)

	best := splitCandidate{feature: -1}
	pairs := make([]valuePair, len(idx))

	for _, f := range featIndices {
		for k, ii := range idx {
			pairs[k] = valuePair{X[ii][f], ii}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		// Scan split points between distinct values, maintaining running
		// weighted class counts on the left side.
		var l0, l1 float64
		for s := 1; s < len(pairs); s++ {
			w := t.cfg.classWeights[y[pairs[s-1].i]]
			if y[pairs[s-1].i] == 0 {
				l0 += w
			} else {
				l1 += w
			}
			if pairs[s].v == pairs[s-1].v {
				continue
			}
			if s < t.cfg.minSamplesLeaf || len(pairs)-s < t.cfg.minSamplesLeaf {
				continue
			}

			r0, r1 := w0-l0, w1-l1
			weighted := (l0+l1)/parentWeight*gini(l0, l1) + (r0+r1)/parentWeight*gini(r0, r1)
			gain := parentImpurity - weighted
			if gain > best.gain {
				thr := (pairs[s-1].v + pairs[s].v) / 2
				best = splitCandidate{
					feature:   f,
					threshold: thr,
					gain:      gain,
					leftIdx:   indicesBelow(pairs, s),
					rightIdx:  indicesFrom(pairs, s),
				}
			}
		}
	}
	return best
}

// predictProba returns the positive-class probability for one sample.
func (t *decisionTree) predictProba(x []float64) float64 {
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.proba
}

func (t *decisionTree) classCounts(y []int, idx []int) (w0, w1 float64) {
	for _, ii := range idx {
		if y[ii] == 0 {
			w0 += t.cfg.classWeights[0]
		} else {
			w1 += t.cfg.classWeights[1]
		}
	}
	return w0, w1
}

func (t *decisionTree) weightOf(y []int, idx []int) float64 {
	w0, w1 := t.classCounts(y, idx)
	return w0 + w1
}

func leafNode(w0, w1 float64) *treeNode {
	proba := 0.0
	if w0+w1 > 0 {
		proba = w1 / (w0 + w1)
	}
	return &treeNode{isLeaf: true, proba: proba}
}

// gini computes the weighted two-class gini impurity.
func gini(w0, w1 float64) float64 {
	total := w0 + w1
	if total == 0 {
		return 0
	}
	p0, p1 := w0/total, w1/total
	return 1 - p0*p0 - p1*p1
}

func indicesBelow(pairs []valuePair, s int) []int {
	out := make([]int, s)
	for k := 0; k < s; k++ {
		out[k] = pairs[k].i
	}
	return out
}

func indicesFrom(pairs []valuePair, s int) []int {
	out := make([]int, len(pairs)-s)
	for k := s; k < len(pairs); k++ {
		out[k-s] = pairs[k].i
	}
	return out
}
