// Package cluster implements the centroid clustering that splits
// respondents into the two engagement groups, plus the rule that decides
// which of the two clusters carries the "excluded" label.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

// Config holds the clustering knobs. The seed fixes centroid
// initialization so repeated runs over the same table assign identical
// cluster ids.
type Config struct {
	Seed          int64
	MaxIterations int
	Tolerance     float64
}

// DefaultConfig returns the standard clustering configuration.
func DefaultConfig() Config {
	return Config{
		Seed:          42,
		MaxIterations: 300,
		Tolerance:     1e-6,
	}
}

// KMeans partitions points into k groups by iterative centroid refinement,
// minimizing within-cluster squared Euclidean distance.
type KMeans struct {
	k         int
	cfg       Config
	centroids [][]float64
	inertia   float64
	fitted    bool
}

// NewKMeans creates an unfitted clusterer for k groups.
func NewKMeans(k int, cfg Config) *KMeans {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.Tolerance < 0 {
		cfg.Tolerance = DefaultConfig().Tolerance
	}
	return &KMeans{k: k, cfg: cfg}
}

// Fit clusters X and returns one cluster id per row. Initialization is
// k-means++ with the configured seed; iteration stops when every centroid
// moves less than the tolerance, when assignments stop changing, or at the
// iteration cap.
func (m *KMeans) Fit(X [][]float64) ([]int, error) {
	if err := validateMatrix(X); err != nil {
		return nil, err
	}
	n, d := len(X), len(X[0])
	if n < m.k {
		return nil, fmt.Errorf("%d rows for %d clusters", n, m.k)
	}
	if m.k < 1 {
		return nil, fmt.Errorf("cluster count %d, want at least 1", m.k)
	}

	rng := rand.New(rand.NewSource(m.cfg.Seed))
	m.centroids = m.seedCentroids(X, rng)

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for it := 0; it < m.cfg.MaxIterations; it++ {
		changed := false
		for i, x := range X {
			best, _ := m.nearest(x)
			if assign[i] != best {
				changed = true
				assign[i] = best
			}
		}

		sums := make([][]float64, m.k)
		counts := make([]int, m.k)
		for c := range sums {
			sums[c] = make([]float64, d)
		}
		for i, x := range X {
			c := assign[i]
			counts[c]++
			for j, v := range x {
				sums[c][j] += v
			}
		}

		maxShift := 0.0
		for c := 0; c < m.k; c++ {
			if counts[c] == 0 {
				// Reseat an empty cluster on the point farthest from its
				// current centroid so the run still yields k groups.
				far := farthestPoint(X, assign, m.centroids)
				copy(m.centroids[c], X[far])
				assign[far] = c
				changed = true
				continue
			}
			shift := 0.0
			for j := 0; j < d; j++ {
				mean := sums[c][j] / float64(counts[c])
				delta := mean - m.centroids[c][j]
				shift += delta * delta
				m.centroids[c][j] = mean
			}
			if shift > maxShift {
				maxShift = shift
			}
		}

		if !changed || math.Sqrt(maxShift) < m.cfg.Tolerance {
			break
		}
	}

	m.inertia = 0
	for i, x := range X {
		best, dist := m.nearest(x)
		assign[i] = best
		m.inertia += dist
	}
	m.fitted = true
	return assign, nil
}

// Predict returns the cluster id of the centroid nearest to x.
func (m *KMeans) Predict(x []float64) (int, error) {
	if !m.fitted {
		return 0, fmt.Errorf("clusterer is not fitted")
	}
	if len(x) != len(m.centroids[0]) {
		return 0, fmt.Errorf("point has %d features, centroids have %d", len(x), len(m.centroids[0]))
	}
	best, _ := m.nearest(x)
	return best, nil
}

// Centroids returns a copy of the fitted centroids.
func (m *KMeans) Centroids() [][]float64 {
	out := make([][]float64, len(m.centroids))
	for i, c := range m.centroids {
		out[i] = append([]float64(nil), c...)
	}
	return out
}

// Inertia returns the sum of squared distances from each fitted point to
// its assigned centroid.
func (m *KMeans) Inertia() float64 { return m.inertia }

// K returns the configured cluster count.
func (m *KMeans) K() int { return m.k }

// nearest returns the closest centroid index and the squared distance.
// Ties keep the lowest index, which keeps assignments deterministic.
func (m *KMeans) nearest(x []float64) (int, float64) {
	best, bestDist := 0, math.MaxFloat64
	for c, centroid := range m.centroids {
		if dist := squaredDistance(x, centroid); dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best, bestDist
}

// seedCentroids runs k-means++ initialization: the first centroid is a
// uniformly random point, each further centroid is sampled proportionally
// to its squared distance from the nearest already-chosen centroid.
func (m *KMeans) seedCentroids(X [][]float64, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, m.k)
	centroids = append(centroids, append([]float64(nil), X[rng.Intn(len(X))]...))

	distSq := make([]float64, len(X))
	for len(centroids) < m.k {
		total := 0.0
		for i, x := range X {
			minDist := math.MaxFloat64
			for _, c := range centroids {
				if dist := squaredDistance(x, c); dist < minDist {
					minDist = dist
				}
			}
			distSq[i] = minDist
			total += minDist
		}

		if total == 0 {
			// All remaining points coincide with a centroid; duplicate one.
			centroids = append(centroids, append([]float64(nil), X[0]...))
			continue
		}

		r := rng.Float64() * total
		cumulative := 0.0
		next := len(X) - 1
		for i, dist := range distSq {
			cumulative += dist
			if cumulative >= r {
				next = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), X[next]...))
	}
	return centroids
}

// farthestPoint returns the index of the point with the largest squared
// distance to its assigned centroid. Ties keep the lowest index.
func farthestPoint(X [][]float64, assign []int, centroids [][]float64) int {
	far, farDist := 0, -1.0
	for i, x := range X {
		if dist := squaredDistance(x, centroids[assign[i]]); dist > farDist {
			far, farDist = i, dist
		}
	}
	return far
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		delta := a[i] - b[i]
		sum += delta * delta
	}
	return sum
}

func validateMatrix(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("empty input")
	}
	d := len(X[0])
	if d == 0 {
		return fmt.Errorf("rows have no features")
	}
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("ragged matrix: row %d has %d features, want %d", i, len(row), d)
		}
	}
	return nil
}
