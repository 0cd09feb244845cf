package bench

import (
	"fmt"
	"math"
	"math/rand"
)

// Split partitions row indices 0..n-1 into train and test sets using a
// seeded permutation. The test set takes the first ceil(n*testFraction)
// permuted rows; both sides keep ascending index order so downstream
// iteration is stable.
func Split(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("%d rows cannot be split", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %v, want in (0,1)", testFraction)
	}

	testSize := int(math.Ceil(testFraction * float64(n)))
	if testSize >= n {
		testSize = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	inTest := make([]bool, n)
	for _, i := range perm[:testSize] {
		inTest[i] = true
	}

	train = make([]int, 0, n-testSize)
	test = make([]int, 0, testSize)
	for i := 0; i < n; i++ {
		if inTest[i] {
			test = append(test, i)
		} else {
			train = append(train, i)
		}
	}
	return train, test, nil
}

// Select gathers the rows of X at the given indices.
func Select(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, row := range idx {
		out[i] = X[row]
	}
	return out
}

// SelectLabels gathers the labels at the given indices.
func SelectLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, row := range idx {
		out[i] = y[row]
	}
	return out
}
