package bench

import "fmt"

// Metrics holds the binary classification metrics for one model on the
// held-out split. The positive class is the exclusion label (1).
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Evaluate computes accuracy and binary precision/recall/F1 against the
// true labels. Undefined ratios (no predicted or no actual positives)
// report 0 rather than NaN.
func Evaluate(yTrue, yPred []int) (Metrics, error) {
	if len(yTrue) == 0 {
		return Metrics{}, fmt.Errorf("no labels to evaluate")
	}
	if len(yTrue) != len(yPred) {
		return Metrics{}, fmt.Errorf("%d predictions for %d labels", len(yPred), len(yTrue))
	}

	var tp, fp, fn, correct int
	for i := range yTrue {
		if yPred[i] == yTrue[i] {
			correct++
		}
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			tp++
		case yPred[i] == 1 && yTrue[i] == 0:
			fp++
		case yPred[i] == 0 && yTrue[i] == 1:
			fn++
		}
	}

	m := Metrics{Accuracy: float64(correct) / float64(len(yTrue))}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m, nil
}
