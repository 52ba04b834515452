package forest

import "math"

// Standardize returns a copy of the matrix with each column centered on
// its batch mean and divided by its batch (population) standard deviation.
// A zero-variance column is left at zero after centering. Statistics are
// computed fresh from the given batch and never reused.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dims := len(rows[0])
	n := float64(len(rows))

	means := make([]float64, dims)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}

	stds := make([]float64, dims)
	for _, row := range rows {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
	}

	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, dims)
		for j, v := range row {
			if stds[j] > 0 {
				scaled[j] = (v - means[j]) / stds[j]
			}
		}
		out[i] = scaled
	}
	return out
}
