package analysis

import (
	"strconv"

	"github.com/xtrntr/marketdash/internal/dataset"
)

// ReviewScoreDistribution counts reviews for every score from 1 to 5.
// Scores outside that range are ignored.
func ReviewScoreDistribution(ds *dataset.Dataset) []Count {
	out := make([]Count, 5)
	for i := range out {
		out[i].Label = strconv.Itoa(i + 1)
	}
	for _, r := range ds.Reviews {
		if r.Score >= 1 && r.Score <= 5 {
			out[r.Score-1].Count++
		}
	}
	return out
}

// AverageReviewScore is the mean of all valid review scores
func AverageReviewScore(ds *dataset.Dataset) (float64, error) {
	var sum, n int
	for _, r := range ds.Reviews {
		if r.Score >= 1 && r.Score <= 5 {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0, ErrEmpty
	}
	return float64(sum) / float64(n), nil
}
