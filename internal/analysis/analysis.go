// Package analysis computes the descriptive aggregates shown on the dashboard.
//
// Every function is a pure read over a *dataset.Dataset. Joins are inner
// joins built per call; rows whose key finds no partner are dropped from
// that computation only. Empty categorical values are treated as missing
// and never form a group of their own.
package analysis

import (
	"errors"
	"sort"
)

// ErrEmpty is returned by a metric that has no rows to aggregate
var ErrEmpty = errors.New("no data to aggregate")

// Count is the number of rows sharing a label
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stat is a numeric value attached to a label
type Stat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Bin is one histogram bucket covering [Low, High).
// The last bucket also includes High.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// valueCounts counts rows per key, most frequent first.
// Equal counts keep the order in which their keys first appeared.
func valueCounts[T any](rows []T, key func(T) string) []Count {
	index := make(map[string]int)
	var out []Count
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Count{Label: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// head returns at most the first n elements of s
func head[T any](s []T, n int) []T {
	if n >= 0 && n < len(s) {
		return s[:n]
	}
	return s
}

// Histogram splits values into equal-width bins over [min, max].
// When every value is equal a single bin holds them all.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}
