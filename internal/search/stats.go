package search

import (
	"math"
	"time"
)

// Stats is the aggregate view over the resident index. LastBuildAt is the
// zero time when the index has never been built; it is the only staleness
// signal this service exposes.
type Stats struct {
	TotalDocuments int       `json:"total_documents"`
	DistinctBrands int       `json:"distinct_brands"`
	FiveGCount     int       `json:"five_g_count"`
	AveragePrice   int       `json:"average_price"`
	LastBuildAt    time.Time `json:"last_build_at"`
}

// Stats aggregates over the current index snapshot. All counters are zero
// for an empty or never-built index; the average avoids dividing by zero.
func (e *Engine) Stats() Stats {
	docs, builtAt := e.store.Snapshot()

	brands := make(map[string]struct{})
	fiveG := 0
	priceSum := 0
	for _, doc := range docs {
		brands[doc.Brand] = struct{}{}
		if doc.FiveG {
			fiveG++
		}
		priceSum += doc.Price
	}

	avg := 0
	if len(docs) > 0 {
		avg = int(math.Round(float64(priceSum) / float64(len(docs))))
	}

	return Stats{
		TotalDocuments: len(docs),
		DistinctBrands: len(brands),
		FiveGCount:     fiveG,
		AveragePrice:   avg,
		LastBuildAt:    builtAt,
	}
}
