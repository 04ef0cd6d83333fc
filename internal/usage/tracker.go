// Package usage accumulates token and quality statistics across chat requests.
package usage

import (
	"math"
	"sync"
)

// Snapshot is a point-in-time view of the accumulated statistics. Averages are
// rounded to the nearest integer and zero when no requests were recorded.
type Snapshot struct {
	RequestCount            int `json:"requestCount"`
	TotalTokens             int `json:"totalTokens"`
	AverageTokensPerRequest int `json:"averageTokensPerRequest"`
	AverageQualityScore     int `json:"averageQualityScore"`
}

// Tracker counts successful chat requests, their token spend, and their
// quality scores. It is an explicit object rather than package state so tests
// get a fresh tracker each.
type Tracker struct {
	mu           sync.Mutex
	requestCount int
	totalTokens  int
	totalQuality int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Record adds one completed request's token total and quality score.
func (t *Tracker) Record(totalTokens, qualityScore int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requestCount++
	t.totalTokens += totalTokens
	t.totalQuality += qualityScore
}

// Snapshot returns the current statistics.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		RequestCount: t.requestCount,
		TotalTokens:  t.totalTokens,
	}
	if t.requestCount > 0 {
		n := float64(t.requestCount)
		snap.AverageTokensPerRequest = int(math.Round(float64(t.totalTokens) / n))
		snap.AverageQualityScore = int(math.Round(float64(t.totalQuality) / n))
	}
	return snap
}

// Reset clears all accumulated statistics.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requestCount = 0
	t.totalTokens = 0
	t.totalQuality = 0
}
