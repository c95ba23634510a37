package pipeline

import (
	"sync"
	"time"

	"ttrpgconv/internal/ir"
)

// StageTiming records one stage's wall-clock duration.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// PipelineStats aggregates per-run timing and a per-category rollup of
// ConversionNotes (SPEC_FULL §10 item 2), so a caller can render a one-line
// health summary without re-scanning campaign.ConversionNotes. Counters are
// updated from fan-out stages under a mutex held only across the
// increment, never across a suspension point (spec §5).
type PipelineStats struct {
	mu sync.Mutex

	Timings      []StageTiming
	NoteCounts   map[ir.ConversionCategory]int
	AssetsFetched int
	AssetsDeduped int
}

// NewPipelineStats returns an empty, ready-to-use PipelineStats.
func NewPipelineStats() *PipelineStats {
	return &PipelineStats{NoteCounts: map[ir.ConversionCategory]int{}}
}

// RecordStage appends a stage's timing.
func (s *PipelineStats) RecordStage(stage string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Timings = append(s.Timings, StageTiming{Stage: stage, Duration: d})
}

// RecordNotes folds notes into the per-category rollup.
func (s *PipelineStats) RecordNotes(notes []ir.ConversionNote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		s.NoteCounts[n.Category]++
	}
}

// RecordAssets increments the fetched/deduped asset counters.
func (s *PipelineStats) RecordAssets(fetched, deduped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AssetsFetched += fetched
	s.AssetsDeduped += deduped
}

// TotalDuration sums every recorded stage's timing.
func (s *PipelineStats) TotalDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total time.Duration
	for _, t := range s.Timings {
		total += t.Duration
	}
	return total
}
