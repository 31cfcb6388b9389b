// Package audio extracts normalized audio features for the effect engine.
//
// A background extractor analyzes the configured source and publishes the
// most recent Spectrum into a single-slot snapshot cell. The engine reads
// whatever is there on each tick; freshness wins over completeness, so there
// is deliberately no queue between producer and consumer.
package audio

import "sync"

// Spectrum is one analysis snapshot. All values are normalized to [0,1].
type Spectrum struct {
	Bass   float64
	Mids   float64
	Highs  float64
	Energy float64
}

// Snapshot is a single-slot cell holding the latest Spectrum. Store replaces
// the previous value; Load never blocks and returns the zero Spectrum until
// the first Store.
type Snapshot struct {
	mu  sync.RWMutex
	cur Spectrum
}

// Store replaces the current snapshot.
func (s *Snapshot) Store(v Spectrum) {
	s.mu.Lock()
	s.cur = v
	s.mu.Unlock()
}

// Load returns the current snapshot.
func (s *Snapshot) Load() Spectrum {
	s.mu.RLock()
	v := s.cur
	s.mu.RUnlock()
	return v
}
