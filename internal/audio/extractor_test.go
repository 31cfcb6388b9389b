package audio

import (
	"context"
	"testing"
	"time"
)

func TestExtractor_SilencePublishesZeroSpectrum(t *testing.T) {
	analyzer, err := NewAnalyzer(512, 44100)
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}

	snap := &Snapshot{}
	// Pre-load a non-zero spectrum so the test observes the extractor
	// actually overwriting the cell, not just its zero value.
	snap.Store(Spectrum{Bass: 0.9, Mids: 0.9, Highs: 0.9, Energy: 0.9})

	// 441 samples at 44.1 kHz gives a 10 ms analysis interval.
	ext := NewExtractor(NewSilence(44100), analyzer, snap, 441)
	ext.Start(context.Background())

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if (snap.Load() == Spectrum{}) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	ext.Stop()

	if got := snap.Load(); got != (Spectrum{}) {
		t.Errorf("spectrum = %+v, want zero for silent source", got)
	}
}
