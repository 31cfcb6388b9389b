package audio

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Extractor runs the analysis loop on its own goroutine: read a block from
// the source, analyze it, publish the result into the snapshot cell. File
// sources are paced to real time so a whole file is not consumed at once.
//
// Analysis errors are logged and the previous snapshot stays in place; only
// source exhaustion or cancellation stops the loop.
type Extractor struct {
	source   Source
	analyzer *Analyzer
	snap     *Snapshot
	block    int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewExtractor wires a source and analyzer to a snapshot cell. blockSize is
// the number of samples analyzed per iteration.
func NewExtractor(source Source, analyzer *Analyzer, snap *Snapshot, blockSize int) *Extractor {
	if blockSize <= 0 {
		blockSize = 1024
	}
	return &Extractor{
		source:   source,
		analyzer: analyzer,
		snap:     snap,
		block:    blockSize,
	}
}

// Start launches the extraction loop.
func (e *Extractor) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	e.wg.Add(1)
	go e.run(ctx)
}

// Stop cancels the loop and waits for it to exit, then closes the source.
func (e *Extractor) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	if err := e.source.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close audio source")
	}
}

func (e *Extractor) run(ctx context.Context) {
	defer e.wg.Done()

	// Pace analysis to the block's real-time duration.
	interval := time.Duration(float64(e.block) / e.source.SampleRate() * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	buf := make([]float64, e.block)

	log.Info().
		Float64("sample_rate", e.source.SampleRate()).
		Int("block", e.block).
		Dur("interval", interval).
		Msg("Audio extractor started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		n, err := e.source.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Msg("Audio source exhausted, holding zero spectrum")
				e.snap.Store(Spectrum{})
				return
			}
			log.Warn().Err(err).Msg("Audio read failed, keeping previous snapshot")
			continue
		}

		spec, err := e.analyzer.Process(buf[:n])
		if err != nil {
			log.Warn().Err(err).Msg("Audio analysis failed, keeping previous snapshot")
			continue
		}
		e.snap.Store(spec)
	}
}
