// Package engine runs the fixed-rate effect loop: each tick it samples the
// latest audio spectrum, drives the active effect over the spatial model,
// encodes the resulting colors and hands the frame to the stream session.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/effects"
	"github.com/dokzlo13/huestreamd/internal/protocol"
	"github.com/dokzlo13/huestreamd/internal/spatial"
	"github.com/dokzlo13/huestreamd/internal/stream"
)

// DefaultRateHz is the default tick rate. The bridge accepts 50-60 updates
// per second.
const DefaultRateHz = 50.0

// DefaultMaxFlashHz is the photosensitivity ceiling for full-brightness
// toggling effects.
const DefaultMaxFlashHz = 5.0

// ErrEffectTooFlashy is returned by SetEffect for effects that exceed the
// flash ceiling and cannot be clamped.
var ErrEffectTooFlashy = errors.New("effect flash frequency exceeds safety ceiling")

// Sender is the engine's view of the stream session.
type Sender interface {
	NextSequence() uint8
	Send(frame []byte) error
}

// SpectrumSource yields the latest audio snapshot without blocking.
type SpectrumSource interface {
	Load() audio.Spectrum
}

// Config holds engine construction parameters.
type Config struct {
	// ConfigID is the 36-byte entertainment configuration UUID.
	ConfigID string
	// Space selects the on-wire color representation.
	Space protocol.ColorSpace
	// RateHz is the tick rate; zero means DefaultRateHz.
	RateHz float64
	// MaxFlashHz is the flash safety ceiling; zero means DefaultMaxFlashHz.
	MaxFlashHz float64
}

// Engine owns the tick loop. The session transport is only written from the
// loop goroutine; the active effect may be swapped concurrently and takes
// hold at the next tick boundary.
type Engine struct {
	sender Sender
	model  *spatial.Model
	source SpectrumSource
	cfg    Config
	tick   time.Duration

	mu     sync.Mutex
	effect effects.Effect

	lastColors map[uint8]color.RGB
}

// New creates an engine. The configuration id is validated eagerly: a
// malformed id is a construction bug, not a per-tick condition.
func New(sender Sender, model *spatial.Model, source SpectrumSource, cfg Config) (*Engine, error) {
	if cfg.RateHz <= 0 {
		cfg.RateHz = DefaultRateHz
	}
	if cfg.MaxFlashHz <= 0 {
		cfg.MaxFlashHz = DefaultMaxFlashHz
	}
	// Probe-encode an empty frame so codec-level configuration errors
	// surface before the loop starts.
	if _, err := protocol.Encode(cfg.ConfigID, cfg.Space, 0, nil); err != nil {
		return nil, err
	}
	return &Engine{
		sender: sender,
		model:  model,
		source: source,
		cfg:    cfg,
		tick:   time.Duration(float64(time.Second) / cfg.RateHz),
	}, nil
}

// TickInterval returns the tick period.
func (e *Engine) TickInterval() time.Duration {
	return e.tick
}

// SetEffect atomically swaps the active effect, enforcing the flash safety
// ceiling first: clampable effects are clamped, everything else over the
// ceiling is rejected. The running tick finishes with the previous effect.
func (e *Engine) SetEffect(eff effects.Effect) error {
	if rater, ok := eff.(effects.FlashRater); ok && rater.FlashHz() > e.cfg.MaxFlashHz {
		limiter, ok := eff.(effects.FlashLimiter)
		if !ok {
			return fmt.Errorf("%w: %.1f Hz > %.1f Hz", ErrEffectTooFlashy, rater.FlashHz(), e.cfg.MaxFlashHz)
		}
		log.Warn().
			Float64("flash_hz", rater.FlashHz()).
			Float64("max_flash_hz", e.cfg.MaxFlashHz).
			Msg("Clamping effect flash frequency to safety ceiling")
		limiter.LimitFlashHz(e.cfg.MaxFlashHz)
	}

	e.mu.Lock()
	e.effect = eff
	e.mu.Unlock()
	return nil
}

// Run executes the tick loop until ctx is cancelled or the transport fails.
// On cancellation it flushes a blackout frame so the lights do not stay
// frozen on the last color. A nil return means a clean stop.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	log.Info().
		Float64("rate_hz", e.cfg.RateHz).
		Int("nodes", e.model.Len()).
		Str("config_id", e.cfg.ConfigID).
		Msg("Effect engine started")

	for {
		select {
		case <-ctx.Done():
			e.flushBlackout()
			return nil
		case <-ticker.C:
		}

		if err := e.tickOnce(); err != nil {
			return err
		}
	}
}

// tickOnce performs one update-encode-send cycle.
func (e *Engine) tickOnce() error {
	e.mu.Lock()
	eff := e.effect
	e.mu.Unlock()

	spec := e.source.Load()

	var colors map[uint8]color.RGB
	if eff != nil {
		colors = eff.Update(spec, e.model.Nodes())
	}

	// Keepalive: an empty mapping still produces a frame. Resend the last
	// colors, or blackout before any effect has produced output.
	if len(colors) == 0 {
		colors = e.lastColors
	}
	e.lastColors = colors

	frame, err := e.encode(colors)
	if err != nil {
		// Only an effect emitting channels outside the model or beyond
		// the channel budget lands here. Fatal: a misbehaving effect is
		// a bug, not a transient.
		return err
	}

	if err := e.sender.Send(frame); err != nil {
		var sendErr *stream.SendError
		if errors.As(err, &sendErr) && sendErr.Kind == stream.SendWouldBlock {
			log.Debug().Err(err).Msg("Frame send missed deadline, skipping tick")
			return nil
		}
		return fmt.Errorf("stream send failed: %w", err)
	}
	return nil
}

// encode turns a channel-color mapping into a wire frame, sorted by channel
// for deterministic output. Channels unknown to the model are dropped with a
// warning rather than sent.
func (e *Engine) encode(colors map[uint8]color.RGB) ([]byte, error) {
	channels := make([]uint8, 0, len(colors))
	for ch := range colors {
		if !e.model.HasChannel(ch) {
			log.Warn().Uint8("channel", ch).Msg("Effect produced color for unknown channel")
			continue
		}
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })

	entries := make([]protocol.ChannelEntry, 0, len(channels))
	for _, ch := range channels {
		entries = append(entries, e.entry(ch, colors[ch]))
	}
	return protocol.Encode(e.cfg.ConfigID, e.cfg.Space, e.sender.NextSequence(), entries)
}

func (e *Engine) entry(ch uint8, c color.RGB) protocol.ChannelEntry {
	if e.cfg.Space == protocol.ColorSpaceXY {
		x, y, bri := color.RGBToXY(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
		return protocol.ChannelEntry{
			Channel: ch,
			C1:      protocol.Normalize16(x),
			C2:      protocol.Normalize16(y),
			C3:      protocol.Normalize16(bri),
		}
	}
	return protocol.ChannelEntry{
		Channel: ch,
		C1:      protocol.Expand8(c.R),
		C2:      protocol.Expand8(c.G),
		C3:      protocol.Expand8(c.B),
	}
}

// flushBlackout sends one best-effort all-off frame on shutdown.
func (e *Engine) flushBlackout() {
	colors := make(map[uint8]color.RGB, e.model.Len())
	for _, n := range e.model.Nodes() {
		colors[n.Channel] = color.Black
	}
	frame, err := e.encode(colors)
	if err != nil {
		return
	}
	if err := e.sender.Send(frame); err != nil {
		log.Debug().Err(err).Msg("Blackout flush failed")
	}
	log.Info().Msg("Effect engine stopped")
}
