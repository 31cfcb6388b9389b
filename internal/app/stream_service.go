package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/config"
	"github.com/dokzlo13/huestreamd/internal/engine"
	"github.com/dokzlo13/huestreamd/internal/hue"
	"github.com/dokzlo13/huestreamd/internal/protocol"
	"github.com/dokzlo13/huestreamd/internal/spatial"
	"github.com/dokzlo13/huestreamd/internal/stream"
)

// StreamService owns the full streaming pipeline: entertainment configuration
// lookup, the DTLS session, the audio extractor and the effect engine.
type StreamService struct {
	cfg    *config.Config
	client *hue.Client
	creds  hue.Credentials

	configID  string
	session   *stream.Session
	extractor *audio.Extractor

	running bool
	done    chan struct{}
}

// NewStreamService creates a new StreamService.
func NewStreamService(cfg *config.Config, client *hue.Client, creds hue.Credentials) *StreamService {
	return &StreamService{
		cfg:    cfg,
		client: client,
		creds:  creds,
		done:   make(chan struct{}),
	}
}

// Start resolves the entertainment configuration, activates streaming on the
// bridge, establishes the DTLS session and launches the engine loop.
func (s *StreamService) Start(ctx context.Context, onFatalError func(error)) error {
	entCfg, err := s.resolveConfiguration(ctx)
	if err != nil {
		return err
	}
	s.configID = entCfg.ID

	nodes, err := hue.Nodes(entCfg)
	if err != nil {
		return err
	}
	model, err := spatial.NewModel(nodes)
	if err != nil {
		return err
	}

	log.Info().
		Str("config_id", entCfg.ID).
		Str("name", entCfg.Metadata.Name).
		Int("nodes", model.Len()).
		Msg("Using entertainment configuration")

	space, err := parseColorSpace(s.cfg.Stream.ColorSpace)
	if err != nil {
		return err
	}

	snapshot := &audio.Snapshot{}
	src, err := newAudioSource(&s.cfg.Audio)
	if err != nil {
		return err
	}
	analyzer, err := audio.NewAnalyzer(s.cfg.Audio.FFTSize, src.SampleRate())
	if err != nil {
		src.Close()
		return err
	}
	s.extractor = audio.NewExtractor(src, analyzer, snapshot, s.cfg.Audio.FFTSize)

	// The bridge only accepts DTLS handshakes while the configuration is in
	// streaming mode, so activate it first.
	if err := s.client.SetStreamAction(ctx, entCfg.ID, true); err != nil {
		return err
	}

	session, err := stream.Dial(ctx, s.creds.Bridge, s.creds.AppKey, s.creds.ClientKey, stream.Options{
		HandshakeTimeout: s.cfg.Stream.HandshakeTimeout.Duration(),
		SendTimeout:      s.cfg.Stream.SendTimeout.Duration(),
	})
	if err != nil {
		s.deactivate(entCfg.ID)
		return err
	}
	s.session = session

	eng, err := engine.New(session, model, snapshot, engine.Config{
		ConfigID:   entCfg.ID,
		Space:      space,
		RateHz:     s.cfg.Stream.RateHz,
		MaxFlashHz: s.cfg.Effect.MaxFlashHz,
	})
	if err != nil {
		session.Close()
		s.deactivate(entCfg.ID)
		return err
	}
	effect, err := BuildEffect(&s.cfg.Effect, s.cfg.Stream.RateHz)
	if err != nil {
		session.Close()
		s.deactivate(entCfg.ID)
		return err
	}
	if err := eng.SetEffect(effect); err != nil {
		session.Close()
		s.deactivate(entCfg.ID)
		return err
	}

	s.extractor.Start(ctx)

	s.running = true
	go func() {
		defer close(s.done)
		if err := eng.Run(ctx); err != nil {
			onFatalError(err)
		}
	}()

	return nil
}

// resolveConfiguration returns the configured entertainment configuration, or
// the first available one when none is configured.
func (s *StreamService) resolveConfiguration(ctx context.Context) (*hue.EntertainmentConfiguration, error) {
	if id := s.cfg.Hue.EntertainmentConfig; id != "" {
		return s.client.GetEntertainmentConfiguration(ctx, id)
	}

	configs, err := s.client.GetEntertainmentConfigurations(ctx)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("bridge has no entertainment configurations")
	}
	if len(configs) > 1 {
		log.Warn().
			Int("count", len(configs)).
			Str("selected", configs[0].Metadata.Name).
			Msg("Multiple entertainment configurations, using the first")
	}
	return &configs[0], nil
}

// Stop waits for the engine loop to flush its blackout frame, then tears down
// the session and deactivates streaming on the bridge.
func (s *StreamService) Stop(timeout time.Duration) {
	if s.running {
		select {
		case <-s.done:
		case <-time.After(timeout):
			log.Warn().Msg("Timed out waiting for engine loop to stop")
		}
	}

	if s.extractor != nil {
		s.extractor.Stop()
	}
	if s.session != nil {
		if err := s.session.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close streaming session")
		}
	}
	if s.configID != "" {
		s.deactivate(s.configID)
	}
}

// deactivate tells the bridge to leave streaming mode. It uses its own
// timeout since the app context is usually already cancelled here.
func (s *StreamService) deactivate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Hue.Timeout.Duration())
	defer cancel()
	if err := s.client.SetStreamAction(ctx, id, false); err != nil {
		log.Error().Err(err).Str("config_id", id).Msg("Failed to deactivate streaming")
	} else {
		log.Info().Str("config_id", id).Msg("Streaming deactivated")
	}
}

// silenceSampleRate paces the extractor when no audio file is configured.
const silenceSampleRate = 44100

// newAudioSource returns the configured WAV file source, or a silent source
// when audio is disabled so the extractor still publishes a (zero) spectrum.
func newAudioSource(cfg *config.AudioConfig) (audio.Source, error) {
	if !cfg.Enabled {
		return audio.NewSilence(silenceSampleRate), nil
	}
	return audio.OpenWAV(cfg.File)
}

func parseColorSpace(name string) (protocol.ColorSpace, error) {
	switch name {
	case "rgb":
		return protocol.ColorSpaceRGB, nil
	case "xy":
		return protocol.ColorSpaceXY, nil
	default:
		return 0, fmt.Errorf("unknown color space %q (want rgb or xy)", name)
	}
}
