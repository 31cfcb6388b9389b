package app

import (
	"context"
	"fmt"

	"github.com/dokzlo13/huestreamd/internal/config"
	"github.com/dokzlo13/huestreamd/internal/db"
	"github.com/dokzlo13/huestreamd/internal/hue"
	"github.com/dokzlo13/huestreamd/internal/state"
)

// CredentialsKind is the state store kind under which pairing credentials
// are persisted by the pair command.
const CredentialsKind = "credentials"

// CredentialsID is the state store document id for the default bridge.
const CredentialsID = "default"

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB    *db.DB
	Store *state.Store

	// Persisted pairing credentials
	Credentials *state.TypedStore[hue.Credentials]

	// High-level services
	Hue    *hue.Client
	Stream *StreamService
	Health *HealthService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Initialize database
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	// Initialize generic state store
	s.Store = state.NewStore(database.DB)
	s.Credentials = state.NewTypedStore[hue.Credentials](s.Store, CredentialsKind)

	// Resolve bridge credentials: config values win, stored pairing fills gaps
	creds, err := s.ResolveCredentials()
	if err != nil {
		s.Close()
		return nil, err
	}

	// Initialize Hue REST client
	s.Hue = hue.NewClient(creds.Bridge, creds.AppKey, cfg.Hue.Timeout.Duration(), cfg.Hue.RateLimitRPS)

	// Initialize stream service
	s.Stream = NewStreamService(cfg, s.Hue, creds)

	// Initialize health service
	s.Health = NewHealthService(cfg)

	return s, nil
}

// ResolveCredentials merges configured credentials with the stored pairing.
// Explicit config values take precedence.
func (s *Services) ResolveCredentials() (hue.Credentials, error) {
	creds := hue.Credentials{
		Bridge:    s.cfg.Hue.Bridge,
		AppKey:    s.cfg.Hue.AppKey,
		ClientKey: s.cfg.Hue.ClientKey,
	}

	if creds.Bridge != "" && creds.AppKey != "" && creds.ClientKey != "" {
		return creds, nil
	}

	stored, found, err := s.Credentials.Get(CredentialsID)
	if err != nil {
		return creds, err
	}
	if found {
		if creds.Bridge == "" {
			creds.Bridge = stored.Bridge
		}
		if creds.AppKey == "" {
			creds.AppKey = stored.AppKey
		}
		if creds.ClientKey == "" {
			creds.ClientKey = stored.ClientKey
		}
	}

	if creds.Bridge == "" || creds.AppKey == "" || creds.ClientKey == "" {
		return creds, fmt.Errorf("no bridge credentials: configure hue.bridge/app_key/client_key or run the pair command")
	}
	return creds, nil
}

// Start starts all services in the correct order.
// The onFatalError callback is called when a fatal error occurs (e.g., the
// streaming transport dies).
func (s *Services) Start(ctx context.Context, onFatalError func(error)) error {
	// Verify bridge connectivity before touching the entertainment API
	if err := s.Hue.Connect(ctx); err != nil {
		return err
	}

	if err := s.Stream.Start(ctx, onFatalError); err != nil {
		return err
	}

	s.Health.Start(ctx)

	return nil
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	if s.Stream != nil {
		s.Stream.Stop(s.cfg.ShutdownTimeout.Duration())
	}
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Hue != nil {
		s.Hue.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
