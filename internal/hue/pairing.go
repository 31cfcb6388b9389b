package hue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amimof/huego"
	"github.com/rs/zerolog/log"
)

// Pairing defaults: the link button stays pressed for about 30 seconds, so
// ten attempts five seconds apart cover the window comfortably.
const (
	pairAttempts = 10
	pairInterval = 5 * time.Second
)

// Credentials is the result of pairing with a bridge: the application key
// identifies the client on the REST API and as the DTLS PSK identity, the
// client key is the hex-encoded PSK itself.
type Credentials struct {
	Bridge    string `json:"bridge"`
	AppKey    string `json:"app_key"`
	ClientKey string `json:"client_key"`
}

// Discover finds bridges on the network via the cloud discovery endpoint.
func Discover(ctx context.Context) ([]huego.Bridge, error) {
	bridges, err := huego.DiscoverAllContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("bridge discovery failed: %w", err)
	}
	return bridges, nil
}

// Pair registers a new application on the bridge, retrying while the link
// button has not been pressed yet. devicetype shows up in the bridge's app
// list.
func Pair(ctx context.Context, host, devicetype string) (*Credentials, error) {
	bridge := huego.New(host, "")

	for attempt := 1; attempt <= pairAttempts; attempt++ {
		wl, err := bridge.CreateUserWithClientKeyContext(ctx, devicetype)
		if err == nil {
			log.Info().Str("bridge", host).Msg("Paired with bridge")
			return &Credentials{
				Bridge:    host,
				AppKey:    wl.Username,
				ClientKey: wl.ClientKey,
			}, nil
		}

		var apiErr *huego.APIError
		if !errors.As(err, &apiErr) || apiErr.Type != 101 {
			return nil, fmt.Errorf("pairing failed: %w", err)
		}

		// Error 101: link button not pressed.
		if attempt < pairAttempts {
			log.Info().
				Int("attempt", attempt).
				Int("max_attempts", pairAttempts).
				Msg("Link button not pressed, retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(pairInterval):
			}
		}
	}
	return nil, fmt.Errorf("pairing failed after %d attempts: link button not pressed", pairAttempts)
}
