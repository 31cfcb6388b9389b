package hue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// GetEntertainmentConfigurations lists all entertainment areas on the bridge.
func (c *Client) GetEntertainmentConfigurations(ctx context.Context) ([]EntertainmentConfiguration, error) {
	return getJSON[EntertainmentConfiguration](ctx, c, "resource/entertainment_configuration")
}

// GetEntertainmentConfiguration fetches one entertainment area by UUID.
func (c *Client) GetEntertainmentConfiguration(ctx context.Context, id string) (*EntertainmentConfiguration, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid entertainment configuration id %q: %w", id, err)
	}

	configs, err := getJSON[EntertainmentConfiguration](ctx, c, "resource/entertainment_configuration/"+id)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("entertainment configuration %q not found", id)
	}
	return &configs[0], nil
}

// SetStreamAction starts or stops streaming mode on an entertainment
// configuration. The bridge opens its DTLS port only while streaming is
// active, so start must precede the session handshake.
func (c *Client) SetStreamAction(ctx context.Context, id string, start bool) error {
	action := "stop"
	if start {
		action = "start"
	}

	body := strings.NewReader(fmt.Sprintf(`{"action":%q}`, action))
	resp, err := c.request(ctx, "PUT", "resource/entertainment_configuration/"+id, body)
	if err != nil {
		return fmt.Errorf("failed to set stream action: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stream %s rejected by bridge (%d): %s", action, resp.StatusCode, string(data))
	}

	log.Info().Str("config_id", id).Str("action", action).Msg("Stream mode updated")
	return nil
}

// Nodes converts an entertainment configuration's channels into the ordered
// light node list consumed by the spatial model.
func Nodes(cfg *EntertainmentConfiguration) ([]spatial.LightNode, error) {
	nodes := make([]spatial.LightNode, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		restID := ""
		if len(ch.Members) > 0 {
			restID = ch.Members[0].Service.RID
		}
		nodes = append(nodes, spatial.LightNode{
			Channel: ch.ChannelID,
			RestID:  restID,
			X:       ch.Position.X,
			Y:       ch.Position.Y,
			Z:       ch.Position.Z,
		})
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("entertainment configuration %q has no channels", cfg.ID)
	}
	return nodes, nil
}
