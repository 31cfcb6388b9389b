package hue

// ResourceRef points at another v2 resource.
type ResourceRef struct {
	RID   string `json:"rid"`
	RType string `json:"rtype"`
}

// Position is a light's location in the entertainment area, normalized to
// [-1,1] per axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ChannelMember ties a channel to the service it drives.
type ChannelMember struct {
	Service ResourceRef `json:"service"`
	Index   int         `json:"index"`
}

// Channel is one streaming slot within an entertainment configuration.
type Channel struct {
	ChannelID uint8           `json:"channel_id"`
	Position  Position        `json:"position"`
	Members   []ChannelMember `json:"members"`
}

// Metadata carries the user-visible name.
type Metadata struct {
	Name string `json:"name"`
}

// EntertainmentConfiguration is a v2 entertainment area: the streaming
// target identified by its 36-character UUID.
type EntertainmentConfiguration struct {
	ID                string    `json:"id"`
	IDV1              string    `json:"id_v1"`
	Metadata          Metadata  `json:"metadata"`
	ConfigurationType string    `json:"configuration_type"`
	Status            string    `json:"status"`
	Channels          []Channel `json:"channels"`
}

// Active reports whether somebody is currently streaming to this
// configuration.
func (e *EntertainmentConfiguration) Active() bool {
	return e.Status == "active"
}
