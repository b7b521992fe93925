package protocol

// Client -> Server. First message on the observer WS connection; may be
// re-sent to update settings.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// EveryTicks throttles the stream (0 = every tick).
	EveryTicks int `json:"every_ticks,omitempty"`
}

// HTTP response for GET /v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	BattleID        string      `json:"battle_id"`
	Tick            uint64      `json:"tick"`
	WorldParams     WorldParams `json:"world_params"`
	RulesDigest     string      `json:"rules_digest"`
	// TerrainRLE is the blocked-cell bitmap, row-major, run-length
	// encoded (see internal/sim/encoding). Empty on open maps.
	TerrainRLE string `json:"terrain_rle,omitempty"`
}

type WorldParams struct {
	TickRateHz int     `json:"tick_rate_hz"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Seed       int64   `json:"seed"`
	FlightCeil float64 `json:"flight_ceiling"`
}

// Server -> Client. Sent every subscribed tick.
type TickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Digest          string `json:"digest"`

	Entities []EntityState `json:"entities"`
	Spawns   []Spawn       `json:"spawns,omitempty"`
	Orders   []Order       `json:"orders,omitempty"`
}

// EntityState is the renderer-facing view of one entity: read-only, no
// feedback into the simulation.
type EntityState struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	House string `json:"house"`
	Class string `json:"class"`

	Pos    [2]float64 `json:"pos"`
	Facing int        `json:"facing"`
	Body32 int        `json:"body_facing32"`
	Tur32  int        `json:"turret_facing32"`

	HP      int    `json:"hp"`
	MaxHP   int    `json:"max_hp"`
	Alive   bool   `json:"alive"`
	Mission string `json:"mission"`

	Anim      string `json:"anim"`
	AnimFrame int    `json:"anim_frame"`
	Flash     bool   `json:"flash,omitempty"`

	Kills int `json:"kills,omitempty"`

	// Aircraft only.
	Altitude    float64 `json:"altitude,omitempty"`
	FlightState string  `json:"flight_state,omitempty"`
	Ammo        int     `json:"ammo,omitempty"`
}
