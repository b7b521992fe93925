package protocol

// Order kinds accepted by the world inbox. Scenario scripting and the
// replay tool both speak this type.
const (
	OrderMove      = "MOVE"
	OrderAttack    = "ATTACK"
	OrderHunt      = "HUNT"
	OrderGuard     = "GUARD"
	OrderAreaGuard = "AREA_GUARD"
	OrderSleep     = "SLEEP"
	OrderStop      = "STOP"
)

// Order reassigns a unit's mission. Zero-valued optional fields mean
// "not supplied"; TargetID 0 is never a valid entity id.
type Order struct {
	UnitID   int       `json:"unit_id"`
	Kind     string    `json:"kind"`
	TargetID int       `json:"target_id,omitempty"`
	Pos      []float64 `json:"pos,omitempty"` // [x,y], cells
}

// CommandMsg is one operator input on the command WS connection: exactly
// one of Spawn or Order is set, matching Type.
type CommandMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Spawn           *Spawn `json:"spawn,omitempty"`
	Order           *Order `json:"order,omitempty"`
}

// AckMsg confirms a command. EntityID is set for spawns once the world
// has assigned an id.
type AckMsg struct {
	Type     string `json:"type"`
	Tick     uint64 `json:"tick"`
	EntityID int    `json:"entity_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Spawn requests a new entity at the next tick boundary.
type Spawn struct {
	Type    string  `json:"type"`
	House   string  `json:"house"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Mission string  `json:"mission,omitempty"`
}
