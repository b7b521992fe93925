// Package protocol defines the wire types shared by the tick log, the
// replay tool, and the observer stream. The simulation core never marshals
// these itself; the world builds them and transports/persistence encode them.
package protocol

// Version is the observer/tick-log protocol version.
const Version = "1.0"

// Message type tags.
const (
	TypeTick      = "TICK"
	TypeSubscribe = "SUBSCRIBE"
	TypeSpawn     = "SPAWN"
	TypeOrder     = "ORDER"
	TypeAck       = "ACK"
)
