package ws

import (
	"context"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ironfront.gg/internal/protocol"
	"ironfront.gg/internal/sim/rules"
	"ironfront.gg/internal/sim/tuning"
	"ironfront.gg/internal/sim/world"
)

func dialTestServer(t *testing.T) (*world.World, *websocket.Conn, context.CancelFunc, func()) {
	t.Helper()

	w := world.New(world.WorldConfig{ID: "cmd-test", Width: 32, Height: 32, Seed: 7},
		rules.Defaults(), tuning.Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Run(ctx) }()

	logger := log.New(os.Stderr, "[test] ", 0)
	srv := httptest.NewServer(NewServer(w, logger).Handler())

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		cancel()
		t.Fatalf("dial: %v", err)
	}

	return w, conn, cancel, func() {
		conn.Close()
		srv.Close()
		cancel()
	}
}

func readAck(t *testing.T, conn *websocket.Conn) protocol.AckMsg {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ack protocol.AckMsg
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("read ack: %v", err)
	}
	return ack
}

func TestCommandWS_SpawnReturnsEntityID(t *testing.T) {
	_, conn, _, done := dialTestServer(t)
	defer done()

	cmd := protocol.CommandMsg{
		Type:            protocol.TypeSpawn,
		ProtocolVersion: protocol.Version,
		Spawn:           &protocol.Spawn{Type: "light_tank", House: "allies", X: 4.5, Y: 4.5},
	}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}

	ack := readAck(t, conn)
	if ack.Error != "" {
		t.Fatalf("ack error: %s", ack.Error)
	}
	if ack.EntityID == 0 {
		t.Fatalf("no entity id in ack")
	}
}

func TestCommandWS_OrderReachesTheUnit(t *testing.T) {
	w, conn, stopWorld, done := dialTestServer(t)
	defer done()

	spawn := protocol.CommandMsg{
		Type:            protocol.TypeSpawn,
		ProtocolVersion: protocol.Version,
		Spawn:           &protocol.Spawn{Type: "rifle", House: "nod", X: 3.5, Y: 3.5},
	}
	if err := conn.WriteJSON(spawn); err != nil {
		t.Fatalf("write spawn: %v", err)
	}
	ack := readAck(t, conn)
	if ack.EntityID == 0 {
		t.Fatalf("spawn ack: %+v", ack)
	}

	order := protocol.CommandMsg{
		Type:            protocol.TypeOrder,
		ProtocolVersion: protocol.Version,
		Order:           &protocol.Order{UnitID: ack.EntityID, Kind: protocol.OrderHunt},
	}
	if err := conn.WriteJSON(order); err != nil {
		t.Fatalf("write order: %v", err)
	}
	if ack := readAck(t, conn); ack.Error != "" {
		t.Fatalf("order ack error: %s", ack.Error)
	}

	// Let the loop run a few ticks, then stop it before touching state.
	time.Sleep(500 * time.Millisecond)
	stopWorld()
	time.Sleep(100 * time.Millisecond)

	e := w.Get(ack.EntityID)
	if e == nil || e.Mission != world.MissionHunt {
		t.Fatalf("hunt order never applied: %+v", e)
	}
}

func TestCommandWS_RejectsBadProtocolVersion(t *testing.T) {
	_, conn, _, done := dialTestServer(t)
	defer done()

	cmd := protocol.CommandMsg{
		Type:            protocol.TypeSpawn,
		ProtocolVersion: "0.0",
		Spawn:           &protocol.Spawn{Type: "rifle", House: "nod", X: 1.5, Y: 1.5},
	}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}
	if ack := readAck(t, conn); ack.Error == "" {
		t.Fatalf("expected a version error")
	}
}
