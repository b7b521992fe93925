// Command bot drives a live battle from outside: it spawns a raiding
// party over the command websocket, sends it hunting, and tails the
// observer stream printing tick summaries. Useful for smoke-testing a
// running server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"ironfront.gg/internal/protocol"
)

func main() {
	var (
		cmdURL = flag.String("command_url", "ws://localhost:8080/v1/command/ws", "command ws url")
		obsURL = flag.String("observer_url", "ws://localhost:8080/v1/observer/ws", "observer ws url (empty to skip watching)")
		house  = flag.String("house", "nod", "house of the raiding party")
		types  = flag.String("types", "light_tank,light_tank,rifle,rifle,rifle", "comma-separated unit types to spawn")
		x      = flag.Float64("x", 4.5, "spawn column, cells")
		y      = flag.Float64("y", 4.5, "spawn row of the first unit, cells")
		every  = flag.Int("every_ticks", 15, "observer throttle")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	conn, _, err := websocket.DefaultDialer.Dial(*cmdURL, nil)
	if err != nil {
		logger.Fatalf("dial command ws: %v", err)
	}
	defer conn.Close()

	ids := make([]int, 0, 8)
	for i, typ := range strings.Split(*types, ",") {
		typ = strings.TrimSpace(typ)
		if typ == "" {
			continue
		}
		id, err := spawn(conn, typ, *house, *x, *y+float64(i))
		if err != nil {
			logger.Fatalf("spawn %s: %v", typ, err)
		}
		logger.Printf("spawned %s id=%d", typ, id)
		ids = append(ids, id)
	}

	for _, id := range ids {
		if err := order(conn, protocol.Order{UnitID: id, Kind: protocol.OrderHunt}); err != nil {
			logger.Fatalf("order hunt id=%d: %v", id, err)
		}
	}
	logger.Printf("raiding party of %d hunting", len(ids))

	if strings.TrimSpace(*obsURL) == "" {
		return
	}
	watch(logger, *obsURL, *every)
}

func spawn(conn *websocket.Conn, typ, house string, x, y float64) (int, error) {
	msg := protocol.CommandMsg{
		Type:            protocol.TypeSpawn,
		ProtocolVersion: protocol.Version,
		Spawn:           &protocol.Spawn{Type: typ, House: house, X: x, Y: y},
	}
	ack, err := roundTrip(conn, msg)
	if err != nil {
		return 0, err
	}
	if ack.Error != "" {
		return 0, fmt.Errorf("%s", ack.Error)
	}
	return ack.EntityID, nil
}

func order(conn *websocket.Conn, o protocol.Order) error {
	msg := protocol.CommandMsg{
		Type:            protocol.TypeOrder,
		ProtocolVersion: protocol.Version,
		Order:           &o,
	}
	ack, err := roundTrip(conn, msg)
	if err != nil {
		return err
	}
	if ack.Error != "" {
		return fmt.Errorf("%s", ack.Error)
	}
	return nil
}

func roundTrip(conn *websocket.Conn, msg protocol.CommandMsg) (protocol.AckMsg, error) {
	var ack protocol.AckMsg
	if err := conn.WriteJSON(msg); err != nil {
		return ack, err
	}
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	if err := conn.ReadJSON(&ack); err != nil {
		return ack, err
	}
	return ack, nil
}

func watch(logger *log.Logger, url string, everyTicks int) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		logger.Fatalf("dial observer ws: %v", err)
	}
	defer conn.Close()

	sub := protocol.SubscribeMsg{
		Type:            protocol.TypeSubscribe,
		ProtocolVersion: protocol.Version,
		EveryTicks:      everyTicks,
	}
	if err := conn.WriteJSON(sub); err != nil {
		logger.Fatalf("subscribe: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	for {
		select {
		case <-stop:
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var tick protocol.TickMsg
		if err := json.Unmarshal(msg, &tick); err != nil || tick.Type != protocol.TypeTick {
			continue
		}

		alive := map[string]int{}
		for i := range tick.Entities {
			if tick.Entities[i].Alive {
				alive[tick.Entities[i].House]++
			}
		}
		parts := make([]string, 0, len(alive))
		for house, n := range alive {
			parts = append(parts, fmt.Sprintf("%s=%d", house, n))
		}
		digest := tick.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		logger.Printf("tick=%d alive[%s] digest=%s", tick.Tick, strings.Join(parts, " "), digest)
	}
}
