// Package ws serves the operator command channel: a loopback-only
// websocket accepting SPAWN and ORDER messages and feeding them into the
// world's input inboxes. Commands go through the same path as scenario
// scripting, so everything an operator does is tick-logged and replayable.
package ws

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"ironfront.gg/internal/protocol"
	"ironfront.gg/internal/sim/world"
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback-guarded below
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd protocol.CommandMsg
			if err := json.Unmarshal(msg, &cmd); err != nil {
				s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "bad json"})
				continue
			}
			if cmd.ProtocolVersion != protocol.Version {
				s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "bad protocol_version"})
				continue
			}
			s.dispatch(conn, &cmd)
		}
	}
}

func (s *Server) dispatch(conn *websocket.Conn, cmd *protocol.CommandMsg) {
	switch cmd.Type {
	case protocol.TypeSpawn:
		if cmd.Spawn == nil {
			s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "missing spawn"})
			return
		}
		resp := make(chan int, 1)
		select {
		case s.world.Spawns() <- world.SpawnEnvelope{Spawn: *cmd.Spawn, Resp: resp}:
		case <-time.After(5 * time.Second):
			s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "inbox full"})
			return
		}
		select {
		case id := <-resp:
			s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Tick: s.world.CurrentTick(), EntityID: id})
		case <-time.After(5 * time.Second):
			s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "spawn not applied"})
		}

	case protocol.TypeOrder:
		if cmd.Order == nil {
			s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "missing order"})
			return
		}
		select {
		case s.world.Orders() <- world.OrderEnvelope{Order: *cmd.Order}:
			s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Tick: s.world.CurrentTick()})
		case <-time.After(5 * time.Second):
			s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "inbox full"})
		}

	default:
		s.writeAck(conn, protocol.AckMsg{Type: protocol.TypeAck, Error: "unknown type"})
	}
}

func (s *Server) writeAck(conn *websocket.Conn, ack protocol.AckMsg) {
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(ack); err != nil {
		s.log.Printf("command ack write: %v", err)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
