package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexfront/territory-backend/internal/hub"
	"github.com/hexfront/territory-backend/internal/room"
	"github.com/hexfront/territory-backend/internal/types"
)

const (
	readLimit    = 1 << 20 // host_grid payloads can be large
	idleTimeout  = 5 * time.Minute
	writeTimeout = 3 * time.Second
	leaveTimeout = 10 * time.Second
)

// session binds one websocket to at most one (room, seat) pair.
type session struct {
	id   string
	hub  *hub.Hub
	out  chan types.ServerMessage
	log  *zap.SugaredLogger
	ctx  context.Context
	conn *websocket.Conn

	room *room.Room
	code string
	seat int
}

func Handler(h *hub.Hub, log *zap.SugaredLogger) http.HandlerFunc {
	log = log.Named("ws")
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(readLimit)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		id := uuid.NewString()
		s := &session{
			id:   id,
			hub:  h,
			out:  make(chan types.ServerMessage, 16),
			log:  log.With("client", id[:8]),
			ctx:  ctx,
			conn: conn,
			seat: -1,
		}
		s.log.Infow("client connected")

		// Writer goroutine: sole writer on the connection.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-s.out:
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
					_ = conn.Write(wctx, websocket.MessageText, payload)
					wcancel()
				}
			}
		}()

		defer s.leaveCurrentRoom()
		s.readLoop()
	}
}

func (s *session) readLoop() {
	for {
		ctx, cancel := context.WithTimeout(s.ctx, idleTimeout)
		_, data, err := s.conn.Read(ctx)
		cancel()
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				s.log.Debugw("read ended", "err", err)
			}
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			s.log.Debugw("malformed envelope dropped", "err", err)
			s.sendError("malformed message")
			continue
		}
		s.dispatch(cm)
	}
}

func (s *session) dispatch(cm types.ClientMessage) {
	switch cm.Type {
	case types.MsgCreateRoom:
		var req types.CreateRoomReq
		if !s.decode(cm.Data, &req) {
			return
		}
		s.handleCreate(req)

	case types.MsgJoinRoom:
		var req types.JoinRoomReq
		if !s.decode(cm.Data, &req) {
			return
		}
		s.handleJoin(req)

	case types.MsgLeaveRoom:
		var req types.LeaveRoomReq
		if !s.decode(cm.Data, &req) {
			return
		}
		if s.room != nil && req.RoomID == s.code {
			s.leaveCurrentRoom()
		}

	case types.MsgHostGrid:
		var req types.HostGridReq
		if !s.decode(cm.Data, &req) {
			return
		}
		s.handleHostGrid(req)

	case types.MsgStartGame:
		var req types.StartGameReq
		if !s.decode(cm.Data, &req) {
			return
		}
		rm, ok := s.boundRoom(req.RoomID)
		if !ok {
			return
		}
		rm.Inbox() <- room.Start{Seat: s.seat, ProdRate: time.Duration(req.ProdRateMS) * time.Millisecond}

	case types.MsgAction:
		var req types.ActionReq
		if !s.decode(cm.Data, &req) {
			return
		}
		if req.Action.Type != "move" {
			s.sendError("unsupported action")
			return
		}
		rm, ok := s.boundRoom(req.RoomID)
		if !ok {
			return
		}
		rm.Inbox() <- room.Move{Seat: s.seat, From: req.Action.From, To: req.Action.To, Ratio: req.Action.Ratio}

	case types.MsgPing:
		var req types.PingReq
		if !s.decode(cm.Data, &req) {
			return
		}
		s.push(types.ServerMessage{Type: types.MsgPong, Data: types.Pong{TS: req.TS}})

	default:
		s.sendError("malformed message")
	}
}

func (s *session) handleCreate(req types.CreateRoomReq) {
	if s.room != nil {
		s.sendError("already in a room")
		return
	}

	reply := make(chan hub.Created, 1)
	s.hub.Inbox() <- hub.CreateRoom{
		Cfg: room.Config{
			Capacity: req.MaxPlayers,
			Cols:     req.Cols,
			Rows:     req.Rows,
		},
		Reply: reply,
	}
	created := <-reply
	if created.Err != nil {
		s.sendError("failed to create room")
		return
	}
	s.joinRoom(created.Room, created.Code, req.Name, types.MsgRoomCreated)
}

func (s *session) handleJoin(req types.JoinRoomReq) {
	if s.room != nil {
		s.sendError("already in a room")
		return
	}

	reply := make(chan *room.Room, 1)
	s.hub.Inbox() <- hub.GetRoom{Code: req.RoomID, Reply: reply}
	rm := <-reply
	if rm == nil {
		s.sendError(hub.ErrRoomNotFound.Error())
		return
	}
	s.joinRoom(rm, req.RoomID, req.Name, types.MsgJoined)
}

func (s *session) joinRoom(rm *room.Room, code, name, welcomeType string) {
	roomOut := make(chan types.ServerMessage, 16)
	reply := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{Name: name, Outbox: roomOut, Reply: reply}

	// The room can tear itself down between lookup and join; don't wait on a
	// dead loop longer than the connection itself lives.
	var res room.JoinResult
	select {
	case res = <-reply:
	case <-s.ctx.Done():
		return
	case <-time.After(5 * time.Second):
		s.sendError(hub.ErrRoomNotFound.Error())
		return
	}
	if res.Err != nil {
		s.sendError(res.Err.Error())
		return
	}

	s.room = rm
	s.code = code
	s.seat = res.Seat

	// Welcome goes out before the forwarder starts so no queued broadcast
	// can overtake it.
	s.push(types.ServerMessage{
		Type: welcomeType,
		Data: types.RoomWelcome{
			RoomID:      code,
			PlayerIndex: res.Seat,
			IsHost:      res.IsHost,
			Players:     res.Players,
		},
	})

	// Forward room broadcasts onto the session outbox until the room closes
	// this membership's channel.
	go func() {
		for msg := range roomOut {
			select {
			case s.out <- msg:
			case <-s.ctx.Done():
				return
			}
		}
	}()

	s.log.Infow("joined room", "room", code, "seat", res.Seat)
}

func (s *session) handleHostGrid(req types.HostGridReq) {
	rm, ok := s.boundRoom(req.RoomID)
	if !ok {
		return
	}
	reply := make(chan error, 1)
	rm.Inbox() <- room.SubmitGrid{Seat: s.seat, Grid: req.Grid, Roster: req.Players, Reply: reply}
	if err := <-reply; err != nil {
		s.sendError(err.Error())
		return
	}
	s.push(types.ServerMessage{Type: types.MsgHostGridReceived, Data: types.HostGridReceived{RoomID: s.code}})
}

// boundRoom re-validates that the claimed room matches this session's
// recorded membership before any mutating dispatch.
func (s *session) boundRoom(claimed string) (*room.Room, bool) {
	if s.room == nil || claimed != s.code {
		s.sendError(room.ErrUnauthorized.Error())
		return nil, false
	}
	return s.room, true
}

func (s *session) leaveCurrentRoom() {
	if s.room == nil {
		return
	}
	// The seat must be released even when the room inbox is momentarily
	// full, or the room never empties and never tears down. Block, with a
	// generous ceiling so a wedged room cannot pin this goroutine forever.
	select {
	case s.room.Inbox() <- room.Leave{Seat: s.seat}:
	case <-time.After(leaveTimeout):
		s.log.Warnw("leave not delivered", "room", s.code, "seat", s.seat)
	}
	s.room = nil
	s.code = ""
	s.seat = -1
}

func (s *session) decode(data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		s.sendError("malformed message")
		return false
	}
	return true
}

func (s *session) sendError(msg string) {
	s.push(types.ServerMessage{Type: types.MsgError, Data: types.ErrorData{Message: msg}})
}

func (s *session) push(msg types.ServerMessage) {
	select {
	case s.out <- msg:
	case <-s.ctx.Done():
	}
}
