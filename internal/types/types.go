package types

import (
	"encoding/json"

	"github.com/hexfront/territory-backend/internal/engine"
)

// Message type tags, client -> server.
const (
	MsgCreateRoom = "create_room"
	MsgJoinRoom   = "join_room"
	MsgLeaveRoom  = "leave_room"
	MsgHostGrid   = "host_grid"
	MsgStartGame  = "start_game"
	MsgAction     = "action"
	MsgPing       = "ping"
)

// Message type tags, server -> client.
const (
	MsgRoomCreated      = "room_created"
	MsgJoined           = "joined"
	MsgError            = "error"
	MsgPlayerJoined     = "player_joined"
	MsgPlayerLeft       = "player_left"
	MsgHostChanged      = "host_changed"
	MsgHostGridReceived = "host_grid_received"
	MsgGameStarted      = "game_started"
	MsgState            = "state"
	MsgGameOver         = "game_over"
	MsgPong             = "pong"
)

// ClientMessage is the inbound envelope: a type tag plus a raw data object
// decoded per-type by the session handler.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Client -> server payloads.

type CreateRoomReq struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	Cols       int    `json:"cols,omitempty"`
	Rows       int    `json:"rows,omitempty"`
}

type JoinRoomReq struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type LeaveRoomReq struct {
	RoomID string `json:"roomId"`
}

type HostGridReq struct {
	RoomID  string           `json:"roomId"`
	Grid    []engine.Cell    `json:"grid"`
	Players []*engine.Player `json:"players,omitempty"`
}

type StartGameReq struct {
	RoomID     string `json:"roomId"`
	ProdRateMS int    `json:"prodRate,omitempty"`
}

type MoveAction struct {
	Type  string  `json:"type"`
	From  int     `json:"from"`
	To    int     `json:"to"`
	Ratio float64 `json:"ratio"`
}

type ActionReq struct {
	RoomID string     `json:"roomId"`
	Action MoveAction `json:"action"`
}

type PingReq struct {
	TS int64 `json:"ts"`
}

// Server -> client payloads.

type RoomWelcome struct {
	RoomID      string          `json:"roomId"`
	PlayerIndex int             `json:"playerIndex"`
	IsHost      bool            `json:"isHost"`
	Players     []engine.Player `json:"players"`
}

type RosterUpdate struct {
	Players []engine.Player `json:"players"`
}

type HostGridReceived struct {
	RoomID string `json:"roomId"`
}

type GameState struct {
	Grid    []engine.Cell   `json:"grid"`
	Players []engine.Player `json:"players"`
}

type StatePayload struct {
	State GameState `json:"state"`
}

type GameOver struct {
	Winner     int       `json:"winner"`
	WinnerName string    `json:"winnerName,omitempty"`
	State      GameState `json:"state"`
}

type ErrorData struct {
	Message string `json:"message"`
}

type Pong struct {
	TS int64 `json:"ts"`
}
