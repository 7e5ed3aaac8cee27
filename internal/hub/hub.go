package hub

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/hexfront/territory-backend/internal/room"
)

var ErrRoomNotFound = errors.New("room not found")

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Cfg   room.Config
	Reply chan Created
}

type Created struct {
	Code string
	Room *room.Room
	Err  error
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

// Hub is the room registry: a single goroutine owning the code -> room map.
// Rooms remove themselves by posting RemoveRoom back through the inbox when
// their last player leaves.
type Hub struct {
	inbox   chan HubMsg
	rooms   map[string]*room.Room
	log     *zap.SugaredLogger
	roomLog *zap.SugaredLogger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, log *zap.SugaredLogger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		rooms:   make(map[string]*room.Room),
		log:     log.Named("hub"),
		roomLog: log.Named("room"),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				code, err := h.freshCode()
				if err != nil {
					msg.Reply <- Created{Err: err}
					break
				}
				rm := room.New(h.ctx, code, msg.Cfg, h.roomLog, func() {
					h.inbox <- RemoveRoom{Code: code}
				})
				h.rooms[code] = rm
				h.log.Infow("room created", "room", code)
				msg.Reply <- Created{Code: code, Room: rm}

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RemoveRoom:
				delete(h.rooms, msg.Code)
				h.log.Infow("room removed", "room", msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, rm := range h.rooms {
		rm.Inbox() <- room.Shutdown{}
	}
	clear(h.rooms)
	h.cancel()
}

// freshCode generates a 6-char room code, retrying on the (unlikely)
// collision with a live room.
func (h *Hub) freshCode() (string, error) {
	for {
		code, err := generateCode()
		if err != nil {
			return "", err
		}
		if _, taken := h.rooms[code]; !taken {
			return code, nil
		}
	}
}

func generateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}
