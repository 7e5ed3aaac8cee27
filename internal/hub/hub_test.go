package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hexfront/territory-backend/internal/room"
	"github.com/hexfront/territory-backend/internal/types"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, zap.NewNop().Sugar())
}

func createRoom(t *testing.T, h *Hub) (string, *room.Room) {
	t.Helper()
	reply := make(chan Created, 1)
	h.Inbox() <- CreateRoom{Cfg: room.Config{Cols: 8, Rows: 6}, Reply: reply}
	select {
	case created := <-reply:
		if created.Err != nil {
			t.Fatalf("create room: %v", created.Err)
		}
		return created.Code, created.Room
	case <-time.After(time.Second):
		t.Fatalf("timed out creating room")
		return "", nil
	}
}

func getRoom(t *testing.T, h *Hub, code string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	h.Inbox() <- GetRoom{Code: code, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatalf("timed out getting room")
		return nil
	}
}

func TestCreateAndGetRoom(t *testing.T) {
	h := newTestHub(t)

	code, rm := createRoom(t, h)
	if len(code) != 6 {
		t.Fatalf("want 6-char code, got %q", code)
	}
	if rm == nil {
		t.Fatalf("created room is nil")
	}
	if got := getRoom(t, h, code); got != rm {
		t.Fatalf("lookup returned a different room")
	}
	if got := getRoom(t, h, "NOPE42"); got != nil {
		t.Fatalf("lookup of unknown code returned a room")
	}
}

func TestRoomCodesAreUnique(t *testing.T) {
	h := newTestHub(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, _ := createRoom(t, h)
		if seen[code] {
			t.Fatalf("duplicate room code %q", code)
		}
		seen[code] = true
	}
}

func TestEmptyRoomRemovesItself(t *testing.T) {
	h := newTestHub(t)
	code, rm := createRoom(t, h)

	out := make(chan types.ServerMessage, 16)
	reply := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{Name: "alice", Outbox: out, Reply: reply}
	res := <-reply
	if res.Err != nil {
		t.Fatalf("join: %v", res.Err)
	}

	rm.Inbox() <- room.Leave{Seat: res.Seat}

	// The room posts RemoveRoom back to the hub; poll until it lands.
	deadline := time.After(time.Second)
	for {
		if getRoom(t, h, code) == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("empty room still registered")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestShutdownTearsDownRooms(t *testing.T) {
	h := newTestHub(t)
	_, rm := createRoom(t, h)

	out := make(chan types.ServerMessage, 16)
	reply := make(chan room.JoinResult, 1)
	rm.Inbox() <- room.Join{Name: "alice", Outbox: out, Reply: reply}
	<-reply

	h.Inbox() <- ShutdownHub{}

	// Room shutdown closes every client outbox.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-out:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("client outbox never closed on shutdown")
		}
	}
}
