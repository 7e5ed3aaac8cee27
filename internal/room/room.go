package room

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/hexfront/territory-backend/internal/engine"
	"github.com/hexfront/territory-backend/internal/types"
)

var ErrRoomFull = errors.New("room full")
var ErrUnauthorized = errors.New("unauthorized")
var ErrNotRunning = errors.New("game not running")

type Status string

const (
	StatusLobby   Status = "lobby"
	StatusRunning Status = "running"
	StatusOver    Status = "over"
)

const (
	DefaultCapacity = 4
	MaxCapacity     = 8

	DefaultProdRate = 900 * time.Millisecond
	MinProdRate     = 50 * time.Millisecond

	DefaultCols = 12
	DefaultRows = 10
)

// Palette inherited from the original client; joiners get the first color
// not already in use.
var colors = []string{
	"#e53935", "#8e24aa", "#3949ab", "#00897b",
	"#f4511e", "#fb8c00", "#43a047", "#1e88e5",
}

type Msg interface{ isRoomMsg() }

type Join struct {
	Name   string
	Outbox chan types.ServerMessage
	Reply  chan JoinResult
}

type JoinResult struct {
	Seat    int
	IsHost  bool
	Players []engine.Player
	Err     error
}

type Leave struct{ Seat int }

type Move struct {
	Seat  int
	From  int
	To    int
	Ratio float64
}

type Start struct {
	Seat     int
	ProdRate time.Duration // 0 means keep the default
}

type SubmitGrid struct {
	Seat   int
	Grid   []engine.Cell
	Roster []*engine.Player
	Reply  chan error
}

type GetState struct {
	Reply chan View
}

type Shutdown struct{}

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (Move) isRoomMsg()       {}
func (Start) isRoomMsg()      {}
func (SubmitGrid) isRoomMsg() {}
func (GetState) isRoomMsg()   {}
func (Shutdown) isRoomMsg()   {}

// View is a test-only reflection of room internals, delivered through the
// inbox so reads serialize with mutations.
type View struct {
	Code       string
	Status     Status
	HostSeat   int
	NumClients int
	Players    []engine.Player
	Grid       []engine.Cell
}

type Config struct {
	Capacity int
	Cols     int
	Rows     int
	ProdRate time.Duration
	Rng      *rand.Rand
}

// Room owns one game's mutable state. Joins, leaves, moves, production
// ticks and starts all flow through the inbox and are applied by the single
// loop goroutine, so no further locking exists anywhere.
type Room struct {
	inbox chan Msg

	code     string
	capacity int
	cols     int
	rows     int
	status   Status
	grid     []engine.Cell
	players  []*engine.Player
	hostSeat int
	nextSeat int

	outboxes map[int]chan types.ServerMessage

	prodRate time.Duration
	ticker   *time.Ticker
	tickC    <-chan time.Time

	rng     *rand.Rand
	log     *zap.SugaredLogger
	onEmpty func()

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, code string, cfg Config, log *zap.SugaredLogger, onEmpty func()) *Room {
	ctx, cancel := context.WithCancel(parent)

	capacity := cfg.Capacity
	if capacity < 2 || capacity > MaxCapacity {
		capacity = DefaultCapacity
	}
	cols, rows := cfg.Cols, cfg.Rows
	if cols == 0 {
		cols = DefaultCols
	}
	if rows == 0 {
		rows = DefaultRows
	}
	rate := cfg.ProdRate
	if rate == 0 {
		rate = DefaultProdRate
	}
	rng := cfg.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	r := &Room{
		inbox:    make(chan Msg, 64),
		code:     code,
		capacity: capacity,
		cols:     cols,
		rows:     rows,
		status:   StatusLobby,
		grid:     engine.NewGrid(cols, rows),
		hostSeat: -1,
		outboxes: make(map[int]chan types.ServerMessage),
		prodRate: rate,
		rng:      rng,
		log:      log.With("room", code),
		onEmpty:  onEmpty,
		ctx:      ctx,
		cancel:   cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	defer r.cancel()
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case <-r.tickC:
			r.tick()

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				if r.handleLeave(msg.Seat) {
					return
				}
			case Move:
				r.handleMove(msg)
			case Start:
				r.handleStart(msg)
			case SubmitGrid:
				r.handleSubmitGrid(msg)
			case GetState:
				msg.Reply <- r.view()
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if len(r.players) >= r.capacity {
		msg.Reply <- JoinResult{Err: ErrRoomFull}
		return
	}

	seat := r.nextSeat
	r.nextSeat++
	p := &engine.Player{
		Seat:    seat,
		Name:    msg.Name,
		Color:   r.pickColor(seat),
		Capital: engine.NoCapital,
		Alive:   true,
	}
	r.players = append(r.players, p)
	r.outboxes[seat] = msg.Outbox
	if r.hostSeat < 0 {
		r.hostSeat = seat
	}

	msg.Reply <- JoinResult{
		Seat:    seat,
		IsHost:  seat == r.hostSeat,
		Players: r.roster(),
	}
	r.broadcastExcept(seat, types.ServerMessage{
		Type: types.MsgPlayerJoined,
		Data: types.RosterUpdate{Players: r.roster()},
	})
	r.log.Infow("player joined", "seat", seat, "name", msg.Name)
}

// handleLeave removes the seat and reports whether the room died with it.
func (r *Room) handleLeave(seat int) bool {
	idx := -1
	for i, p := range r.players {
		if p.Seat == seat {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	if ch, ok := r.outboxes[seat]; ok {
		close(ch)
		delete(r.outboxes, seat)
	}

	if len(r.players) == 0 {
		r.log.Infow("room empty, tearing down")
		r.destroy()
		return true
	}

	hostChanged := false
	if seat == r.hostSeat {
		low := r.players[0].Seat
		for _, p := range r.players[1:] {
			if p.Seat < low {
				low = p.Seat
			}
		}
		r.hostSeat = low
		hostChanged = true
	}

	r.broadcast(types.ServerMessage{
		Type: types.MsgPlayerLeft,
		Data: types.RosterUpdate{Players: r.roster()},
	})
	if hostChanged {
		r.broadcast(types.ServerMessage{
			Type: types.MsgHostChanged,
			Data: types.RosterUpdate{Players: r.roster()},
		})
	}
	return false
}

func (r *Room) handleMove(msg Move) {
	// Membership means holding a seat, not a live outbox: a client dropped
	// for slowness keeps playing until it actually leaves.
	if !r.seated(msg.Seat) {
		return // stale seat, drop
	}
	if r.status != StatusRunning {
		r.send(msg.Seat, errorMessage(ErrNotRunning.Error()))
		return
	}
	if err := engine.ResolveMove(r.grid, r.players, msg.Seat, msg.From, msg.To, msg.Ratio); err != nil {
		r.send(msg.Seat, errorMessage(err.Error()))
		return
	}
	if !r.checkVictory() {
		r.broadcast(r.stateMessage())
	}
}

func (r *Room) handleStart(msg Start) {
	if msg.Seat != r.hostSeat {
		r.send(msg.Seat, errorMessage(ErrUnauthorized.Error()))
		return
	}

	r.stopTicker() // a restart must never leave two tickers running
	if msg.ProdRate > 0 {
		r.prodRate = msg.ProdRate
	}
	if r.prodRate < MinProdRate {
		r.prodRate = MinProdRate
	}

	engine.ResetGrid(r.grid)
	for _, p := range r.players {
		p.Alive = true
		p.Capital = engine.NoCapital
	}
	engine.SeedCapitals(r.grid, r.players, r.rng)
	r.status = StatusRunning

	r.ticker = time.NewTicker(r.prodRate)
	r.tickC = r.ticker.C

	r.broadcast(types.ServerMessage{Type: types.MsgGameStarted, Data: struct{}{}})
	r.broadcast(r.stateMessage())
	r.log.Infow("game started", "players", len(r.players), "prodRate", r.prodRate)
}

func (r *Room) handleSubmitGrid(msg SubmitGrid) {
	if msg.Seat != r.hostSeat {
		msg.Reply <- ErrUnauthorized
		return
	}
	if err := engine.ValidateGrid(msg.Grid); err != nil {
		msg.Reply <- err
		return
	}
	if err := engine.ValidateRoster(msg.Roster); err != nil {
		msg.Reply <- err
		return
	}
	// Roster stays server-authoritative; only the grid is adopted.
	r.grid = msg.Grid
	msg.Reply <- nil
}

// tick is one production cycle: self-heal a corrupted grid, grow owned
// cells, re-check victory, broadcast.
func (r *Room) tick() {
	if r.status != StatusRunning {
		return
	}
	if err := engine.ValidateGrid(r.grid); err != nil {
		r.log.Warnw("held grid failed validation, rebuilding", "err", err)
		r.grid = engine.NewGrid(r.cols, r.rows)
		alive := make([]*engine.Player, 0, len(r.players))
		for _, p := range r.players {
			if p.Alive {
				alive = append(alive, p)
			}
		}
		engine.SeedCapitals(r.grid, alive, r.rng)
	}
	engine.ApplyProduction(r.grid)
	if !r.checkVictory() {
		r.broadcast(r.stateMessage())
	}
}

// checkVictory transitions to Over when at most one player is left alive.
// Returns true when the game ended on this call.
func (r *Room) checkVictory() bool {
	if r.status != StatusRunning {
		return false
	}
	alive := engine.AliveSeats(r.players)
	if len(alive) > 1 {
		return false
	}

	r.status = StatusOver
	r.stopTicker()

	winner := -1
	winnerName := ""
	if len(alive) == 1 {
		winner = alive[0]
		for _, p := range r.players {
			if p.Seat == winner {
				winnerName = p.Name
			}
		}
	}
	r.broadcast(types.ServerMessage{
		Type: types.MsgGameOver,
		Data: types.GameOver{Winner: winner, WinnerName: winnerName, State: r.snapshot()},
	})
	r.log.Infow("game over", "winner", winner)
	return true
}

func (r *Room) seated(seat int) bool {
	for _, p := range r.players {
		if p.Seat == seat {
			return true
		}
	}
	return false
}

func (r *Room) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
		r.tickC = nil
	}
}

func (r *Room) destroy() {
	r.stopTicker()
	for seat, ch := range r.outboxes {
		close(ch)
		delete(r.outboxes, seat)
	}
	r.cancel()
	if r.onEmpty != nil {
		r.onEmpty()
	}
}

func (r *Room) shutdown() {
	r.stopTicker()
	for seat, ch := range r.outboxes {
		close(ch)
		delete(r.outboxes, seat)
	}
}

func (r *Room) snapshot() types.GameState {
	return types.GameState{
		Grid:    engine.SanitizeGrid(r.grid),
		Players: r.roster(),
	}
}

func (r *Room) stateMessage() types.ServerMessage {
	return types.ServerMessage{Type: types.MsgState, Data: types.StatePayload{State: r.snapshot()}}
}

func (r *Room) roster() []engine.Player {
	out := make([]engine.Player, len(r.players))
	for i, p := range r.players {
		out[i] = *p
		out[i].IsHost = p.Seat == r.hostSeat
	}
	return out
}

func (r *Room) pickColor(seat int) string {
	used := make(map[string]bool, len(r.players))
	for _, p := range r.players {
		used[p.Color] = true
	}
	for _, c := range colors {
		if !used[c] {
			return c
		}
	}
	return colors[seat%len(colors)]
}

func (r *Room) send(seat int, msg types.ServerMessage) {
	ch, ok := r.outboxes[seat]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		// slow client, drop it; its reader will run the leave path
		close(ch)
		delete(r.outboxes, seat)
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	r.broadcastExcept(-1, msg)
}

// broadcastExcept delivers best-effort per recipient: a full outbox drops
// that client rather than blocking the loop.
func (r *Room) broadcastExcept(skip int, msg types.ServerMessage) {
	for seat, ch := range r.outboxes {
		if seat == skip {
			continue
		}
		select {
		case ch <- msg:
		default:
			close(ch)
			delete(r.outboxes, seat)
		}
	}
}

func (r *Room) view() View {
	return View{
		Code:       r.code,
		Status:     r.status,
		HostSeat:   r.hostSeat,
		NumClients: len(r.outboxes),
		Players:    r.roster(),
		Grid:       append([]engine.Cell(nil), r.grid...),
	}
}

func errorMessage(msg string) types.ServerMessage {
	return types.ServerMessage{Type: types.MsgError, Data: types.ErrorData{Message: msg}}
}
