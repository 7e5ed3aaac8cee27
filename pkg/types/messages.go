package types

// Every frame is {"type": string, "data": object}.

// Client -> Server
// create_room:
//   name: string
//   maxPlayers?: number (2..8, default 4)
//   cols?: number (6..60)
//   rows?: number (6..60)
//
// join_room:
//   roomId: string
//   name: string
//
// leave_room:
//   roomId: string
//
// host_grid (host only; fully validated before it replaces the held grid):
//   roomId: string
//   grid: Cell[]
//   players?: Player[] // structurally checked, never applied
//
// start_game (host only; also restarts a Running or Over room):
//   roomId: string
//   prodRate?: number // tick interval ms, clamped to >= 50
//
// action:
//   roomId: string
//   action: { type: "move", from: number, to: number, ratio: number (0,1] }
//
// ping:
//   ts: number

// Server -> Client
// room_created / joined:
//   roomId: string
//   playerIndex: number // seat, stable for the room's lifetime
//   isHost: boolean
//   players: Player[]
//
// error:
//   message: string // sent only to the originating connection
//
// player_joined / player_left / host_changed:
//   players: Player[]
//
// host_grid_received:
//   roomId: string
//
// game_started: {}
//
// state:
//   state: { grid: Cell[], players: Player[] } // sanitized before send
//
// game_over:
//   winner: number // seat, -1 when nobody survived
//   winnerName: string
//   state: { grid: Cell[], players: Player[] }
//
// pong:
//   ts: number
