package types

// Cell:
//   x, y: number // hex offset layout, unit spacing
//   owner: number // seat index, -1 = neutral
//   troops: number // >= 0
//   neighbors: number[] // cell indices, up to 6
//
// Player:
//   seat: number
//   name: string
//   color: string
//   capital: number // cell index, -1 before the game starts
//   alive: boolean
