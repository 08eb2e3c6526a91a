// Package protocol is the JSON envelope spoken over the websocket. Every frame
// is an object discriminated by its "type" field.
package protocol

import (
	"github.com/defford/Epic/internal/game"
)

type Type string

const (
	// Client -> Server
	TypeSearchGame   Type = "SEARCH_GAME"
	TypeCancelSearch Type = "CANCEL_SEARCH"
	TypeGameAction   Type = "GAME_ACTION"

	// Server -> Client
	TypeMatching             Type = "MATCHING"
	TypeMatched              Type = "MATCHED"
	TypeGameState            Type = "GAME_STATE"
	TypeOpponentDisconnected Type = "OPPONENT_DISCONNECTED"
)

// Inbound is a decoded client frame: SearchGame, CancelSearch or GameAction.
type Inbound interface {
	MessageType() Type
}

type SearchGame struct{}

type CancelSearch struct{}

type GameAction struct {
	Action game.Action
}

func (SearchGame) MessageType() Type   { return TypeSearchGame }
func (CancelSearch) MessageType() Type { return TypeCancelSearch }
func (GameAction) MessageType() Type   { return TypeGameAction }

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is the wire form of a board square. Owners are null when empty.
type Cell struct {
	X         int  `json:"x"`
	Y         int  `json:"y"`
	CampOwner *int `json:"campOwner"`
	HeroOwner *int `json:"heroOwner"`
}

type Skips struct {
	Player1 bool `json:"1"`
	Player2 bool `json:"2"`
}

type Matching struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

type Matched struct {
	Type         Type   `json:"type"`
	GameID       string `json:"gameId"`
	PlayerNumber int    `json:"playerNumber"`
}

type GameState struct {
	Type             Type     `json:"type"`
	GameID           string   `json:"gameId"`
	Board            [][]Cell `json:"board"`
	CurrentPlayer    int      `json:"currentPlayer"`
	TurnCount        int      `json:"turnCount"`
	Winner           *int     `json:"winner"`
	Skips            Skips    `json:"skips"`
	YourPlayerNumber int      `json:"yourPlayerNumber"`
}

type OpponentDisconnected struct {
	Type Type `json:"type"`
}

func NewMatching(message string) Matching {
	return Matching{Type: TypeMatching, Message: message}
}

func NewMatched(gameID string, p game.Player) Matched {
	return Matched{Type: TypeMatched, GameID: gameID, PlayerNumber: int(p)}
}

func NewOpponentDisconnected() OpponentDisconnected {
	return OpponentDisconnected{Type: TypeOpponentDisconnected}
}

// NewGameState renders a settled snapshot for one recipient.
func NewGameState(snap game.Snapshot, you game.Player) GameState {
	return GameState{
		Type:          TypeGameState,
		GameID:        snap.MatchID,
		Board:         encodeBoard(&snap.Board),
		CurrentPlayer: int(snap.Active),
		TurnCount:     snap.TurnCount,
		Winner:        owner(snap.Winner),
		Skips: Skips{
			Player1: snap.IsExhausted(game.Player1),
			Player2: snap.IsExhausted(game.Player2),
		},
		YourPlayerNumber: int(you),
	}
}

// encodeBoard is row-major: rows are y, columns are x.
func encodeBoard(b *game.Board) [][]Cell {
	rows := make([][]Cell, game.GRID_SIZE)
	for y := range rows {
		rows[y] = make([]Cell, game.GRID_SIZE)
		for x := range rows[y] {
			c := b[y][x]
			rows[y][x] = Cell{X: x, Y: y, CampOwner: owner(c.Camp), HeroOwner: owner(c.Hero)}
		}
	}
	return rows
}

func owner(p game.Player) *int {
	if p == game.NoPlayer {
		return nil
	}
	v := int(p)
	return &v
}
