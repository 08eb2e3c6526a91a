package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/defford/Epic/internal/game"
)

var (
	// ErrMalformed covers every frame that cannot be turned into an Inbound.
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = fmt.Errorf("%w: unknown type", ErrMalformed)
)

type envelope struct {
	Type   Type            `json:"type"`
	Action json.RawMessage `json:"action"`
}

type rawAction struct {
	Type     game.ActionKind `json:"type"`
	From     *Coord          `json:"from"`
	To       *Coord          `json:"to"`
	Position *Coord          `json:"position"`
}

// Decode parses one client frame.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case TypeSearchGame:
		return SearchGame{}, nil
	case TypeCancelSearch:
		return CancelSearch{}, nil
	case TypeGameAction:
		action, err := decodeAction(env.Action)
		if err != nil {
			return nil, err
		}
		return GameAction{Action: action}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownType, env.Type)
}

func decodeAction(data json.RawMessage) (game.Action, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("%w: missing action", ErrMalformed)
	}
	var raw rawAction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: action: %v", ErrMalformed, err)
	}

	switch raw.Type {
	case game.ActionMove:
		from, err := position("from", raw.From)
		if err != nil {
			return nil, err
		}
		to, err := position("to", raw.To)
		if err != nil {
			return nil, err
		}
		return game.Move{From: from, To: to}, nil
	case game.ActionBuild:
		p, err := position("position", raw.Position)
		if err != nil {
			return nil, err
		}
		return game.Build{Position: p}, nil
	case game.ActionDestroy:
		p, err := position("position", raw.Position)
		if err != nil {
			return nil, err
		}
		return game.Destroy{Position: p}, nil
	}
	return nil, fmt.Errorf("%w: action type %q", ErrMalformed, raw.Type)
}

func position(field string, c *Coord) (game.Position, error) {
	if c == nil {
		return game.Position{}, fmt.Errorf("%w: action.%s missing", ErrMalformed, field)
	}
	p := game.Position{X: c.X, Y: c.Y}
	if !p.InBounds() {
		return game.Position{}, fmt.Errorf("%w: action.%s (%d,%d) off board", ErrMalformed, field, c.X, c.Y)
	}
	return p, nil
}
