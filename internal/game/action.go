package game

import "fmt"

type ActionKind string

const (
	ActionMove    ActionKind = "MOVE"
	ActionBuild   ActionKind = "BUILD"
	ActionDestroy ActionKind = "DESTROY"
)

// Action is one of Move, Build or Destroy.
type Action interface {
	Kind() ActionKind
}

type Move struct {
	From Position
	To   Position
}

type Build struct {
	Position Position
}

type Destroy struct {
	Position Position
}

func (Move) Kind() ActionKind    { return ActionMove }
func (Build) Kind() ActionKind   { return ActionBuild }
func (Destroy) Kind() ActionKind { return ActionDestroy }

func (a Move) String() string {
	return fmt.Sprintf("MOVE (%d,%d)->(%d,%d)", a.From.X, a.From.Y, a.To.X, a.To.Y)
}

func (a Build) String() string {
	return fmt.Sprintf("BUILD (%d,%d)", a.Position.X, a.Position.Y)
}

func (a Destroy) String() string {
	return fmt.Sprintf("DESTROY (%d,%d)", a.Position.X, a.Position.Y)
}
