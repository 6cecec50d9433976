package game

import (
	"fmt"
	"strings"
)

// Action is a player decision on the current hand
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Surrender
)

// Actions lists every action in display order
var Actions = []Action{Hit, Stand, Double, Split, Surrender}

// String returns the lower-case action name used in commands and logs
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	case Surrender:
		return "surrender"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction accepts an action name or its first letter, case-insensitively.
// "su" and "sur" select surrender.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hit", "h":
		return Hit, nil
	case "stand", "s", "st":
		return Stand, nil
	case "double", "d":
		return Double, nil
	case "split", "p", "sp":
		return Split, nil
	case "surrender", "su", "sur", "r":
		return Surrender, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}
