package strategy

import "fmt"

// Move is a basic-strategy recommendation. The underlying value is the code
// used in the strategy tables.
type Move string

const (
	Hit           Move = "H"
	Stand         Move = "S"
	Double        Move = "D"
	DoubleAllowed Move = "Ds"
	Split         Move = "Y"
	DontSplit     Move = "N"
	Surrender     Move = "SUR"
)

// Moves lists every move in legend order
var Moves = []Move{Hit, Stand, Double, DoubleAllowed, Split, DontSplit, Surrender}

// ParseMove converts a table cell code into a Move
func ParseMove(code string) (Move, error) {
	for _, m := range Moves {
		if string(m) == code {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown move code %q", code)
}

// Code returns the table cell code
func (m Move) Code() string {
	return string(m)
}

// String returns the move name
func (m Move) String() string {
	switch m {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double"
	case DoubleAllowed:
		return "Double or Stand"
	case Split:
		return "Split"
	case DontSplit:
		return "Don't Split"
	case Surrender:
		return "Surrender"
	default:
		return "Unknown"
	}
}

// Description returns the legend text for the move
func (m Move) Description() string {
	switch m {
	case Double:
		return "Double if allowed, otherwise Hit"
	case DoubleAllowed:
		return "Double if allowed, otherwise Stand"
	default:
		return m.String()
	}
}

// Resolve maps the move to one that can actually be played when doubling
// is not available.
func (m Move) Resolve(canDouble bool) Move {
	if canDouble {
		if m == DoubleAllowed {
			return Double
		}
		return m
	}
	switch m {
	case Double:
		return Hit
	case DoubleAllowed:
		return Stand
	}
	return m
}
