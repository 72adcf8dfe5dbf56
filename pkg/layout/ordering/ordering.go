package ordering

import (
	"strings"

	perr "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Orderer assigns Order to every node of g. dirty names the nodes touched by
// the edits since the last layout; implementations may use it to keep the
// rest of the drawing still.
type Orderer interface {
	Order(g *pedigree.Graph, dirty []pedigree.ID) Result
}

// Result reports how an ordering run went.
type Result struct {
	Iterations int
	Crossings  int
}

// TieBreak picks between units with equal barycenters.
type TieBreak int

const (
	// TieBreakPrevious keeps the order the units had before the sweep.
	TieBreakPrevious TieBreak = iota
	// TieBreakID puts the unit with the smaller node ID first.
	TieBreakID
)

func (t TieBreak) String() string {
	if t == TieBreakID {
		return "id"
	}
	return "previous"
}

// ParseTieBreak parses "previous" or "id".
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "previous":
		return TieBreakPrevious, nil
	case "id":
		return TieBreakID, nil
	}
	return 0, perr.New(perr.ErrCodeInvalidConfig, "unknown tie break %q (want previous or id)", s)
}
