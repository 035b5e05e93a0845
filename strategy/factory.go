package strategy

import (
	"fmt"
	"strings"

	"github.com/arloliu/rolepref/types"
)

// Names lists the built-in strategy names accepted by New.
var Names = []string{SearchName, SwapName}

// New creates a built-in strategy by configuration name.
//
// Parameters:
//   - name: "search" or "swap" (case-insensitive)
//   - catalog: Role catalog shared with the preference records
//   - opts: Options applied to the strategy
//
// Returns:
//   - types.AssignmentStrategy: The named strategy
//   - error: ErrUnknownStrategy for any other name
func New(name string, catalog *types.RoleCatalog, opts ...Option) (types.AssignmentStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SearchName:
		return NewBoundedSearch(catalog, opts...), nil
	case SwapName:
		return NewPairwiseSwap(catalog, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStrategy, name, strings.Join(Names, ", "))
	}
}
