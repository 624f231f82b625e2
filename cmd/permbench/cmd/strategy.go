package cmd

import (
	"fmt"

	"github.com/tamirms/permsort"
)

const (
	strategySingle = "single"
	strategyMulti  = "multi"
	strategyBoth   = "both"
)

// openStore opens path with the named strategy.
func openStore(strategy, path string, width, count int) (permsort.Store, error) {
	switch strategy {
	case strategySingle:
		s, err := permsort.OpenSingleHandle(path, width, count)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strategyMulti:
		s, err := permsort.OpenMultiHandle(path, width, count)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (use single or multi)", strategy)
	}
}

// expandStrategies resolves "both" into its members and rejects unknown names.
func expandStrategies(names []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, name := range names {
		switch name {
		case strategySingle, strategyMulti:
			add(name)
		case strategyBoth:
			add(strategySingle)
			add(strategyMulti)
		default:
			return nil, fmt.Errorf("unknown strategy %q (use single, multi, or both)", name)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no strategy selected")
	}
	return out, nil
}
