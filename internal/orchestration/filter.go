package orchestration

import (
	"fmt"
	"path/filepath"

	"github.com/petprogress/perfbench/internal/catalog"
)

// FilterProbes returns the subset of probes whose name or category matches
// at least one of the given glob patterns. An empty patterns slice returns
// all probes unchanged.
func FilterProbes(probes []catalog.Probe, patterns []string) ([]catalog.Probe, error) {
	if len(patterns) == 0 {
		return probes, nil
	}

	var matched []catalog.Probe
	for _, p := range probes {
		ok, err := matchesAny(p, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// matchesAny reports whether a probe's name or category matches any pattern.
func matchesAny(p catalog.Probe, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		nameMatch, err := filepath.Match(pattern, p.Name)
		if err != nil {
			return false, fmt.Errorf("invalid probe filter pattern %q: %w", pattern, err)
		}
		if nameMatch {
			return true, nil
		}
		categoryMatch, err := filepath.Match(pattern, string(p.Category))
		if err != nil {
			return false, fmt.Errorf("invalid probe filter pattern %q: %w", pattern, err)
		}
		if categoryMatch {
			return true, nil
		}
	}
	return false, nil
}
