// Package store finds saved suites in a results directory.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/reporting"
)

// ErrNoResults is returned when the results directory holds no saved suite.
var ErrNoResults = errors.New("no saved benchmark results")

// LatestRef selects the newest saved suite in Resolve.
const LatestRef = "latest"

var suiteFile = regexp.MustCompile(`^benchmark_(\d{8}_\d{6})\.json$`)

// Entry is one saved suite file.
type Entry struct {
	Path      string
	Stamp     string
	Timestamp time.Time
}

// Store reads and prunes a results directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a store over dir. The directory need not exist yet.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the results directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the saved suites, oldest first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

func (s *Store) list() ([]Entry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading results directory: %w", err)
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := suiteFile.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		ts, err := time.ParseInLocation(reporting.TimestampLayout, m[1], time.Local)
		if err != nil {
			continue
		}
		out = append(out, Entry{Path: filepath.Join(s.dir, e.Name()), Stamp: m[1], Timestamp: ts})
	}

	// the stamp layout sorts lexically in time order
	sort.Slice(out, func(i, j int) bool { return out[i].Stamp < out[j].Stamp })
	return out, nil
}

// Latest loads the newest saved suite.
func (s *Store) Latest() (*models.Suite, string, error) {
	entries, err := s.List()
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", fmt.Errorf("%w in %s", ErrNoResults, s.dir)
	}

	path := entries[len(entries)-1].Path
	suite, err := reporting.LoadSuite(path)
	if err != nil {
		return nil, "", err
	}
	return suite, path, nil
}

// Resolve loads a suite from a file path, or the newest saved suite when
// ref is "latest".
func (s *Store) Resolve(ref string) (*models.Suite, string, error) {
	if ref == LatestRef {
		return s.Latest()
	}
	suite, err := reporting.LoadSuite(ref)
	if err != nil {
		return nil, "", err
	}
	return suite, ref, nil
}

// Prune deletes every artifact of all but the newest keep runs. Only files
// whose names carry a run timestamp are touched. It returns the number of
// files removed.
func (s *Store) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.list()
	if err != nil {
		return 0, err
	}
	if len(runs) <= keep {
		return 0, nil
	}

	stale := map[string]bool{}
	for _, r := range runs[:len(runs)-keep] {
		stale[r.Stamp] = true
	}

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading results directory: %w", err)
	}

	removed := 0
	for _, f := range files {
		if f.IsDir() || !strings.HasPrefix(f.Name(), "benchmark_") {
			continue
		}
		if !stale[stampOf(f.Name())] {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, f.Name())); err != nil {
			return removed, fmt.Errorf("removing %s: %w", f.Name(), err)
		}
		removed++
	}
	return removed, nil
}

var anyStamp = regexp.MustCompile(`_(\d{8}_\d{6})\.[a-z]+$`)

func stampOf(name string) string {
	m := anyStamp.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}
