// Package catalog defines the probes a suite runs and the order they run in.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/petprogress/perfbench/internal/probe"
)

// Category groups probes. Categories always run in the order of Categories.
type Category string

const (
	CategoryCore    Category = "core"
	CategoryMemory  Category = "memory"
	CategoryUI      Category = "ui"
	CategoryNetwork Category = "network"
	CategoryAI      Category = "ai"
)

// Categories lists every category in execution order.
var Categories = []Category{CategoryCore, CategoryMemory, CategoryUI, CategoryNetwork, CategoryAI}

// Index returns the category's position in the execution order, or -1.
func (c Category) Index() int {
	return slices.Index(Categories, c)
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c.Index() < 0 {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Probe describes one named unit of work.
type Probe struct {
	Name     string
	Category Category
	Kind     probe.Kind
	Params   map[string]any
}

// Override changes or adds a probe. An override naming an existing probe
// replaces only the fields it sets; a new name appends a probe, which then
// needs both Category and Kind.
type Override struct {
	Name     string         `yaml:"name" json:"name"`
	Category string         `yaml:"category,omitempty" json:"category,omitempty"`
	Kind     string         `yaml:"kind,omitempty" json:"kind,omitempty"`
	Params   map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
	Disabled bool           `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

func sleep(name string, c Category, d time.Duration) Probe {
	return Probe{Name: name, Category: c, Kind: probe.KindSleep, Params: map[string]any{"duration": d}}
}

func alloc(name string, d time.Duration, items, bytes int) Probe {
	return Probe{
		Name:     name,
		Category: CategoryMemory,
		Kind:     probe.KindAlloc,
		Params:   map[string]any{"duration": d, "items": items, "bytes": bytes},
	}
}

// Default returns the stock catalog: synthetic probes that stand in for the
// app's subsystems until real instrumentation is configured.
func Default() []Probe {
	ms := time.Millisecond
	return []Probe{
		sleep("SharedStore_Initialization", CategoryCore, ms),
		sleep("SharedStore_TaskAddition", CategoryCore, 2*ms),
		sleep("SharedStore_TaskRetrieval", CategoryCore, ms),
		sleep("SharedStore_ConcurrentAccess", CategoryCore, 5*ms),
		sleep("TimeSlot_Operations", CategoryCore, ms/2),
		sleep("PetEvolution_PointAddition", CategoryCore, 3*ms),
		sleep("PetEvolution_StateCalculation", CategoryCore, 2*ms),

		alloc("Memory_TaskCreation", ms, 1000, 0),
		alloc("Memory_WidgetCreation", 2*ms, 500, 0),
		alloc("Memory_AssetLoading", ms, 0, 100*1024),
		sleep("Memory_LeakDetection", CategoryMemory, 3*ms),

		sleep("UI_ViewCreation", CategoryUI, 2*ms),
		sleep("UI_AnimationPerformance", CategoryUI, 16*ms),
		sleep("UI_ScrollingPerformance", CategoryUI, 8*ms),
		sleep("UI_ResponsivenessTest", CategoryUI, ms),

		sleep("Network_CDNResponse", CategoryNetwork, 50*ms),
		sleep("Network_AssetDownload", CategoryNetwork, 100*ms),
		sleep("Network_FailoverHandling", CategoryNetwork, 200*ms),
		sleep("Network_CacheEfficiency", CategoryNetwork, ms),

		sleep("AI_TaskPlanGeneration", CategoryAI, 50*ms),
		sleep("AI_RecommendationEngine", CategoryAI, 30*ms),
		sleep("AI_SentimentAnalysis", CategoryAI, 10*ms),
		sleep("AI_BehaviorAnalysis", CategoryAI, 40*ms),
	}
}

// Merge applies overrides to base and returns a new catalog. base is not
// modified.
func Merge(base []Probe, overrides []Override) ([]Probe, error) {
	out := slices.Clone(base)

	for _, o := range overrides {
		if o.Name == "" {
			return nil, fmt.Errorf("probe override without a name")
		}

		idx := slices.IndexFunc(out, func(p Probe) bool { return p.Name == o.Name })

		if o.Disabled {
			if idx >= 0 {
				out = slices.Delete(out, idx, idx+1)
			}
			continue
		}

		var p Probe
		if idx >= 0 {
			p = out[idx]
		} else {
			if o.Category == "" || o.Kind == "" {
				return nil, fmt.Errorf("probe %q: new probes need a category and a kind", o.Name)
			}
			p = Probe{Name: o.Name}
		}

		if o.Category != "" {
			c, err := ParseCategory(o.Category)
			if err != nil {
				return nil, fmt.Errorf("probe %q: %w", o.Name, err)
			}
			p.Category = c
		}
		if o.Kind != "" {
			if !slices.Contains(probe.Kinds(), probe.Kind(o.Kind)) {
				return nil, fmt.Errorf("probe %q: %w %q", o.Name, probe.ErrUnknownKind, o.Kind)
			}
			p.Kind = probe.Kind(o.Kind)
			p.Params = o.Params
		} else if o.Params != nil {
			p.Params = o.Params
		}

		if idx >= 0 {
			out[idx] = p
		} else {
			out = append(out, p)
		}
	}

	return out, nil
}

// Ordered returns the probes sorted by category order. Probes within a
// category keep their relative order.
func Ordered(probes []Probe) []Probe {
	out := slices.Clone(probes)
	slices.SortStableFunc(out, func(a, b Probe) int {
		return cmp.Compare(a.Category.Index(), b.Category.Index())
	})
	return out
}

// Build creates the probe body for p.
func Build(p Probe) (probe.Work, error) {
	work, err := probe.Create(p.Kind, p.Params)
	if err != nil {
		return nil, fmt.Errorf("probe %q: %w", p.Name, err)
	}
	return work, nil
}

// Validate builds every probe and checks that names are unique.
func Validate(probes []Probe) error {
	seen := make(map[string]bool, len(probes))
	for _, p := range probes {
		if seen[p.Name] {
			return fmt.Errorf("duplicate probe name %q", p.Name)
		}
		seen[p.Name] = true

		if p.Category.Index() < 0 {
			return fmt.Errorf("probe %q: unknown category %q", p.Name, p.Category)
		}
		if _, err := Build(p); err != nil {
			return err
		}
	}
	return nil
}
