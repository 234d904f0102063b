package violation

import (
	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// Severity classifies how far apart a pair falls short.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Default detector settings.
const (
	// DefaultCriticalShortfall is the shortfall in feet above which a
	// violation is critical.
	DefaultCriticalShortfall = 10.0

	// DefaultIndexThreshold is the item count above which an R-tree is used
	// to prune candidate pairs.
	DefaultIndexThreshold = 64
)

// Item is the detector's view of a placed item.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Position is the item centre in canvas pixels.
	Position geometry.Point `json:"position"`
	Rotation float64        `json:"rotation"`

	Dimensions clearance.Dimensions `json:"dimensions"`
	Clearance  *clearance.Clearance `json:"clearance,omitempty"`

	// RideClearance is the catalog's operating clearance in feet.
	RideClearance float64 `json:"rideClearance"`
}

// label is the name used in descriptions.
func (it Item) label() string {
	if it.Name != "" {
		return it.Name
	}
	return it.ID
}

// buffer is the larger of own and ride clearance, in feet.
func (it Item) buffer() float64 {
	return max(clearance.OwnClearance(it.Dimensions, it.Clearance), it.RideClearance)
}

// reach is how far from its centre an item claims space, in feet.
func (it Item) reach() float64 {
	return it.buffer() + clearance.MaxHalfExtent(it.Dimensions)
}

// Violation is a pair of items closer than their required separation.
// Distances are in feet.
type Violation struct {
	Equipment1       string   `json:"equipment1"`
	Equipment2       string   `json:"equipment2"`
	ActualDistance   float64  `json:"actualDistance"`
	RequiredDistance float64  `json:"requiredDistance"`
	Severity         Severity `json:"severity"`
	Description      string   `json:"description"`
}

// Shortfall returns how many feet the pair is short of its requirement.
func (v Violation) Shortfall() float64 {
	return v.RequiredDistance - v.ActualDistance
}

// Options tunes the detector.
type Options struct {
	// CriticalShortfall is the shortfall in feet above which a violation
	// is critical. Zero uses DefaultCriticalShortfall; a negative value
	// (AllCritical) makes every violation critical.
	CriticalShortfall float64

	// IndexThreshold is the item count above which candidate pairs are
	// pruned with an R-tree. Zero uses DefaultIndexThreshold; a negative
	// value disables the index.
	IndexThreshold int
}

// DefaultOptions returns the standard detector settings.
func DefaultOptions() Options {
	return Options{
		CriticalShortfall: DefaultCriticalShortfall,
		IndexThreshold:    DefaultIndexThreshold,
	}
}

// AllCritical as Options.CriticalShortfall classifies every violation as
// critical.
const AllCritical = -1.0

// ConfiguredOptions builds Options from configuration values, where a
// critical shortfall of exactly 0 means every violation is critical.
func ConfiguredOptions(criticalShortfall float64, indexThreshold int) Options {
	if criticalShortfall == 0 {
		criticalShortfall = AllCritical
	}
	return Options{CriticalShortfall: criticalShortfall, IndexThreshold: indexThreshold}
}

// criticalShortfall resolves the zero and negative sentinels.
func (o Options) criticalShortfall() float64 {
	switch {
	case o.CriticalShortfall < 0:
		return 0
	case o.CriticalShortfall == 0:
		return DefaultCriticalShortfall
	}
	return o.CriticalShortfall
}

func (o Options) withDefaults() Options {
	if o.IndexThreshold == 0 {
		o.IndexThreshold = DefaultIndexThreshold
	}
	return o
}

// Summary counts violations by severity.
type Summary struct {
	Total    int `json:"total"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

// Summarize counts vs by severity.
func Summarize(vs []Violation) Summary {
	s := Summary{Total: len(vs)}
	for _, v := range vs {
		if v.Severity == SeverityCritical {
			s.Critical++
		} else {
			s.Warning++
		}
	}
	return s
}
