package violation

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

// Check compares a single pair. ok is false when the pair is far enough
// apart, including the boundary case where the distances are equal.
func Check(a, b Item, scale geometry.Scale, opts Options) (v Violation, ok bool) {
	if !scale.Valid() {
		return Violation{}, false
	}
	opts = opts.withDefaults()

	actual := scale.ToFeet(geometry.Distance(a.Position, b.Position))
	required := a.reach() + b.reach()
	if !(actual < required) {
		return Violation{}, false
	}

	severity := SeverityWarning
	if required-actual > opts.criticalShortfall() {
		severity = SeverityCritical
	}
	return Violation{
		Equipment1:       a.ID,
		Equipment2:       b.ID,
		ActualDistance:   actual,
		RequiredDistance: required,
		Severity:         severity,
		Description: fmt.Sprintf("%s and %s are %.1f ft apart; %.1f ft required",
			a.label(), b.label(), actual, required),
	}, true
}

// Detect checks every unordered pair of items and returns the violations
// ordered by shortfall, largest first. Pairs are reported with the
// earlier item (by input order) as Equipment1.
//
// Above opts.IndexThreshold items an R-tree prunes pairs whose reach
// squares cannot overlap; the result is identical to checking every pair.
func Detect(items []Item, scale geometry.Scale, opts Options) []Violation {
	if !scale.Valid() || len(items) < 2 {
		return []Violation{}
	}
	opts = opts.withDefaults()

	var out []Violation
	if opts.IndexThreshold > 0 && len(items) > opts.IndexThreshold {
		out = detectIndexed(items, scale, opts)
	} else {
		out = detectAll(items, scale, opts)
	}
	sortViolations(out)
	return out
}

func detectAll(items []Item, scale geometry.Scale, opts Options) []Violation {
	out := []Violation{}
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if v, ok := Check(items[i], items[j], scale, opts); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func sortViolations(vs []Violation) {
	slices.SortStableFunc(vs, func(a, b Violation) int {
		if c := cmp.Compare(b.Shortfall(), a.Shortfall()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Equipment1, b.Equipment1); c != 0 {
			return c
		}
		return cmp.Compare(a.Equipment2, b.Equipment2)
	})
}
