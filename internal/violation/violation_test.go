package violation

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
)

const ppf = geometry.Scale(10)

func f(v float64) *float64 { return &v }

// circle returns a circular item of the given radius centred at (x, y) feet.
func circle(id string, radius, xFeet, yFeet float64) Item {
	return Item{
		ID:         id,
		Name:       strings.ToUpper(id),
		Position:   geometry.Point{X: xFeet * float64(ppf), Y: yFeet * float64(ppf)},
		Dimensions: clearance.Circle(radius),
	}
}

func TestCheck_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		wantOK   bool
		severity Severity
	}{
		{"exactly touching", 10, false, ""},
		{"far apart", 50, false, ""},
		{"just inside", 9.9, true, SeverityWarning},
		{"shortfall of exactly ten", 0, true, SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := circle("a", 5, 0, 0)
			b := circle("b", 5, tt.distance, 0)
			v, ok := Check(a, b, ppf, DefaultOptions())
			if ok != tt.wantOK {
				t.Fatalf("Check() ok = %v, want %v (%+v)", ok, tt.wantOK, v)
			}
			if ok && v.Severity != tt.severity {
				t.Errorf("severity = %s, want %s", v.Severity, tt.severity)
			}
		})
	}
}

func TestCheck_Critical(t *testing.T) {
	a := circle("a", 5, 0, 0)
	a.RideClearance = 4
	b := circle("b", 5, 2, 0)
	b.RideClearance = 4
	// required 18, actual 2, shortfall 16
	v, ok := Check(a, b, ppf, DefaultOptions())
	if !ok {
		t.Fatal("expected violation")
	}
	if v.Severity != SeverityCritical {
		t.Errorf("severity = %s, want critical", v.Severity)
	}
	if math.Abs(v.Shortfall()-16) > 1e-9 {
		t.Errorf("shortfall = %v, want 16", v.Shortfall())
	}

	// A looser threshold turns it back into a warning.
	v, _ = Check(a, b, ppf, Options{CriticalShortfall: 20})
	if v.Severity != SeverityWarning {
		t.Errorf("severity with threshold 20 = %s, want warning", v.Severity)
	}
}

func TestCheck_CriticalShortfallSentinels(t *testing.T) {
	a := circle("a", 5, 0, 0)
	b := circle("b", 5, 9, 0)
	// required 10, actual 9, shortfall 1

	tests := []struct {
		name string
		opts Options
		want Severity
	}{
		{"zero uses default", Options{}, SeverityWarning},
		{"all critical", Options{CriticalShortfall: AllCritical}, SeverityCritical},
		{"any negative", Options{CriticalShortfall: -3}, SeverityCritical},
		{"configured zero", ConfiguredOptions(0, 0), SeverityCritical},
		{"configured threshold", ConfiguredOptions(0.5, 0), SeverityCritical},
		{"configured default", ConfiguredOptions(DefaultCriticalShortfall, 0), SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Check(a, b, ppf, tt.opts)
			if !ok {
				t.Fatal("expected violation")
			}
			if v.Severity != tt.want {
				t.Errorf("severity = %s, want %s", v.Severity, tt.want)
			}
		})
	}

	// The cache resolves options once and must keep the sentinel.
	vs := NewCache(ConfiguredOptions(0, 0)).Detect([]Item{a, b}, ppf)
	if len(vs) != 1 || vs[0].Severity != SeverityCritical {
		t.Errorf("cached detect = %+v, want one critical", vs)
	}
}

func TestCheck_Symmetric(t *testing.T) {
	a := Item{ID: "a", Position: geometry.Point{X: 13, Y: 71}, Dimensions: clearance.Rect(20, 8),
		Clearance: clearance.NewRectangular(clearance.Rectangular{Front: f(3), Back: f(6)})}
	b := Item{ID: "b", Position: geometry.Point{X: 90, Y: -40}, Dimensions: clearance.Circle(7), RideClearance: 9}

	ab, okAB := Check(a, b, ppf, DefaultOptions())
	ba, okBA := Check(b, a, ppf, DefaultOptions())
	if okAB != okBA {
		t.Fatalf("ok differs: %v vs %v", okAB, okBA)
	}
	if ab.ActualDistance != ba.ActualDistance || ab.RequiredDistance != ba.RequiredDistance {
		t.Errorf("distances differ: %+v vs %+v", ab, ba)
	}
	if ab.Severity != ba.Severity {
		t.Errorf("severity differs: %s vs %s", ab.Severity, ba.Severity)
	}
}

func TestCheck_RequiredDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Item
		want float64
	}{
		{
			name: "ride clearance wins over own",
			a:    Item{Dimensions: clearance.Circle(5), RideClearance: 2, Clearance: clearance.NewRectangular(clearance.Uniform(1))},
			b:    Item{Dimensions: clearance.Circle(5), RideClearance: 2},
			want: 14,
		},
		{
			name: "own clearance wins over ride",
			a:    Item{Dimensions: clearance.Rect(30, 10), Clearance: clearance.NewRectangular(clearance.Rectangular{Left: f(8)})},
			b:    Item{Dimensions: clearance.Rect(4, 6), RideClearance: 1},
			want: 8 + 15 + 1 + 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Check(tt.a, tt.b, ppf, DefaultOptions())
			if !ok {
				t.Fatal("coincident items must violate")
			}
			if math.Abs(v.RequiredDistance-tt.want) > 1e-9 {
				t.Errorf("required = %v, want %v", v.RequiredDistance, tt.want)
			}
		})
	}
}

func TestCheck_Description(t *testing.T) {
	a := circle("a", 5, 0, 0)
	b := circle("b", 5, 9.9, 0)
	b.Name = ""
	v, _ := Check(a, b, ppf, DefaultOptions())
	want := "A and b are 9.9 ft apart; 10.0 ft required"
	if v.Description != want {
		t.Errorf("description = %q, want %q", v.Description, want)
	}
}

func TestCheck_InvalidScale(t *testing.T) {
	if _, ok := Check(circle("a", 5, 0, 0), circle("b", 5, 0, 0), 0, DefaultOptions()); ok {
		t.Error("zero scale must not report violations")
	}
}

func TestDetect_EndToEnd(t *testing.T) {
	item := func(id string, x float64) Item {
		return Item{
			ID:            id,
			Name:          id,
			Position:      geometry.Point{X: x, Y: 0},
			Dimensions:    clearance.Circle(5),
			RideClearance: 2,
		}
	}

	tests := []struct {
		name     string
		secondX  float64
		wantLen  int
		severity Severity
	}{
		{"24 ft apart", 240, 0, ""},
		{"14 ft apart is the boundary", 140, 0, ""},
		{"13 ft apart", 130, 1, SeverityWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect([]Item{item("ride1", 0), item("ride2", tt.secondX)}, ppf, DefaultOptions())
			if len(got) != tt.wantLen {
				t.Fatalf("Detect() = %+v, want %d violations", got, tt.wantLen)
			}
			if tt.wantLen == 0 {
				return
			}
			v := got[0]
			if v.Severity != tt.severity {
				t.Errorf("severity = %s, want %s", v.Severity, tt.severity)
			}
			if math.Abs(v.RequiredDistance-14) > 1e-9 || math.Abs(v.ActualDistance-13) > 1e-9 {
				t.Errorf("distances = %v/%v, want 13/14", v.ActualDistance, v.RequiredDistance)
			}
			if math.Abs(v.Shortfall()-1) > 1e-9 {
				t.Errorf("shortfall = %v, want 1", v.Shortfall())
			}
		})
	}
}

func TestDetect_SortedByShortfall(t *testing.T) {
	items := []Item{
		circle("a", 5, 0, 0),
		circle("b", 5, 9, 0),  // a-b shortfall 1
		circle("c", 5, 9, 5),  // b-c shortfall 5, a-c ≈ 10.3 apart, no violation
		circle("d", 5, 100, 0),
	}
	got := Detect(items, ppf, DefaultOptions())
	if len(got) != 2 {
		t.Fatalf("got %d violations, want 2: %+v", len(got), got)
	}
	if got[0].Equipment1 != "b" || got[0].Equipment2 != "c" {
		t.Errorf("first violation = %s/%s, want b/c", got[0].Equipment1, got[0].Equipment2)
	}
	if got[1].Equipment1 != "a" || got[1].Equipment2 != "b" {
		t.Errorf("second violation = %s/%s, want a/b", got[1].Equipment1, got[1].Equipment2)
	}
}

func TestDetect_Degenerate(t *testing.T) {
	if got := Detect(nil, ppf, DefaultOptions()); got == nil || len(got) != 0 {
		t.Errorf("nil input = %v, want empty slice", got)
	}
	if got := Detect([]Item{circle("a", 1, 0, 0)}, ppf, DefaultOptions()); len(got) != 0 {
		t.Errorf("single item = %v, want none", got)
	}
}

func randomItems(n int, seed int64) []Item {
	rng := rand.New(rand.NewSource(seed))
	items := make([]Item, n)
	for i := range items {
		var dim clearance.Dimensions
		if rng.Intn(2) == 0 {
			dim = clearance.Circle(1 + rng.Float64()*10)
		} else {
			dim = clearance.Rect(1+rng.Float64()*30, 1+rng.Float64()*30)
		}
		it := Item{
			ID:            string(rune('A'+i%26)) + string(rune('a'+i/26%26)) + string(rune('0'+i/676)),
			Position:      geometry.Point{X: rng.Float64() * 4000, Y: rng.Float64() * 4000},
			Rotation:      rng.Float64() * 360,
			Dimensions:    dim,
			RideClearance: rng.Float64() * 5,
		}
		if rng.Intn(3) == 0 {
			it.Clearance = clearance.NewRectangular(clearance.Uniform(rng.Float64() * 8))
		}
		items[i] = it
	}
	return items
}

func TestDetect_IndexMatchesBruteForce(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		items := randomItems(300, seed)

		brute := Detect(items, ppf, Options{IndexThreshold: -1})
		indexed := Detect(items, ppf, Options{IndexThreshold: 10})

		if len(brute) == 0 {
			t.Fatalf("seed %d: fixture produced no violations", seed)
		}
		if !reflect.DeepEqual(brute, indexed) {
			t.Errorf("seed %d: indexed result differs: %d vs %d violations", seed, len(indexed), len(brute))
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Violation{
		{Severity: SeverityWarning},
		{Severity: SeverityCritical},
		{Severity: SeverityWarning},
	})
	if s != (Summary{Total: 3, Warning: 2, Critical: 1}) {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestCache(t *testing.T) {
	c := NewCache(DefaultOptions())
	items := []Item{circle("a", 5, 0, 0), circle("b", 5, 9, 0)}

	first := c.Detect(items, ppf)
	second := c.Detect(items, ppf)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("cached result differs")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 1/1", hits, misses)
	}

	// Mutating the returned slice must not poison the cache.
	second[0].Description = "changed"
	if third := c.Detect(items, ppf); third[0].Description == "changed" {
		t.Error("cache returned shared slice")
	}

	moved := []Item{items[0], circle("b", 5, 50, 0)}
	if got := c.Detect(moved, ppf); len(got) != 0 {
		t.Errorf("after move got %d violations, want 0", len(got))
	}
	if got := c.Detect(moved, 100); len(got) != 1 {
		t.Errorf("after scale change got %d violations, want 1", len(got))
	}
	if _, misses := c.Stats(); misses != 3 {
		t.Errorf("misses = %d, want 3", misses)
	}

	c.Invalidate()
	c.Detect(moved, 100)
	if _, misses := c.Stats(); misses != 4 {
		t.Errorf("misses after Invalidate = %d, want 4", misses)
	}
}

func TestContentHash(t *testing.T) {
	items := []Item{circle("a", 5, 0, 0)}
	h1, err := ContentHash(items, ppf)
	if err != nil {
		t.Fatal(err)
	}
	items[0].Rotation = 45
	h2, _ := ContentHash(items, ppf)
	if h1 == h2 {
		t.Error("rotation change should change hash")
	}
	items[0].Rotation = 0
	h3, _ := ContentHash(items, ppf)
	if h1 != h3 {
		t.Error("hash should be deterministic")
	}
}
