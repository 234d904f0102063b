package layout

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
)

const minimalProject = `{
  "metadata": {"name": "County Fair", "version": "1.0.0"},
  "placedEquipment": [],
  "backgroundImages": []
}`

func TestImport_Minimal(t *testing.T) {
	p, warnings, err := Import([]byte(minimalProject))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if p.CanvasSettings.PixelsPerFoot != 10 || p.CanvasSettings.Width != 5000 || p.CanvasSettings.GridSize != 50 {
		t.Errorf("canvas defaults not applied: %+v", p.CanvasSettings)
	}
	if p.EquipmentDefinitions == nil || p.CustomClearances == nil || p.Measurements == nil {
		t.Error("optional sections should default to empty, not nil")
	}
}

func TestImport_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		missing string
	}{
		{"no metadata", `{"placedEquipment": [], "backgroundImages": []}`, "metadata"},
		{"no placedEquipment", `{"metadata": {}, "backgroundImages": []}`, "placedEquipment"},
		{"no backgroundImages", `{"metadata": {}, "placedEquipment": []}`, "backgroundImages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Import([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidProject) {
				t.Fatalf("Import() error = %v, want ErrInvalidProject", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not mention %s", err, tt.missing)
			}
		})
	}
}

func TestImport_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"metadata":`},
		{"array", `[]`},
		{"wrong type", `{"metadata": {}, "placedEquipment": {}, "backgroundImages": []}`},
		{"placed item without position", `{"metadata": {}, "placedEquipment": [{"id": "a", "equipmentId": "b"}], "backgroundImages": []}`},
		{"bad clearance type", `{"metadata": {}, "placedEquipment": [{"id": "a", "equipmentId": "b", "x": 0, "y": 0, "clearance": {"type": "oval"}}], "backgroundImages": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Import([]byte(tt.doc)); !errors.Is(err, ErrInvalidProject) {
				t.Errorf("Import() error = %v, want ErrInvalidProject", err)
			}
		})
	}
}

func TestImport_Warnings(t *testing.T) {
	doc := `{
	  "metadata": {"name": "Old", "version": "0.9.0"},
	  "canvasSettings": {"pixelsPerFoot": -4},
	  "equipmentDefinitions": [
	    {"id": "booth", "name": "Booth", "dimensions": {"width": 10, "height": 8}}
	  ],
	  "placedEquipment": [
	    {"id": "p1", "equipmentId": "booth", "x": 10, "y": 20},
	    {"id": "p2", "equipmentId": "gone", "x": 0, "y": 0, "dimensions": {"radius": 3}},
	    {"id": "p3", "equipmentId": "booth", "x": 5, "y": 5,
	     "clearance": {"type": "custom", "points": [{"x": 0, "y": 0, "curveType": "arc", "curveAngle": 60}], "closed": true}}
	  ],
	  "backgroundImages": [{"id": "sat"}]
	}`
	p, warnings, err := Import([]byte(doc))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	joined := strings.Join(warnings, "\n")
	for _, want := range []string{`version "0.9.0"`, "pixelsPerFoot", `p2 references unknown equipment "gone"`, "p3: clearance polygon must have at least 3 points", "p3: point 1: curve angle"} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q:\n%s", want, joined)
		}
	}

	if p.CanvasSettings.PixelsPerFoot != geometry.DefaultPixelsPerFoot {
		t.Errorf("pixelsPerFoot = %v, want default", p.CanvasSettings.PixelsPerFoot)
	}
	if p.PlacedEquipment[0].Dimensions != clearance.Rect(10, 8) {
		t.Errorf("p1 dimensions = %+v, want catalog default", p.PlacedEquipment[0].Dimensions)
	}
	if p.PlacedEquipment[1].Dimensions != clearance.Circle(3) {
		t.Errorf("p2 dimensions = %+v, want inferred circle", p.PlacedEquipment[1].Dimensions)
	}
	if img := p.BackgroundImages[0]; img.ScaleX != 1 || img.ScaleY != 1 {
		t.Errorf("image scale = %v,%v, want 1,1", img.ScaleX, img.ScaleY)
	}
}

func TestImport_DanglingItemDimensions(t *testing.T) {
	doc := `{
	  "metadata": {"name": "Midway", "version": "1.0.0"},
	  "equipmentDefinitions": [
	    {"id": "booth", "name": "Booth", "dimensions": {"width": 10, "height": 8}}
	  ],
	  "placedEquipment": [
	    {"id": "fixed", "equipmentId": "booth", "x": 0, "y": 0, "dimensions": {"width": -2, "height": 8}},
	    {"id": "lost", "equipmentId": "gone", "x": 0, "y": 0, "dimensions": {"width": -2, "height": 8}},
	    {"id": "bare", "equipmentId": "gone", "x": 0, "y": 0}
	  ],
	  "backgroundImages": []
	}`
	p, warnings, err := Import([]byte(doc))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	count := func(id string) (n int) {
		for _, w := range warnings {
			if strings.HasPrefix(w, "placed equipment "+id+":") {
				n++
			}
		}
		return n
	}
	tests := []struct {
		id   string
		want int
	}{
		{"fixed", 0}, // repaired from the catalog
		{"lost", 1},
		{"bare", 1},
	}
	for _, tt := range tests {
		if got := count(tt.id); got != tt.want {
			t.Errorf("%s: %d dimension warnings, want %d\n%s", tt.id, got, tt.want, strings.Join(warnings, "\n"))
		}
	}

	if p.PlacedEquipment[0].Dimensions != clearance.Rect(10, 8) {
		t.Errorf("fixed dimensions = %+v, want catalog default", p.PlacedEquipment[0].Dimensions)
	}
}

func sampleProject() *Project {
	ts := time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC)
	p := NewProject("Harvest Festival")
	p.Metadata.CreatedAt = ts
	p.Metadata.UpdatedAt = ts
	p.CanvasSettings.PixelsPerFoot = 12.345678901234567
	p.EquipmentDefinitions = []EquipmentDefinition{
		{ID: "zipper", Name: "Zipper", Category: "rides", Dimensions: clearance.Rect(58, 13), RideClearance: 6.5, Color: "#ff0000"},
	}
	p.CustomClearances = map[string]*clearance.Clearance{
		"zipper": clearance.NewCustom(clearance.Custom{
			Points: []clearance.Point{
				{X: -35, Y: -10, CurveType: clearance.CurveArc, CurveAngle: f(90), CurveDirection: clearance.Clockwise},
				{X: 35, Y: -10, CurveType: clearance.CurveNone},
				{X: 0.1 + 0.2, Y: 12, CurveType: clearance.CurveNone},
			},
			Closed: true,
		}),
	}
	p.PlacedEquipment = []PlacedEquipment{
		{
			ID: "p1", EquipmentID: "zipper", X: 1234.5678, Y: 1e-7, Rotation: 33.3,
			Dimensions: clearance.Rect(58, 13),
			Clearance:  clearance.NewRectangular(clearance.Rectangular{Front: f(0), All: f(2.25)}),
		},
		{ID: "p2", EquipmentID: "zipper", X: 10, Y: 20, CustomLabel: "Zipper #2", Dimensions: clearance.Rect(58, 13)},
	}
	p.BackgroundImages = []BackgroundImage{
		{ID: "sat", Name: "Satellite", X: -100, Y: -50, ScaleX: 1.0625, ScaleY: 0.9375, Rotation: 2, Opacity: 0.5, Locked: true},
	}
	p.Measurements = []measurement.Measurement{
		{ID: "m1", Kind: measurement.KindDistance, Points: []geometry.Point{{X: 0, Y: 0}, {X: 30, Y: 40}}, Distance: 5, Label: "5.0 ft", Color: "#ef4444", Completed: true, CreatedAt: ts},
	}
	return p
}

func TestExportImport_RoundTrip(t *testing.T) {
	orig := sampleProject()
	data, err := Export(orig)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	got, warnings, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if !reflect.DeepEqual(orig, got) {
		t.Errorf("round trip changed the project\n got: %+v\nwant: %+v", got, orig)
	}
}

func TestProject_Session(t *testing.T) {
	p := sampleProject()
	s := p.Session()
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	items := s.ViolationItems()
	if len(items) != 2 {
		t.Fatalf("got %d violation items", len(items))
	}
	if items[1].Name != "Zipper #2" || items[1].Clearance.Kind() != clearance.KindCustom {
		t.Errorf("p2 should use label and custom clearance: %+v", items[1])
	}

	_ = s.Move("p2", 99, 98)
	before := p.Metadata.UpdatedAt
	p.SetItems(s.Items())
	if p.PlacedEquipment[1].X != 99 || p.Metadata.UpdatedAt.Equal(before) {
		t.Errorf("SetItems did not apply: %+v", p.PlacedEquipment[1])
	}
}

func TestProject_Image(t *testing.T) {
	p := sampleProject()
	img, ok := p.Image("sat")
	if !ok {
		t.Fatal("image not found")
	}
	img.SetImageScale(2, 3)
	if p.BackgroundImages[0].ScaleX != 2 {
		t.Error("Image should return a pointer into the project")
	}
	if _, ok := p.Image("none"); ok {
		t.Error("unexpected image")
	}
}
