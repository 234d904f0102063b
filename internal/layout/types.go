package layout

import (
	"time"

	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
)

// PlacedEquipment is one catalog item positioned on the canvas.
type PlacedEquipment struct {
	ID          string `json:"id"`
	EquipmentID string `json:"equipmentId"`

	// X and Y are the item centre in canvas pixels.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Rotation is in degrees, clockwise on screen.
	Rotation float64 `json:"rotation"`

	// Dimensions is a snapshot taken at placement; it may be edited
	// independently of the catalog.
	Dimensions clearance.Dimensions `json:"dimensions"`

	// Clearance overrides the catalog clearance when set.
	Clearance *clearance.Clearance `json:"clearance,omitempty"`

	CustomLabel string `json:"customLabel,omitempty"`
}

// Position returns the item centre in canvas pixels.
func (p PlacedEquipment) Position() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// Clone returns a deep copy of p.
func (p PlacedEquipment) Clone() PlacedEquipment {
	out := p
	out.Clearance = p.Clearance.Clone()
	if p.Dimensions.Depth != nil {
		d := *p.Dimensions.Depth
		out.Dimensions.Depth = &d
	}
	return out
}

// EquipmentDefinition is a catalog entry.
type EquipmentDefinition struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Category    string               `json:"category,omitempty"`
	Dimensions  clearance.Dimensions `json:"dimensions"`
	Clearance   *clearance.Clearance `json:"clearance,omitempty"`
	Color       string               `json:"color,omitempty"`
	Description string               `json:"description,omitempty"`

	// RideClearance is the operating envelope in feet, compared against
	// the item's own clearance by the violation detector.
	RideClearance float64 `json:"rideClearance,omitempty"`
}

// CanvasSettings describes the drawing surface.
type CanvasSettings struct {
	Width         float64        `json:"width"`
	Height        float64        `json:"height"`
	PixelsPerFoot geometry.Scale `json:"pixelsPerFoot"`
	GridSize      float64        `json:"gridSize"`
	ShowGrid      bool           `json:"showGrid"`
}

// DefaultCanvasSettings returns a 5000×5000 px canvas at 10 px/ft.
func DefaultCanvasSettings() CanvasSettings {
	return CanvasSettings{
		Width:         5000,
		Height:        5000,
		PixelsPerFoot: geometry.DefaultPixelsPerFoot,
		GridSize:      50,
		ShowGrid:      true,
	}
}

// BackgroundImage is a reference image layer, typically satellite imagery.
type BackgroundImage struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Src      string  `json:"src,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
	Locked   bool    `json:"locked"`
}

// ImageScale returns the layer's scale factors.
func (b *BackgroundImage) ImageScale() (x, y float64) {
	return b.ScaleX, b.ScaleY
}

// SetImageScale replaces the layer's scale factors.
func (b *BackgroundImage) SetImageScale(x, y float64) {
	b.ScaleX, b.ScaleY = x, y
}

// Metadata identifies a project document.
type Metadata struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Project is the persisted lot plan.
type Project struct {
	Metadata             Metadata                        `json:"metadata"`
	CanvasSettings       CanvasSettings                  `json:"canvasSettings"`
	PlacedEquipment      []PlacedEquipment               `json:"placedEquipment"`
	EquipmentDefinitions []EquipmentDefinition           `json:"equipmentDefinitions"`
	CustomClearances     map[string]*clearance.Clearance `json:"customClearances"`
	BackgroundImages     []BackgroundImage               `json:"backgroundImages"`
	Measurements         []measurement.Measurement       `json:"measurements"`
}

// Image returns the background image with id.
func (p *Project) Image(id string) (*BackgroundImage, bool) {
	for i := range p.BackgroundImages {
		if p.BackgroundImages[i].ID == id {
			return &p.BackgroundImages[i], true
		}
	}
	return nil, false
}

// ItemClearance is the materialised clearance zone of one placed item in
// item-local feet, before rotation.
type ItemClearance struct {
	ItemID   string           `json:"itemId"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Rotation float64          `json:"rotation"`
	Points   []geometry.Point `json:"points"`
}
