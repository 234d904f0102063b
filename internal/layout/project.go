package layout

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
)

// FormatVersion is the project document version written by Export.
const FormatVersion = "1.0.0"

//go:embed project.schema.json
var projectSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(projectSchema)

// NewProject returns an empty project with default canvas settings.
func NewProject(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		Metadata: Metadata{
			Name:      name,
			Version:   FormatVersion,
			CreatedAt: now,
			UpdatedAt: now,
		},
		CanvasSettings:       DefaultCanvasSettings(),
		PlacedEquipment:      []PlacedEquipment{},
		EquipmentDefinitions: []EquipmentDefinition{},
		CustomClearances:     map[string]*clearance.Clearance{},
		BackgroundImages:     []BackgroundImage{},
		Measurements:         []measurement.Measurement{},
	}
}

// Import parses a project document. Structural problems (missing
// metadata, placedEquipment or backgroundImages, wrong types) fail with
// an *ImportError. Missing optional sections are defaulted, and anything
// suspicious but usable is returned as a warning: a version other than
// FormatVersion, an invalid scale, invalid clearances, or placed items
// whose catalog entry is missing.
func Import(data []byte) (*Project, []string, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.Field()+": "+desc.Description())
		}
		return nil, nil, &ImportError{Problems: problems}
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	warnings := p.normalize()
	return &p, warnings, nil
}

// normalize fills defaults in place and returns warnings.
func (p *Project) normalize() []string {
	var warnings []string

	if p.Metadata.Version != FormatVersion {
		warnings = append(warnings, fmt.Sprintf("project version %q differs from supported version %q", p.Metadata.Version, FormatVersion))
	}

	def := DefaultCanvasSettings()
	cs := &p.CanvasSettings
	if cs.Width <= 0 {
		cs.Width = def.Width
	}
	if cs.Height <= 0 {
		cs.Height = def.Height
	}
	if cs.GridSize <= 0 {
		cs.GridSize = def.GridSize
	}
	if !cs.PixelsPerFoot.Valid() {
		if cs.PixelsPerFoot != 0 {
			warnings = append(warnings, fmt.Sprintf("invalid pixelsPerFoot %v, using %v", float64(cs.PixelsPerFoot), float64(def.PixelsPerFoot)))
		}
		cs.PixelsPerFoot = def.PixelsPerFoot
	}

	if p.PlacedEquipment == nil {
		p.PlacedEquipment = []PlacedEquipment{}
	}
	if p.EquipmentDefinitions == nil {
		p.EquipmentDefinitions = []EquipmentDefinition{}
	}
	if p.CustomClearances == nil {
		p.CustomClearances = map[string]*clearance.Clearance{}
	}
	if p.BackgroundImages == nil {
		p.BackgroundImages = []BackgroundImage{}
	}
	if p.Measurements == nil {
		p.Measurements = []measurement.Measurement{}
	}

	for i := range p.BackgroundImages {
		img := &p.BackgroundImages[i]
		if img.ScaleX == 0 {
			img.ScaleX = 1
		}
		if img.ScaleY == 0 {
			img.ScaleY = 1
		}
	}

	catalog := NewMapCatalog(nil)
	for i := range p.EquipmentDefinitions {
		d := &p.EquipmentDefinitions[i]
		d.Dimensions = inferShape(d.Dimensions)
		catalog[d.ID] = *d
		for _, msg := range clearance.ValidateClearance(d.Clearance) {
			warnings = append(warnings, fmt.Sprintf("equipment definition %s: %s", d.ID, msg))
		}
	}
	for id, c := range p.CustomClearances {
		for _, msg := range clearance.ValidateClearance(c) {
			warnings = append(warnings, fmt.Sprintf("custom clearance %s: %s", id, msg))
		}
	}

	for i := range p.PlacedEquipment {
		item := &p.PlacedEquipment[i]
		def, ok := catalog.Resolve(item.EquipmentID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("placed equipment %s references unknown equipment %q and will be skipped", item.ID, item.EquipmentID))
		}
		item.Dimensions = inferShape(item.Dimensions)
		if err := item.Dimensions.Validate(); err != nil {
			if ok {
				item.Dimensions = def.Dimensions
			} else {
				warnings = append(warnings, fmt.Sprintf("placed equipment %s: %v", item.ID, err))
			}
		}
		for _, msg := range clearance.ValidateClearance(item.Clearance) {
			warnings = append(warnings, fmt.Sprintf("placed equipment %s: %s", item.ID, msg))
		}
	}

	return warnings
}

// inferShape fills a missing shape tag from which fields are set.
func inferShape(d clearance.Dimensions) clearance.Dimensions {
	if d.Shape != "" {
		return d
	}
	if d.Radius > 0 {
		d.Shape = clearance.ShapeCircle
	} else if d.Width > 0 || d.Height > 0 {
		d.Shape = clearance.ShapeRectangle
	}
	return d
}

// Export serialises p. Numbers are written with full precision, so
// Import(Export(p)) reproduces p.
func Export(p *Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding project: %w", err)
	}
	return data, nil
}

// Catalog returns the project's own equipment definitions as a Catalog.
func (p *Project) Catalog() MapCatalog {
	return NewMapCatalog(p.EquipmentDefinitions)
}

// Session builds a Session holding the project's placed equipment,
// resolved against its own definitions.
func (p *Project) Session() *Session {
	s := NewSession(p.Catalog(), p.CustomClearances)
	s.Load(p.PlacedEquipment)
	return s
}

// SetItems replaces the placed equipment with a session's current items
// and bumps UpdatedAt.
func (p *Project) SetItems(items []PlacedEquipment) {
	p.PlacedEquipment = items
	p.Metadata.UpdatedAt = time.Now().UTC()
}
