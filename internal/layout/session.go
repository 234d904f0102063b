package layout

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/jscales4000/LotPlanner-sub000/internal/clearance"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
	"github.com/jscales4000/LotPlanner-sub000/internal/violation"
	"github.com/jscales4000/LotPlanner-sub000/internal/viewport"
)

// Logger defines the logging interface used by the Session.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Session owns the placed equipment of one layout and its selection.
//
// Items keep their insertion order. Every accessor returns deep copies,
// so callers may modify results freely.
//
// All public methods are thread-safe.
type Session struct {
	catalog Catalog
	custom  map[string]*clearance.Clearance

	mu       sync.RWMutex
	items    []PlacedEquipment
	selected map[string]struct{}
	revision uint64

	logger Logger
}

// NewSession creates an empty session. customClearances, keyed by catalog
// equipment ID, override catalog clearances for every item of that type;
// it may be nil.
func NewSession(catalog Catalog, customClearances map[string]*clearance.Clearance) *Session {
	custom := make(map[string]*clearance.Clearance, len(customClearances))
	for k, v := range customClearances {
		custom[k] = v.Clone()
	}
	return &Session{
		catalog:  catalog,
		custom:   custom,
		selected: make(map[string]struct{}),
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the session.
func (s *Session) SetLogger(logger Logger) {
	s.logger = logger
}

// Revision increases on every mutation of the placed items.
func (s *Session) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Add places a new item of catalog type equipmentID centred at (x, y)
// canvas pixels. The item gets a fresh ID and a snapshot of the catalog
// dimensions.
func (s *Session) Add(equipmentID string, x, y float64) (PlacedEquipment, error) {
	def, ok := s.catalog.Resolve(equipmentID)
	if !ok {
		return PlacedEquipment{}, fmt.Errorf("%w: %s", ErrDefinitionNotFound, equipmentID)
	}
	p := PlacedEquipment{
		ID:          uuid.NewString(),
		EquipmentID: equipmentID,
		X:           x,
		Y:           y,
		Dimensions:  def.Dimensions,
	}
	p = p.Clone()

	s.mu.Lock()
	s.items = append(s.items, p)
	s.revision++
	s.mu.Unlock()

	s.logger.Debug("equipment placed", "id", p.ID, "equipment_id", equipmentID)
	return p.Clone(), nil
}

// Load appends existing items, keeping their IDs. Items without an ID are
// given one. Catalog references are not checked; unresolved items become
// dangling.
func (s *Session) Load(items []PlacedEquipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range items {
		p = p.Clone()
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.items = append(s.items, p)
	}
	s.revision++
}

// Get returns the item with id.
func (s *Session) Get(id string) (PlacedEquipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return PlacedEquipment{}, fmt.Errorf("%w: %s", ErrEquipmentNotFound, id)
	}
	return s.items[i].Clone(), nil
}

// Items returns every placed item in order.
func (s *Session) Items() []PlacedEquipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PlacedEquipment, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of placed items.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Move sets the item's centre. Nothing else changes.
func (s *Session) Move(id string, x, y float64) error {
	return s.update(id, func(p *PlacedEquipment) error {
		p.X, p.Y = x, y
		return nil
	})
}

// Rotate sets the item's rotation, normalised to [0, 360).
func (s *Session) Rotate(id string, degrees float64) error {
	return s.update(id, func(p *PlacedEquipment) error {
		p.Rotation = geometry.NormalizeDegrees(degrees)
		return nil
	})
}

// UpdateDimensions replaces the item's dimensions snapshot.
func (s *Session) UpdateDimensions(id string, d clearance.Dimensions) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.update(id, func(p *PlacedEquipment) error {
		p.Dimensions = d
		if d.Depth != nil {
			depth := *d.Depth
			p.Dimensions.Depth = &depth
		}
		return nil
	})
}

// UpdateClearance replaces the item's clearance override. nil removes the
// override. An invalid clearance is rejected with a
// *clearance.ValidationError and the item is left unchanged.
func (s *Session) UpdateClearance(id string, c *clearance.Clearance) error {
	if msgs := clearance.ValidateClearance(c); len(msgs) > 0 {
		return &clearance.ValidationError{Messages: msgs}
	}
	return s.update(id, func(p *PlacedEquipment) error {
		p.Clearance = c.Clone()
		return nil
	})
}

// SetLabel sets the item's custom label. An empty label reverts to the
// catalog name.
func (s *Session) SetLabel(id, label string) error {
	return s.update(id, func(p *PlacedEquipment) error {
		p.CustomLabel = label
		return nil
	})
}

// Delete removes the item and drops it from the selection.
func (s *Session) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEquipmentNotFound, id)
	}
	s.items = slices.Delete(s.items, i, i+1)
	delete(s.selected, id)
	s.revision++
	s.logger.Debug("equipment deleted", "id", id)
	return nil
}

func (s *Session) update(id string, fn func(*PlacedEquipment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEquipmentNotFound, id)
	}
	p := s.items[i].Clone()
	if err := fn(&p); err != nil {
		return err
	}
	s.items[i] = p
	s.revision++
	return nil
}

// indexOf must be called with mu held.
func (s *Session) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(p PlacedEquipment) bool { return p.ID == id })
}

// Select adds ids to the selection. Unknown IDs are ignored.
func (s *Session) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if s.indexOf(id) >= 0 {
			s.selected[id] = struct{}{}
		}
	}
}

// Deselect removes ids from the selection.
func (s *Session) Deselect(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.selected, id)
	}
}

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.selected = make(map[string]struct{})
	s.mu.Unlock()
}

// Selected returns the selected IDs in placement order.
func (s *Session) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.selected))
	for _, p := range s.items {
		if _, ok := s.selected[p.ID]; ok {
			out = append(out, p.ID)
		}
	}
	return out
}

// IsSelected reports whether id is selected.
func (s *Session) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// resolved pairs an item with its catalog definition.
type resolved struct {
	item PlacedEquipment
	def  EquipmentDefinition
}

// resolve splits items into those with a catalog entry and the IDs of
// dangling ones.
func (s *Session) resolve() (live []resolved, dangling []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.items {
		def, ok := s.catalog.Resolve(p.EquipmentID)
		if !ok {
			dangling = append(dangling, p.ID)
			continue
		}
		live = append(live, resolved{item: p.Clone(), def: def})
	}
	if len(dangling) > 0 {
		s.logger.Warn("skipping placed equipment with missing catalog entry", "count", len(dangling))
	}
	return live, dangling
}

// effectiveClearance applies override → custom → catalog precedence.
func (s *Session) effectiveClearance(r resolved) *clearance.Clearance {
	return clearance.Resolve(r.item.Clearance, clearance.Resolve(s.custom[r.item.EquipmentID], r.def.Clearance))
}

// Dangling returns the IDs of items whose catalog entry is missing.
func (s *Session) Dangling() []string {
	_, dangling := s.resolve()
	return dangling
}

// ViolationItems returns the detector input for every live item.
func (s *Session) ViolationItems() []violation.Item {
	live, _ := s.resolve()
	out := make([]violation.Item, 0, len(live))
	for _, r := range live {
		name := r.item.CustomLabel
		if name == "" {
			name = r.def.Name
		}
		out = append(out, violation.Item{
			ID:            r.item.ID,
			Name:          name,
			Position:      r.item.Position(),
			Rotation:      r.item.Rotation,
			Dimensions:    r.item.Dimensions,
			Clearance:     s.effectiveClearance(r),
			RideClearance: r.def.RideClearance,
		})
	}
	return out
}

// Clearances materialises the clearance polygon of every live item that
// has a non-zero clearance. segments controls arc resolution.
func (s *Session) Clearances(segments int) []ItemClearance {
	live, _ := s.resolve()
	out := make([]ItemClearance, 0, len(live))
	for _, r := range live {
		c := s.effectiveClearance(r)
		if c.IsZero() {
			continue
		}
		out = append(out, ItemClearance{
			ItemID:   r.item.ID,
			X:        r.item.X,
			Y:        r.item.Y,
			Rotation: r.item.Rotation,
			Points:   clearance.GeneratePolygonPoints(c.ToCustom(r.item.Dimensions), segments),
		})
	}
	return out
}

// Footprints returns the canvas-pixel bounding box of every live item
// including its clearance, for fit-to-content.
func (s *Session) Footprints(scale geometry.Scale) []geometry.Bounds {
	live, _ := s.resolve()
	out := make([]geometry.Bounds, 0, len(live))
	for _, r := range live {
		out = append(out, viewport.ItemBounds(r.item.Position(), r.item.Rotation, r.item.Dimensions, s.effectiveClearance(r), scale))
	}
	return out
}

// Violations runs the detector over the live items.
func (s *Session) Violations(scale geometry.Scale, opts violation.Options) []violation.Violation {
	return violation.Detect(s.ViolationItems(), scale, opts)
}
