package layout

// Catalog resolves catalog equipment IDs.
type Catalog interface {
	Resolve(equipmentID string) (EquipmentDefinition, bool)
}

// MapCatalog is an in-memory Catalog.
type MapCatalog map[string]EquipmentDefinition

// NewMapCatalog indexes defs by ID. Later duplicates win.
func NewMapCatalog(defs []EquipmentDefinition) MapCatalog {
	c := make(MapCatalog, len(defs))
	for _, d := range defs {
		c[d.ID] = d
	}
	return c
}

// Resolve implements Catalog.
func (c MapCatalog) Resolve(equipmentID string) (EquipmentDefinition, bool) {
	d, ok := c[equipmentID]
	return d, ok
}
