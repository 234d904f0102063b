// Package violation detects pairs of placed items that sit closer together
// than their combined clearance allows.
//
// The model is deliberately simple: every item is reduced to a centre point
// and a reach (its largest half extent plus its larger of own and ride
// clearance). Two items violate when their centre distance is strictly less
// than the sum of their reaches. Rotation and true polygon shape are not
// considered.
//
// Detection is a pure function of its inputs. Cache memoises the last
// result keyed on a hash of the item set so callers can invoke it on every
// render without recomputing on unrelated state changes.
package violation
