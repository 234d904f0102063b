// Package layout owns the placed equipment of a lot plan and the project
// file that persists it.
//
// A Session holds the ordered placed items, the selection, and the
// equipment catalog used to resolve each item's name and clearances. It
// is the single writer of placed items: add, move, rotate, delete and the
// explicit edit operations are the only mutations. From a Session the
// geometry packages get their inputs: violation items, materialised
// clearance polygons and fit-to-content footprints.
//
// Items whose catalog entry is missing are dangling. They are kept (so a
// later catalog fix restores them) but skipped from rendering and
// violation detection.
//
// Project is the JSON document written to disk and stored in SQLite.
// Import validates it with a JSON schema, fills in missing optional
// sections and reports non-fatal problems as warnings.
package layout
