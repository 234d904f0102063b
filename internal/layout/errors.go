package layout

import (
	"errors"
	"strings"
)

var (
	// ErrEquipmentNotFound is returned when a placed item ID does not exist.
	ErrEquipmentNotFound = errors.New("placed equipment not found")

	// ErrDefinitionNotFound is returned when a catalog equipment ID does not exist.
	ErrDefinitionNotFound = errors.New("equipment definition not found")

	// ErrProjectNotFound is returned when a project ID does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrImageNotFound is returned when a background image ID does not exist.
	ErrImageNotFound = errors.New("background image not found")

	// ErrInvalidProject is returned when a project document fails validation.
	ErrInvalidProject = errors.New("invalid project")
)

// ImportError lists every structural problem found in a project document.
// errors.Is(err, ErrInvalidProject) holds for it.
type ImportError struct {
	Problems []string
}

func (e *ImportError) Error() string {
	return ErrInvalidProject.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ImportError) Unwrap() error {
	return ErrInvalidProject
}
