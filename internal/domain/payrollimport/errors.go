package payrollimport

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile     = errors.New("import file contains no usable lines")
	ErrImportStorage = errors.New("failed to store import batch")
)

// StructureError reports a first-line shape violation. The specific violated
// field is named so the user can fix the extract before retrying; nothing is
// stored when one is raised.
type StructureError struct {
	Field   string
	Message string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("import file structure invalid: %s: %s", e.Field, e.Message)
}
