package engine

import (
	"errors"
	"fmt"
)

// ErrTargetExists is returned when the target database already exists. The run
// refuses to start and performs no writes.
var ErrTargetExists = errors.New("target database already exists")

// ImportError reports a failure while importing one file. The file's
// transaction has been rolled back by the time it is returned.
type ImportError struct {
	Table string
	File  string
	Line  int64 // physical line in the source file, 0 if not row related
	Err   error
}

func (e *ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("import of %s into %s failed at line %d: %v", e.File, e.Table, e.Line, e.Err)
	}
	return fmt.Sprintf("import of %s into %s failed: %v", e.File, e.Table, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }
