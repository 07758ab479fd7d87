package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/autotimer/internal/compiler"
	"github.com/roach88/autotimer/internal/data"
)

// LoadError represents an error that occurred while loading check data.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Line returns the source line of the error, or 0 without a position.
func (e *LoadError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

// LoadData compiles the .cue files at the root of dir. An empty dir selects
// the data embedded in the binary.
//
// The dataset is nil only when nothing could be compiled. Every error is a
// *LoadError.
func LoadData(dir string, mode compiler.LoadMode) (*data.Dataset, []error) {
	fsys := data.Embedded()
	if dir != "" {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("data directory not found: %s", dir)}}
		}
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing data directory: %v", err)}}
		}
		if !info.IsDir() {
			return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
		}
		fsys = os.DirFS(dir)
		if names, err := fs.Glob(fsys, "*.cue"); err != nil || len(names) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
		}
	}

	ds, errs := data.Load(fsys, mode)

	out := make([]error, 0, len(errs))
	for _, err := range errs {
		out = append(out, convertCompileError(err))
	}
	return ds, out
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Field:   compileErr.Field,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	var validationErr compiler.ValidationError
	if errors.As(err, &validationErr) {
		return &LoadError{
			Code:    validationErr.Code,
			Field:   validationErr.Field,
			Message: validationErr.Message,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Scenario could not be read
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // Store could not be opened
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE syntax error

	// Entry errors
	ErrCodeInvalidCondition = "E010" // Malformed condition or coordinate
	ErrCodeInvalidOffset    = "E011" // Bad hex literal or unmapped offset
	ErrCodeInvalidEntry     = "E012" // Missing id, name or list shape
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "cue":
		return ErrCodeBuildFailed
	case "conditions", "coordinates", "type", "other", "other.type":
		return ErrCodeInvalidCondition
	case "offset", "sram_offset", "sram_mask", "mask", "value", "address_value", "x", "y":
		return ErrCodeInvalidOffset
	case "id", "name", "region", "item",
		compiler.FieldEvents, compiler.FieldLocations, compiler.FieldItems, compiler.FieldActions, compiler.FieldTiles:
		return ErrCodeInvalidEntry
	default:
		return ErrCodeGeneric
	}
}
