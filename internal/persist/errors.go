package persist

import "fmt"

// FileError reports a model path that is missing or unreadable, or a
// failed write. It wraps the underlying I/O error, so errors.Is with
// fs.ErrNotExist works through it.
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("model file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// SchemaError reports a persisted document that is not valid JSON or is
// missing one of the required keys ("shape", "weights", "biases").
type SchemaError struct {
	Key string // Missing or malformed key, empty for document-level failures
	Err error  // Parse cause, nil for a plainly absent key
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	switch {
	case e.Key != "" && e.Err != nil:
		return fmt.Sprintf("model document: key %q: %v", e.Key, e.Err)
	case e.Key != "":
		return fmt.Sprintf("model document: missing required key %q", e.Key)
	default:
		return fmt.Sprintf("model document: %v", e.Err)
	}
}

// Unwrap returns the parse cause, if any.
func (e *SchemaError) Unwrap() error {
	return e.Err
}
