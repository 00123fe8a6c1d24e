package fragment

import "fmt"

// MissingDirError indicates that a required configuration directory does not
// exist.
type MissingDirError struct {
	Path string
}

// Error implements the error interface for MissingDirError.
func (e *MissingDirError) Error() string {
	return fmt.Sprintf("missing configuration directory: %s", e.Path)
}

// MissingFileError indicates that a required configuration file does not
// exist.
type MissingFileError struct {
	Path string
}

// Error implements the error interface for MissingFileError.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("missing configuration file: %s", e.Path)
}

// MalformedFileError indicates that a fragment exists but could not be
// decoded into a record.
type MalformedFileError struct {
	Path string
	Err  error
}

// Error implements the error interface for MalformedFileError.
func (e *MalformedFileError) Error() string {
	return fmt.Sprintf("malformed configuration file %s: %v", e.Path, e.Err)
}

// Unwrap exposes the decoding failure for errors.Is/As.
func (e *MalformedFileError) Unwrap() error {
	return e.Err
}

// MissingKeyError indicates that a decoded fragment lacks a key its consumer
// declared as required.
type MissingKeyError struct {
	Path string
	Key  string
}

// Error implements the error interface for MissingKeyError.
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("configuration file %s: missing required key %q", e.Path, e.Key)
}
