package dataset

import "fmt"

// LoadError reports a dataset that could not be fetched or decoded. The
// message names the path so it can be shown to the user as is.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
