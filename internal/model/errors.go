package model

import (
	"errors"
	"fmt"
)

// ErrWidth is wrapped by WidthError.
var ErrWidth = errors.New("feature vector width mismatch")

// WidthError reports a vector whose length differs from the model input.
type WidthError struct {
	Want int
	Got  int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("expected %d features, got %d", e.Want, e.Got)
}

func (e *WidthError) Unwrap() error { return ErrWidth }

func artifactErr(path string, err error) error {
	return fmt.Errorf("%w %s: %w", ErrArtifact, path, err)
}
