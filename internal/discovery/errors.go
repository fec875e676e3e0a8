package discovery

import (
	"fmt"

	"github.com/vk/plugreg/internal/registry"
)

// SourceEnumerationError reports that the provider could not list sources.
// Discovery logs it and continues with zero sources.
type SourceEnumerationError struct {
	Locator string
	Err     error
}

func (e *SourceEnumerationError) Error() string {
	return fmt.Sprintf("failed to enumerate declaration sources for %s: %v", e.Locator, e.Err)
}

func (e *SourceEnumerationError) Unwrap() error {
	return e.Err
}

// SourceReadError reports that an enumerated source could not be opened or
// read. It aborts the discovery pass.
type SourceReadError struct {
	Source string
	Err    error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("failed to read declaration source %s: %v", e.Source, e.Err)
}

func (e *SourceReadError) Unwrap() error {
	return e.Err
}

// SealedRegistryError reports a change attempted after the discovery pass.
// It matches registry.ErrSealed with errors.Is.
type SealedRegistryError struct {
	Op string
}

func (e *SealedRegistryError) Error() string {
	return fmt.Sprintf("unable to %s: %v", e.Op, registry.ErrSealed)
}

func (e *SealedRegistryError) Unwrap() error {
	return registry.ErrSealed
}
