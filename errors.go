package digo

import "fmt"

// NotFoundError means no descriptor is registered for Key.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("digo: no binding found for %s", e.Key)
}

// ScopeRequiredError means a Scoped descriptor was resolved through the
// root Provider instead of a Scope.
type ScopeRequiredError struct {
	Key Key
}

func (e *ScopeRequiredError) Error() string {
	return fmt.Sprintf("digo: %s is scoped and requires an active scope", e.Key)
}

// CircularError means resolution encountered a cycle. Path is the list of
// Keys in encounter order, ending with the Key that closed the cycle.
type CircularError struct {
	Path []Key
}

func (e *CircularError) Error() string {
	return fmt.Sprintf("digo: circular dependency detected: %s", formatPath(e.Path))
}

func formatPath(path []Key) string {
	s := ""
	for i, k := range path {
		if i > 0 {
			s += " -> "
		}
		s += k.String()
	}
	return s
}

// DepthExceededError means the resolution path exceeded the configured
// MaxResolutionDepth.
type DepthExceededError struct {
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("digo: resolution depth exceeded limit of %d", e.Limit)
}

// ConstructionFailedError wraps a constructor's returned error.
type ConstructionFailedError struct {
	Key    Key
	Source error
}

func (e *ConstructionFailedError) Error() string {
	return fmt.Sprintf("digo: construction failed for %s: %v", e.Key, e.Source)
}

func (e *ConstructionFailedError) Unwrap() error {
	return e.Source
}

// TypeMismatchError indicates a programming error in the builder: the
// stored instance does not satisfy the type the caller requested.
type TypeMismatchError struct {
	Key      Key
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("digo: type mismatch for %s: expected %s, got %s", e.Key, e.Expected, e.Actual)
}

// AlreadyBuiltError means Build was called more than once on the same
// Collection.
type AlreadyBuiltError struct{}

func (e *AlreadyBuiltError) Error() string {
	return "digo: collection was already built"
}

// CancelledError means cancellation was observed during construction.
type CancelledError struct {
	Key Key
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("digo: resolution of %s cancelled", e.Key)
}

// ValidationFailedError is raised at Build time when ValidateOnBuild is set
// and the registry fails one or more static checks.
type ValidationFailedError struct {
	Reasons []string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("digo: validation failed: %v", e.Reasons)
}
