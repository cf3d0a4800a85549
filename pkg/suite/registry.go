package suite

import "fmt"

// Registry is an ordered accumulation of built test cases. It is an
// explicit value constructed by the caller, never a package-wide singleton,
// so independent suites cannot interfere.
type Registry struct {
	cases []TestCase
	names map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Add appends a built case, rejecting duplicate names.
func (r *Registry) Add(tc TestCase) error {
	if _, dup := r.names[tc.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateCase, tc.Name)
	}
	r.names[tc.Name] = struct{}{}
	r.cases = append(r.cases, tc)
	return nil
}

// Declare builds the declaration and adds the result.
func (r *Registry) Declare(opts Options) error {
	tc, err := Build(opts)
	if err != nil {
		return err
	}
	return r.Add(tc)
}

// Cases returns the cases in declaration order. The slice is owned by the
// registry; callers must not modify it.
func (r *Registry) Cases() []TestCase {
	return r.cases
}

// Len returns the number of registered cases.
func (r *Registry) Len() int {
	return len(r.cases)
}
