package engine

import (
	"fmt"

	"github.com/wudragonfly/mdview/pkg/render"
)

// Extension is a named bundle of pipeline transforms contributed by an
// external party.
type Extension struct {
	// Name identifies the extension in failure reports.
	Name string

	// Transforms are applied to the pipeline in order.
	Transforms []render.Transform
}

// Registry holds registered extensions and applies them to a pipeline with
// per-extension isolation: a transform that fails or panics is recorded and
// skipped, and every other extension still applies.
type Registry struct {
	extensions []Extension
	failures   []error
}

// Register adds an extension. Extensions apply in registration order.
func (r *Registry) Register(ext Extension) {
	r.extensions = append(r.extensions, ext)
}

// Apply folds every registered extension over the pipeline. Failures are
// collected rather than returned so that one broken extension cannot take
// down rendering; callers inspect Failures afterwards.
func (r *Registry) Apply(p *render.Pipeline) *render.Pipeline {
	r.failures = nil
	for _, ext := range r.extensions {
		for i, tr := range ext.Transforms {
			next, err := r.applyOne(ext.Name, i, tr, p)
			if err != nil {
				r.failures = append(r.failures, err)
				continue
			}
			p = next
		}
	}
	return p
}

func (r *Registry) applyOne(name string, idx int, tr render.Transform, p *render.Pipeline) (next *render.Pipeline, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			next = nil
			err = fmt.Errorf("extension %s: transform %d panicked: %v", name, idx, rec)
		}
	}()

	next, err = tr(p)
	if err != nil {
		return nil, fmt.Errorf("extension %s: transform %d: %w", name, idx, err)
	}
	if next == nil {
		return nil, fmt.Errorf("extension %s: transform %d returned no pipeline", name, idx)
	}
	return next, nil
}

// Failures returns the errors collected by the most recent Apply.
func (r *Registry) Failures() []error {
	return r.failures
}
