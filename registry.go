package servicefn

import (
	"context"
)

// Registry is a static mapping of names to Service instances. Lookups are
// plain map reads with no fallback, wildcard, or prefix matching. Any such
// dispatch policy belongs to whatever sits in front of the Registry, such as
// the router in this package.
//
// A Registry has no locking. The intended use is to populate it once while
// the process starts and to treat it as read-only from then on. Callers that
// need to mutate it while it is being read must serialize access themselves.
type Registry[ReqBody Body, ResBody Body] struct {
	services map[string]Service[ReqBody, ResBody]
}

// NewRegistry returns a Registry with no entries.
func NewRegistry[ReqBody Body, ResBody Body]() *Registry[ReqBody, ResBody] {
	return &Registry[ReqBody, ResBody]{
		services: make(map[string]Service[ReqBody, ResBody]),
	}
}

// Register binds the Service to the name. Any Service already bound to the
// name is dropped.
func (r *Registry[ReqBody, ResBody]) Register(name string, s Service[ReqBody, ResBody]) {
	r.services[name] = s
}

// Lookup returns the Service bound to the name. The boolean is false when
// nothing has been registered under that name.
func (r *Registry[ReqBody, ResBody]) Lookup(name string) (Service[ReqBody, ResBody], bool) {
	s, ok := r.services[name]
	return s, ok
}

// Len reports the number of registered names.
func (r *Registry[ReqBody, ResBody]) Len() int {
	return len(r.services)
}

// Fetch resolves the name using the internal mapping. This satisfies the
// Fetcher interface for a Registry[Body, Body].
func (r *Registry[ReqBody, ResBody]) Fetch(ctx context.Context, name string) (Service[ReqBody, ResBody], error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, NotFoundError{ID: name}
	}
	return s, nil
}
