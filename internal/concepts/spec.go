// File: internal/concepts/spec.go
package concepts

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidResourceName = errors.New("invalid resource name")
	ErrMissingAttribute    = errors.New("resource attribute not specified")
)

// ResourceSpec fully determines how user input resolves to a resource path.
// The collection name ("api.projects.locations.things") fixes the path
// template; the last parameter is the anchor
type ResourceSpec struct {
	Collection   string
	ResourceName string
	params       []string
	attributes   []AttributeConfig
}

// NewResourceSpec pairs every path parameter of the collection (e.g. "projectsId")
// with its attribute config
func NewResourceSpec(collection, resourceName string, attrs map[string]AttributeConfig) (*ResourceSpec, error) {
	params, err := collectionParams(collection)
	if err != nil {
		return nil, err
	}
	if len(attrs) != len(params) {
		return nil, fmt.Errorf("collection %s has %d parameters, got %d attribute configs", collection, len(params), len(attrs))
	}

	spec := &ResourceSpec{
		Collection:   collection,
		ResourceName: resourceName,
		params:       params,
	}
	seen := make(map[string]bool)
	for _, p := range params {
		attr, ok := attrs[p]
		if !ok {
			return nil, fmt.Errorf("collection %s: no attribute config for parameter %s", collection, p)
		}
		if attr.Name == "" {
			return nil, fmt.Errorf("collection %s: attribute for %s has no name", collection, p)
		}
		if seen[attr.Name] {
			return nil, fmt.Errorf("collection %s: duplicate attribute name %s", collection, attr.Name)
		}
		seen[attr.Name] = true
		spec.attributes = append(spec.attributes, attr)
	}
	return spec, nil
}

// Same as NewResourceSpec but panics, for specs declared in code
func MustResourceSpec(collection, resourceName string, attrs map[string]AttributeConfig) *ResourceSpec {
	spec, err := NewResourceSpec(collection, resourceName, attrs)
	if err != nil {
		panic(fmt.Sprintf("concepts: %v", err))
	}
	return spec
}

func collectionParams(collection string) ([]string, error) {
	parts := strings.Split(collection, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("malformed collection %q: expected api.segment[.segment...]", collection)
	}
	params := make([]string, 0, len(parts)-1)
	for _, seg := range parts[1:] {
		if seg == "" {
			return nil, fmt.Errorf("malformed collection %q: empty segment", collection)
		}
		params = append(params, seg+"Id")
	}
	return params, nil
}

func (s *ResourceSpec) segments() []string {
	return strings.Split(s.Collection, ".")[1:]
}

func (s *ResourceSpec) Params() []string {
	return append([]string(nil), s.params...)
}

func (s *ResourceSpec) Attributes() []AttributeConfig {
	return append([]AttributeConfig(nil), s.attributes...)
}

func (s *ResourceSpec) Anchor() AttributeConfig {
	return s.attributes[len(s.attributes)-1]
}

// e.g. projects/{projectsId}/locations/{locationsId}
func (s *ResourceSpec) Template() string {
	segs := s.segments()
	parts := make([]string, 0, 2*len(segs))
	for i, seg := range segs {
		parts = append(parts, seg, "{"+s.params[i]+"}")
	}
	return strings.Join(parts, "/")
}

// Splits a relative name (optionally prefixed with an API URL) into parameter values
func (s *ResourceSpec) ParseRelativeName(name string) (map[string]string, error) {
	trimmed := name
	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "//") {
		idx := strings.Index(trimmed, s.segments()[0]+"/")
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q does not match %s", ErrInvalidResourceName, name, s.Template())
		}
		trimmed = trimmed[idx:]
	}
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.Split(trimmed, "/")
	segs := s.segments()
	if len(parts) != 2*len(segs) {
		return nil, fmt.Errorf("%w: %q does not match %s", ErrInvalidResourceName, name, s.Template())
	}

	values := make(map[string]string, len(segs))
	for i, seg := range segs {
		if parts[2*i] != seg || parts[2*i+1] == "" {
			return nil, fmt.Errorf("%w: %q does not match %s", ErrInvalidResourceName, name, s.Template())
		}
		values[s.params[i]] = parts[2*i+1]
	}
	return values, nil
}

func (s *ResourceSpec) newResource(values map[string]string) *Resource {
	r := &Resource{
		Collection: s.Collection,
		segments:   s.segments(),
		params:     s.Params(),
		values:     make(map[string]string, len(values)),
	}
	for k, v := range values {
		r.values[k] = v
	}
	return r
}

// Resource is a fully resolved reference
type Resource struct {
	Collection string
	segments   []string
	params     []string
	values     map[string]string
}

func (r *Resource) RelativeName() string {
	parts := make([]string, 0, 2*len(r.segments))
	for i, seg := range r.segments {
		parts = append(parts, seg, r.values[r.params[i]])
	}
	return strings.Join(parts, "/")
}

func (r *Resource) String() string {
	return r.RelativeName()
}

// Returns the value of a path parameter such as "locationsId"
func (r *Resource) Param(name string) string {
	return r.values[name]
}

// The anchor value, i.e. the last path segment
func (r *Resource) Name() string {
	return r.values[r.params[len(r.params)-1]]
}

// Returns the enclosing resource, or nil at the top of the hierarchy
func (r *Resource) Parent() *Resource {
	if len(r.segments) < 2 {
		return nil
	}
	n := len(r.segments) - 1
	api := strings.SplitN(r.Collection, ".", 2)[0]
	parent := &Resource{
		Collection: api + "." + strings.Join(r.segments[:n], "."),
		segments:   r.segments[:n],
		params:     r.params[:n],
		values:     make(map[string]string, n),
	}
	for _, p := range parent.params {
		parent.values[p] = r.values[p]
	}
	return parent
}
