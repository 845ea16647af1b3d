// Package domain contains the shared data model for REST surface analysis:
// per-class findings, inferred responses, parameter bindings, and the final
// Resources output.
package domain

import "sort"

// HTTP verbs recognized on resource methods, in canonical output order.
var Verbs = []string{"DELETE", "GET", "HEAD", "OPTIONS", "PATCH", "POST", "PUT"}

// MediaTypeWildcard is applied at the output stage when a media-type set is
// still empty.
const MediaTypeWildcard = "*/*"

// UnknownStatus is the sentinel for a status code that could not be resolved
// to a literal value. Backends drop it at render time.
const UnknownStatus = 0

// ParameterKind classifies how a method parameter or resource field is bound
// to the request.
type ParameterKind int

const (
	BindingBody ParameterKind = iota
	BindingPath
	BindingQuery
	BindingHeader
	BindingCookie
	BindingForm
	BindingMatrix
	BindingContext
)

var parameterKindNames = map[ParameterKind]string{
	BindingBody:    "body",
	BindingPath:    "path",
	BindingQuery:   "query",
	BindingHeader:  "header",
	BindingCookie:  "cookie",
	BindingForm:    "form",
	BindingMatrix:  "matrix",
	BindingContext: "context",
}

func (k ParameterKind) String() string {
	if name, ok := parameterKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParameterBinding describes one bound parameter or field.
type ParameterBinding struct {
	// Kind is the binding source (path, query, body, ...).
	Kind ParameterKind

	// Name is the bound name (e.g. the path template variable). Empty for
	// body and context bindings.
	Name string

	// JavaType is the declared parameter type in source form
	// (e.g. "java.lang.String", "int").
	JavaType string

	// DefaultValue carries a declared default, if any.
	DefaultValue string
}

// HttpResponse is one inferred response a resource method can produce.
type HttpResponse struct {
	Statuses   map[int]struct{}
	Headers    map[string]struct{}
	Cookies    map[string]struct{}
	EntityType string
}

// NewHttpResponse returns an empty response with allocated sets.
func NewHttpResponse() *HttpResponse {
	return &HttpResponse{
		Statuses: make(map[int]struct{}),
		Headers:  make(map[string]struct{}),
		Cookies:  make(map[string]struct{}),
	}
}

// Merge unions other into r, field by field. The entity type of other wins
// only when r has none.
func (r *HttpResponse) Merge(other *HttpResponse) {
	for s := range other.Statuses {
		r.Statuses[s] = struct{}{}
	}
	for h := range other.Headers {
		r.Headers[h] = struct{}{}
	}
	for c := range other.Cookies {
		r.Cookies[c] = struct{}{}
	}
	if r.EntityType == "" {
		r.EntityType = other.EntityType
	}
}

// SortedStatuses returns the status codes in ascending order, dropping the
// unknown sentinel.
func (r *HttpResponse) SortedStatuses() []int {
	out := make([]int, 0, len(r.Statuses))
	for s := range r.Statuses {
		if s == UnknownStatus {
			continue
		}
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// SortedHeaders returns the header names in lexical order.
func (r *HttpResponse) SortedHeaders() []string {
	return sortedSet(r.Headers)
}

// SortedCookies returns the cookie names in lexical order.
func (r *HttpResponse) SortedCookies() []string {
	return sortedSet(r.Cookies)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResourceEntry is one (template, verb) pair of the final output.
type ResourceEntry struct {
	Template           string
	Verb               string
	RequestMediaTypes  []string
	ResponseMediaTypes []string
	Parameters         []ParameterBinding
	RequestBodyType    string
	Responses          []*HttpResponse
	Doc                string
}

// Resources is the assembled REST surface: the application path plus entries
// sorted by URI template then verb.
type Resources struct {
	ApplicationPath string
	Entries         []ResourceEntry
}
