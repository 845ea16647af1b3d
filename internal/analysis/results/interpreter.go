// Package results folds per-class findings into the final Resources tree:
// template synthesis, per-verb expansion, media-type defaulting and
// collision merging.
package results

import (
	"fmt"
	"sort"
	"strings"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Service consolidates ClassResults into Resources.
type Service struct {
	debug Debugger
}

// Option configures the service.
type Option func(*Service)

// WithDebugger sets the debug logger.
func WithDebugger(debug Debugger) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// NewService creates a result interpreter.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interpret assembles the Resources output. Entries are sorted by URI
// template then verb; (template, verb) collisions union-merge.
func (s *Service) Interpret(classResults []*domain.ClassResult) *domain.Resources {
	resources := &domain.Resources{
		ApplicationPath: s.applicationPath(classResults),
	}

	entries := make(map[string]*domain.ResourceEntry)
	var order []string

	for _, class := range classResults {
		if !class.IsResource() {
			continue
		}
		for _, method := range class.Methods {
			for _, verb := range method.Verbs {
				entry := s.buildEntry(resources.ApplicationPath, class, method, verb)
				key := entry.Template + " " + entry.Verb
				if existing, ok := entries[key]; ok {
					s.mergeEntry(existing, entry)
					continue
				}
				entries[key] = entry
				order = append(order, key)
			}
		}
	}

	sort.Strings(order)
	for _, key := range order {
		resources.Entries = append(resources.Entries, *entries[key])
	}
	return resources
}

// applicationPath picks the path fragment of the application root class,
// "/" when there is none.
func (s *Service) applicationPath(classResults []*domain.ClassResult) string {
	for _, class := range classResults {
		if class.HasApplicationPath {
			if path := NormalizeSegment(class.ApplicationPath); path != "" {
				return path
			}
			return "/"
		}
	}
	return "/"
}

func (s *Service) buildEntry(applicationPath string, class *domain.ClassResult, method *domain.MethodResult, verb string) *domain.ResourceEntry {
	entry := &domain.ResourceEntry{
		Template:           BuildTemplate(applicationPath, class.Path, method.Path),
		Verb:               verb,
		RequestMediaTypes:  mediaTypes(method.RequestMediaTypes, class.RequestMediaTypes),
		ResponseMediaTypes: mediaTypes(method.ResponseMediaTypes, class.ResponseMediaTypes),
		Doc:                method.Doc,
	}

	for _, binding := range class.Fields {
		s.addParameter(entry, binding)
	}
	for _, binding := range method.Parameters {
		s.addParameter(entry, binding)
	}

	for _, response := range method.Responses {
		entry.Responses = appendResponse(entry.Responses, response)
	}
	return entry
}

// addParameter records a binding on the entry. Context injections are not
// part of the request surface; the body binding sets the request body type
// instead of joining the parameter list.
func (s *Service) addParameter(entry *domain.ResourceEntry, binding domain.ParameterBinding) {
	switch binding.Kind {
	case domain.BindingContext:
		return
	case domain.BindingBody:
		if entry.RequestBodyType != "" && entry.RequestBodyType != binding.JavaType {
			s.debugf("warning: %s %s: conflicting request body types %s and %s",
				entry.Verb, entry.Template, entry.RequestBodyType, binding.JavaType)
			return
		}
		entry.RequestBodyType = binding.JavaType
		return
	}
	for _, existing := range entry.Parameters {
		if existing.Kind == binding.Kind && existing.Name == binding.Name {
			return
		}
	}
	entry.Parameters = append(entry.Parameters, binding)
}

// mergeEntry union-merges a colliding (template, verb) result into the
// earlier entry.
func (s *Service) mergeEntry(dst, src *domain.ResourceEntry) {
	for _, binding := range src.Parameters {
		s.addParameter(dst, binding)
	}
	if src.RequestBodyType != "" {
		if dst.RequestBodyType == "" {
			dst.RequestBodyType = src.RequestBodyType
		} else if dst.RequestBodyType != src.RequestBodyType {
			s.debugf("warning: %s %s: conflicting request body types %s and %s",
				dst.Verb, dst.Template, dst.RequestBodyType, src.RequestBodyType)
		}
	}
	for _, response := range src.Responses {
		dst.Responses = appendResponse(dst.Responses, response)
	}
	dst.RequestMediaTypes = unionStrings(dst.RequestMediaTypes, src.RequestMediaTypes)
	dst.ResponseMediaTypes = unionStrings(dst.ResponseMediaTypes, src.ResponseMediaTypes)
	if dst.Doc == "" {
		dst.Doc = src.Doc
	}
}

// mediaTypes applies the override chain: method-level wins over
// class-level; the wildcard applies only here, at the output stage.
func mediaTypes(methodLevel, classLevel []string) []string {
	if len(methodLevel) > 0 {
		return methodLevel
	}
	if len(classLevel) > 0 {
		return classLevel
	}
	return []string{domain.MediaTypeWildcard}
}

func appendResponse(responses []*domain.HttpResponse, response *domain.HttpResponse) []*domain.HttpResponse {
	key := responseFingerprint(response)
	for _, existing := range responses {
		if responseFingerprint(existing) == key {
			return responses
		}
	}
	return append(responses, response)
}

func responseFingerprint(r *domain.HttpResponse) string {
	return fmt.Sprintf("%v|%v|%v|%s", r.SortedStatuses(), r.SortedHeaders(), r.SortedCookies(), r.EntityType)
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := append([]string{}, a...)
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

func (s *Service) debugf(format string, v ...interface{}) {
	if s.debug != nil {
		s.debug.Printf(format, v...)
	}
}

// NormalizeSegment canonicalizes one path fragment: exactly one leading
// slash, no trailing slash, no empty inner segments, "" for empty
// fragments.
func NormalizeSegment(segment string) string {
	var parts []string
	for _, part := range strings.Split(segment, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

// BuildTemplate concatenates the application, class and method fragments
// into a canonical URI template. The result never has a trailing slash
// unless it is exactly "/".
func BuildTemplate(applicationPath, classPath, methodPath string) string {
	template := NormalizeSegment(applicationPath) + NormalizeSegment(classPath) + NormalizeSegment(methodPath)
	if template == "" {
		return "/"
	}
	return template
}
