// Package classes visits parsed class files and populates ClassResults:
// class-level annotations, field bindings, and per-method findings with
// supertype annotation inheritance.
package classes

import (
	"fmt"

	"github.com/griffnb/jaxdoc/internal/classfile"
	"github.com/griffnb/jaxdoc/internal/domain"
)

const objectClass = "java/lang/Object"

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// Service is the class analyzer.
type Service struct {
	resolver *Resolver
	debug    Debugger
}

// Option configures the service.
type Option func(*Service)

// WithDebugger sets the debug logger.
func WithDebugger(debug Debugger) Option {
	return func(s *Service) {
		s.debug = debug
	}
}

// NewService creates a class analyzer over the given resolver.
func NewService(resolver *Resolver, opts ...Option) *Service {
	s := &Service{resolver: resolver}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolver exposes the shared parsed-class cache.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Analyze visits one class and fills the result with class annotations,
// field bindings and method findings.
func (s *Service) Analyze(binaryName string, result *domain.ClassResult) error {
	class, err := s.resolver.Class(binaryName)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", binaryName, err)
	}

	result.OriginalClass = class.BinaryName()
	if super := class.SuperName(); super != "" && super != objectClass {
		result.SuperClass = classfile.ToBinaryName(super)
	}
	for _, iface := range class.InterfaceNames() {
		result.Interfaces = append(result.Interfaces, classfile.ToBinaryName(iface))
	}

	s.visitClassAnnotations(class, result)
	s.visitFields(class, result)
	s.visitMethods(class, result)
	return nil
}

func (s *Service) visitClassAnnotations(class *classfile.Class, result *domain.ClassResult) {
	for _, ann := range class.Annotations() {
		switch {
		case domain.IsPathAnnotation(ann.Type):
			result.Path, _ = ann.String("value")
		case domain.IsApplicationPathAnnotation(ann.Type):
			result.ApplicationPath, _ = ann.String("value")
			result.HasApplicationPath = true
		case domain.IsConsumesAnnotation(ann.Type):
			result.RequestMediaTypes = ann.Strings("value")
		case domain.IsProducesAnnotation(ann.Type):
			result.ResponseMediaTypes = ann.Strings("value")
		}
	}
}

// visitFields records parameter bindings on instance fields; static fields
// never participate in request binding.
func (s *Service) visitFields(class *classfile.Class, result *domain.ClassResult) {
	for i := range class.Fields {
		field := &class.Fields[i]
		if field.Access.IsStatic() {
			continue
		}
		binding, ok := s.bindingFromAnnotations(field.Annotations(&class.Pool))
		if !ok {
			continue
		}
		if fieldType, ok := classfile.ParseFieldDescriptor(field.Descriptor); ok {
			binding.JavaType = fieldType.SourceName()
		}
		result.Fields = append(result.Fields, binding)
	}
}

func (s *Service) visitMethods(class *classfile.Class, result *domain.ClassResult) {
	for i := range class.Methods {
		method := &class.Methods[i]
		if method.Access.IsSynthetic() || method.Access.IsStatic() || method.Access.IsNative() {
			continue
		}
		if method.Name == "<init>" || method.Name == "<clinit>" {
			continue
		}

		annotations := method.Annotations(&class.Pool)
		if s.hasRestAnnotations(annotations) {
			result.AddMethod(s.extractMethod(class, method, class, method, false))
			continue
		}

		declaring, superMember := s.findAnnotatedSuperMember(class, method)
		if superMember != nil {
			result.AddMethod(s.extractMethod(class, method, declaring, superMember, true))
		}
	}
}

// hasRestAnnotations reports whether any annotation is REST-relevant: a
// path binding, a direct verb, or an annotation meta-annotated as an HTTP
// method.
func (s *Service) hasRestAnnotations(annotations []classfile.Annotation) bool {
	for _, ann := range annotations {
		if domain.IsPathAnnotation(ann.Type) {
			return true
		}
		if _, ok := domain.VerbForAnnotation(ann.Type); ok {
			return true
		}
		if _, ok := s.verbForMetaAnnotation(ann.Type); ok {
			return true
		}
	}
	return false
}

// verbForMetaAnnotation resolves a custom annotation type and returns the
// verb declared by its HttpMethod meta-annotation.
func (s *Service) verbForMetaAnnotation(annotationType string) (string, bool) {
	if _, direct := domain.VerbForAnnotation(annotationType); direct {
		return "", false
	}
	if !s.resolver.Contains(annotationType) {
		return "", false
	}
	class, err := s.resolver.Class(annotationType)
	if err != nil {
		s.debugf("could not load annotation type %s: %v", annotationType, err)
		return "", false
	}
	if !class.Access.IsAnnotation() {
		return "", false
	}
	for _, meta := range class.Annotations() {
		if domain.IsHttpMethodAnnotation(meta.Type) {
			if verb, ok := meta.String("value"); ok && verb != "" {
				return verb, true
			}
		}
	}
	return "", false
}

func (s *Service) bindingFromAnnotations(annotations []classfile.Annotation) (domain.ParameterBinding, bool) {
	var binding domain.ParameterBinding
	found := false
	for _, ann := range annotations {
		if kind, ok := domain.BindingForAnnotation(ann.Type); ok {
			binding.Kind = kind
			binding.Name, _ = ann.String("value")
			found = true
		}
		if domain.IsDefaultValueAnnotation(ann.Type) {
			binding.DefaultValue, _ = ann.String("value")
		}
	}
	return binding, found
}

// extractMethod builds a MethodResult. The concrete member supplies the
// signature and body; the annotated member (possibly on a supertype)
// supplies verbs, path, media types and parameter bindings.
func (s *Service) extractMethod(concrete *classfile.Class, concreteMember *classfile.Member,
	declaring *classfile.Class, annotated *classfile.Member, inherited bool) *domain.MethodResult {

	result := &domain.MethodResult{
		MethodName:           concreteMember.Name,
		Descriptor:           concreteMember.Descriptor,
		Signature:            concreteMember.Signature(&concrete.Pool),
		AnnotationsInherited: inherited,
	}

	for _, ann := range annotated.Annotations(&declaring.Pool) {
		switch {
		case domain.IsPathAnnotation(ann.Type):
			result.Path, _ = ann.String("value")
		case domain.IsConsumesAnnotation(ann.Type):
			result.RequestMediaTypes = ann.Strings("value")
		case domain.IsProducesAnnotation(ann.Type):
			result.ResponseMediaTypes = ann.Strings("value")
		default:
			if verb, ok := domain.VerbForAnnotation(ann.Type); ok {
				result.AddVerb(verb)
			} else if verb, ok := s.verbForMetaAnnotation(ann.Type); ok {
				result.AddVerb(verb)
			}
		}
	}

	if methodType, ok := classfile.ParseMethodDescriptor(concreteMember.Descriptor); ok {
		result.Parameters = s.extractParameters(methodType,
			annotated.ParameterAnnotations(&declaring.Pool),
			concrete.BinaryName(), concreteMember.Name)
		if !methodType.Return.IsVoid() {
			result.ReturnType = methodType.Return.SourceName()
		}
	}

	return result
}

// extractParameters binds each declared parameter: an explicit binding
// annotation, a context injection, or the request body. At most one
// parameter becomes the body; further unannotated parameters are dropped,
// mirroring the framework's runtime behavior.
func (s *Service) extractParameters(methodType classfile.MethodType,
	paramAnnotations [][]classfile.Annotation, className, methodName string) []domain.ParameterBinding {

	var bindings []domain.ParameterBinding
	bodySeen := false
	for i, param := range methodType.Parameters {
		var annotations []classfile.Annotation
		if i < len(paramAnnotations) {
			annotations = paramAnnotations[i]
		}

		binding, ok := s.bindingFromAnnotations(annotations)
		if !ok {
			if bodySeen {
				s.debugf("%s#%s: parameter %d has no binding and the body slot is taken; dropped",
					className, methodName, i)
				continue
			}
			bodySeen = true
			binding = domain.ParameterBinding{Kind: domain.BindingBody}
			for _, ann := range annotations {
				if domain.IsDefaultValueAnnotation(ann.Type) {
					binding.DefaultValue, _ = ann.String("value")
				}
			}
		}
		binding.JavaType = param.SourceName()
		bindings = append(bindings, binding)
	}
	return bindings
}

func (s *Service) debugf(format string, v ...interface{}) {
	if s.debug != nil {
		s.debug.Printf(format, v...)
	}
}
