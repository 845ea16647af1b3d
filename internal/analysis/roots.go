package analysis

import (
	"strings"

	"github.com/griffnb/jaxdoc/internal/analysis/classes"
	"github.com/griffnb/jaxdoc/internal/domain"
)

func toBinaryName(internalName string) string {
	return strings.ReplaceAll(internalName, "/", ".")
}

// isRoot reports whether a class seeds the job registry: it must carry the
// path-binding or application-path annotation on the class, or a
// path-binding or HTTP verb annotation on one of its declared methods.
// Annotations on supertypes do not make a class a
// root; inheritance is resolved per method during class analysis.
func (s *Service) isRoot(resolver *classes.Resolver, binaryName string) bool {
	class, err := resolver.Class(binaryName)
	if err != nil {
		s.debugf("root selection: class %s could not be loaded: %v", binaryName, err)
		return false
	}
	for _, ann := range class.Annotations() {
		if domain.IsPathAnnotation(ann.Type) || domain.IsApplicationPathAnnotation(ann.Type) {
			return true
		}
	}
	for i := range class.Methods {
		for _, ann := range class.Methods[i].Annotations(&class.Pool) {
			if domain.IsPathAnnotation(ann.Type) {
				return true
			}
			if _, ok := domain.VerbForAnnotation(ann.Type); ok {
				return true
			}
		}
	}
	return false
}

// hasRootSupertype reports whether any transitive supertype is itself a
// root by isRoot's test. Concrete classes implementing an annotated
// interface join the registry this way, including when the interface lives
// in a dependency location.
func (s *Service) hasRootSupertype(resolver *classes.Resolver, binaryName string) bool {
	class, err := resolver.Class(binaryName)
	if err != nil {
		return false
	}

	visited := map[string]bool{binaryName: true}
	queue := append([]string{}, class.SuperName())
	queue = append(queue, class.InterfaceNames()...)

	for len(queue) > 0 {
		internalName := queue[0]
		queue = queue[1:]
		if internalName == "" || internalName == "java/lang/Object" {
			continue
		}
		name := toBinaryName(internalName)
		if visited[name] {
			continue
		}
		visited[name] = true

		super, err := resolver.Class(name)
		if err != nil {
			continue
		}
		if s.isRoot(resolver, name) {
			return true
		}
		queue = append(queue, super.SuperName())
		queue = append(queue, super.InterfaceNames()...)
	}
	return false
}
