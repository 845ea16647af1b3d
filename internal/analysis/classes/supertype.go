package classes

import (
	"github.com/griffnb/jaxdoc/internal/classfile"
	"github.com/griffnb/jaxdoc/internal/domain"
)

// findAnnotatedSuperMember walks the supertype chain breadth-first looking
// for a member with the same name and compatible signature that bears REST
// annotations. Interfaces can be re-implemented across a diamond, so the
// walk keeps a visited set. Unloadable supertypes are logged and skipped.
func (s *Service) findAnnotatedSuperMember(class *classfile.Class, method *classfile.Member) (*classfile.Class, *classfile.Member) {
	signature := method.Signature(&class.Pool)

	type match struct {
		class  *classfile.Class
		member *classfile.Member
	}
	var matches []match

	visited := map[string]bool{class.Name(): true, objectClass: true}
	queue := supertypeNames(class)

	for len(queue) > 0 {
		internalName := queue[0]
		queue = queue[1:]
		if internalName == "" || visited[internalName] {
			continue
		}
		visited[internalName] = true

		super, err := s.resolver.Class(classfile.ToBinaryName(internalName))
		if err != nil {
			s.debugf("supertype %s of %s could not be loaded: %v", internalName, class.BinaryName(), err)
			continue
		}
		queue = append(queue, supertypeNames(super)...)

		candidate := compatibleMember(super, method.Name, method.Descriptor, signature)
		if candidate == nil {
			continue
		}
		if s.hasRestAnnotations(candidate.Annotations(&super.Pool)) {
			matches = append(matches, match{class: super, member: candidate})
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		s.debugf("%v: %s#%s declared on %d supertypes; using %s",
			domain.ErrAmbiguousBinding, class.BinaryName(), method.Name, len(matches),
			matches[0].class.BinaryName())
	}
	return matches[0].class, matches[0].member
}

func supertypeNames(class *classfile.Class) []string {
	var names []string
	if super := class.SuperName(); super != "" && super != objectClass {
		names = append(names, super)
	}
	return append(names, class.InterfaceNames()...)
}

// compatibleMember finds a method with the same name whose erased
// descriptor matches, or whose generic signature equals the subclass's
// when one is declared.
func compatibleMember(class *classfile.Class, name, descriptor, signature string) *classfile.Member {
	for i := range class.Methods {
		m := &class.Methods[i]
		if m.Name != name {
			continue
		}
		if m.Descriptor == descriptor {
			return m
		}
		if signature != "" && m.Signature(&class.Pool) == signature {
			return m
		}
	}
	return nil
}
