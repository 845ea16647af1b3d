package domain

// MethodIdentifier names a method for call-site and supertype resolution.
// Class names are binary (dot-separated) form.
type MethodIdentifier struct {
	ClassName  string
	MethodName string
	Descriptor string
	Static     bool
}

// MethodResult holds the findings for one REST-eligible method. Created by
// the class analyzer, extended by the bytecode interpreter and the javadoc
// enricher, read-only afterwards.
type MethodResult struct {
	MethodName string

	// Descriptor is the erased JVM descriptor; Signature the generic
	// signature when present. Signature compatibility checks compare the
	// descriptor first and also accept a match on the generic signature.
	Descriptor string
	Signature  string

	// Verbs holds every HTTP verb the method answers to. The result
	// interpreter expands one output entry per verb.
	Verbs []string

	Path string

	RequestMediaTypes  []string
	ResponseMediaTypes []string

	// Parameters in declaration order.
	Parameters []ParameterBinding

	// ReturnType is the declared return type in source form; empty for void.
	ReturnType string

	Responses []*HttpResponse

	// InvokedTargets lists project methods the body may call; their classes
	// join the job registry.
	InvokedTargets []MethodIdentifier

	// AnnotationsInherited is false when the REST annotations were declared
	// on the method itself, true when found on a supertype member.
	AnnotationsInherited bool

	Doc string

	Parent *ClassResult
}

// HasVerb reports whether verb is already recorded on the method.
func (m *MethodResult) HasVerb(verb string) bool {
	for _, v := range m.Verbs {
		if v == verb {
			return true
		}
	}
	return false
}

// AddVerb records verb once; duplicate annotations for the same verb value
// collapse into a single entry.
func (m *MethodResult) AddVerb(verb string) {
	if !m.HasVerb(verb) {
		m.Verbs = append(m.Verbs, verb)
	}
}

// ClassResult holds the findings for one analyzed class.
type ClassResult struct {
	// OriginalClass is the binary (dot-separated) class name.
	OriginalClass string

	SuperClass string
	Interfaces []string

	// Path is the class-level path fragment, if any.
	Path string

	// ApplicationPath is set when the class is the REST application root.
	ApplicationPath    string
	HasApplicationPath bool

	RequestMediaTypes  []string
	ResponseMediaTypes []string

	// Fields holds field-level parameter bindings; they apply to every
	// resource method of the class.
	Fields []ParameterBinding

	Methods []*MethodResult

	// Doc is the class-level documentation block added by the enricher.
	Doc string
}

// AddMethod appends m and wires its parent reference.
func (c *ClassResult) AddMethod(m *MethodResult) {
	m.Parent = c
	c.Methods = append(c.Methods, m)
}

// IsResource reports whether the class contributes resource entries: it
// must carry a class-level path or at least one verbed method.
func (c *ClassResult) IsResource() bool {
	if c.Path != "" {
		return true
	}
	for _, m := range c.Methods {
		if len(m.Verbs) > 0 {
			return true
		}
	}
	return false
}
