package classfile

import "encoding/binary"

// Annotation is a runtime-visible annotation with its element values
// resolved against the constant pool.
type Annotation struct {
	// Type is the annotation's binary (dot-separated) class name.
	Type     string
	Elements []Element
}

// Element is one name/value pair of an annotation.
type Element struct {
	Name  string
	Value ElementValue
}

// ElementValue is a resolved annotation element value. Exactly the fields
// matching Tag are populated.
type ElementValue struct {
	Tag byte

	Str       string
	Int       int64
	ClassName string
	EnumType  string
	EnumConst string
	Nested    *Annotation
	Array     []ElementValue
}

// String returns the value of the named element when it is a string.
func (a *Annotation) String(name string) (string, bool) {
	for _, e := range a.Elements {
		if e.Name == name && e.Value.Tag == 's' {
			return e.Value.Str, true
		}
	}
	return "", false
}

// Strings returns the named element as a string list, accepting both a
// single string and an array of strings (annotation attributes declared
// as String[] accept both forms in source).
func (a *Annotation) Strings(name string) []string {
	for _, e := range a.Elements {
		if e.Name != name {
			continue
		}
		switch e.Value.Tag {
		case 's':
			return []string{e.Value.Str}
		case '[':
			out := make([]string, 0, len(e.Value.Array))
			for _, v := range e.Value.Array {
				if v.Tag == 's' {
					out = append(out, v.Str)
				}
			}
			return out
		}
	}
	return nil
}

func annotationsOf(attrs []Attribute, pool *ConstPool) []Annotation {
	attr := findAttribute(attrs, attrRuntimeAnnotations)
	if attr == nil {
		return nil
	}
	return parseAnnotationTable(attr.Data, pool)
}

func parseAnnotationTable(data []byte, pool *ConstPool) []Annotation {
	if len(data) < 2 {
		return nil
	}
	count := int(binary.BigEndian.Uint16(data[0:2]))
	annotations := make([]Annotation, 0, count)
	offset := 2
	for i := 0; i < count; i++ {
		var ann Annotation
		ann, offset = parseAnnotation(data, offset, pool)
		annotations = append(annotations, ann)
	}
	return annotations
}

func parseParameterAnnotations(data []byte, pool *ConstPool) [][]Annotation {
	if len(data) < 1 {
		return nil
	}
	paramCount := int(data[0])
	out := make([][]Annotation, paramCount)
	offset := 1
	for i := 0; i < paramCount; i++ {
		if len(data) < offset+2 {
			return out
		}
		count := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += 2
		annotations := make([]Annotation, 0, count)
		for j := 0; j < count; j++ {
			var ann Annotation
			ann, offset = parseAnnotation(data, offset, pool)
			annotations = append(annotations, ann)
		}
		out[i] = annotations
	}
	return out
}

func parseAnnotation(data []byte, offset int, pool *ConstPool) (Annotation, int) {
	var ann Annotation
	if len(data) < offset+4 {
		return ann, len(data)
	}
	ann.Type = descriptorToBinaryName(pool.Utf8(binary.BigEndian.Uint16(data[offset : offset+2])))
	pairs := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
	offset += 4

	ann.Elements = make([]Element, 0, pairs)
	for i := 0; i < pairs; i++ {
		if len(data) < offset+2 {
			return ann, len(data)
		}
		element := Element{Name: pool.Utf8(binary.BigEndian.Uint16(data[offset : offset+2]))}
		offset += 2
		element.Value, offset = parseElementValue(data, offset, pool)
		ann.Elements = append(ann.Elements, element)
	}
	return ann, offset
}

func parseElementValue(data []byte, offset int, pool *ConstPool) (ElementValue, int) {
	if len(data) <= offset {
		return ElementValue{}, len(data)
	}
	value := ElementValue{Tag: data[offset]}
	offset++

	switch value.Tag {
	case 's':
		if len(data) < offset+2 {
			return value, len(data)
		}
		value.Str = pool.Utf8(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += 2
	case 'B', 'C', 'I', 'S', 'Z':
		if len(data) < offset+2 {
			return value, len(data)
		}
		if n, ok := pool.Integer(binary.BigEndian.Uint16(data[offset : offset+2])); ok {
			value.Int = int64(n)
		}
		offset += 2
	case 'J':
		if len(data) < offset+2 {
			return value, len(data)
		}
		if n, ok := pool.Long(binary.BigEndian.Uint16(data[offset : offset+2])); ok {
			value.Int = n
		}
		offset += 2
	case 'D', 'F':
		offset += 2
	case 'c':
		if len(data) < offset+2 {
			return value, len(data)
		}
		value.ClassName = descriptorToBinaryName(pool.Utf8(binary.BigEndian.Uint16(data[offset : offset+2])))
		offset += 2
	case 'e':
		if len(data) < offset+4 {
			return value, len(data)
		}
		value.EnumType = descriptorToBinaryName(pool.Utf8(binary.BigEndian.Uint16(data[offset : offset+2])))
		value.EnumConst = pool.Utf8(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		offset += 4
	case '@':
		var nested Annotation
		nested, offset = parseAnnotation(data, offset, pool)
		value.Nested = &nested
	case '[':
		if len(data) < offset+2 {
			return value, len(data)
		}
		count := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += 2
		value.Array = make([]ElementValue, count)
		for i := 0; i < count; i++ {
			value.Array[i], offset = parseElementValue(data, offset, pool)
		}
	}
	return value, offset
}

// descriptorToBinaryName converts a field descriptor like
// "Ljavax/ws/rs/Path;" to "javax.ws.rs.Path". Non-reference descriptors are
// returned unchanged.
func descriptorToBinaryName(descriptor string) string {
	if len(descriptor) >= 2 && descriptor[0] == 'L' && descriptor[len(descriptor)-1] == ';' {
		return ToBinaryName(descriptor[1 : len(descriptor)-1])
	}
	return descriptor
}
