package classfile

import "strings"

// FieldType is one parsed field or parameter type.
type FieldType struct {
	// Primitive holds the source keyword for primitive types ("int", ...).
	Primitive string
	// ClassName holds the internal (slash) name for reference types.
	ClassName string
	ArrayDepth int
}

// SourceName renders the type in Java source form ("java.lang.String",
// "int[]").
func (t FieldType) SourceName() string {
	var sb strings.Builder
	if t.Primitive != "" {
		sb.WriteString(t.Primitive)
	} else {
		sb.WriteString(ToBinaryName(t.ClassName))
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// IsVoid reports the absent return type.
func (t FieldType) IsVoid() bool {
	return t.Primitive == "" && t.ClassName == "" && t.ArrayDepth == 0
}

// MethodType is a parsed method descriptor.
type MethodType struct {
	Parameters []FieldType
	// Return is the zero FieldType for void methods.
	Return FieldType
}

// ParseFieldDescriptor parses a single field descriptor.
func ParseFieldDescriptor(descriptor string) (FieldType, bool) {
	t, n := parseFieldType(descriptor, 0)
	return t, n > 0 && n == len(descriptor)
}

// ParseMethodDescriptor parses an erased method descriptor like
// "(ILjava/lang/String;)V".
func ParseMethodDescriptor(descriptor string) (MethodType, bool) {
	var mt MethodType
	if len(descriptor) == 0 || descriptor[0] != '(' {
		return mt, false
	}
	i := 1
	for i < len(descriptor) && descriptor[i] != ')' {
		t, n := parseFieldType(descriptor, i)
		if n == 0 {
			return mt, false
		}
		mt.Parameters = append(mt.Parameters, t)
		i += n
	}
	if i >= len(descriptor) || descriptor[i] != ')' {
		return mt, false
	}
	i++
	if i < len(descriptor) && descriptor[i] != 'V' {
		t, n := parseFieldType(descriptor, i)
		if n == 0 {
			return mt, false
		}
		mt.Return = t
	}
	return mt, true
}

var primitiveDescriptors = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// parseFieldType parses one type starting at start, returning the consumed
// byte count (0 on failure).
func parseFieldType(descriptor string, start int) (FieldType, int) {
	var t FieldType
	i := start
	for i < len(descriptor) && descriptor[i] == '[' {
		t.ArrayDepth++
		i++
	}
	if i >= len(descriptor) {
		return t, 0
	}
	if primitive, ok := primitiveDescriptors[descriptor[i]]; ok {
		t.Primitive = primitive
		return t, i - start + 1
	}
	if descriptor[i] == 'L' {
		end := strings.IndexByte(descriptor[i:], ';')
		if end < 0 {
			return t, 0
		}
		t.ClassName = descriptor[i+1 : i+end]
		return t, i - start + end + 1
	}
	return t, 0
}
