// Package classfile parses compiled JVM class files: constant pool, member
// tables, runtime-visible annotations, and method bodies decoded into an
// instruction stream. Parsing never loads classes into any runtime.
package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Class is a parsed class file.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         ConstPool
	Access       AccessFlags

	name       string
	superName  string
	interfaces []string

	Fields     []Member
	Methods    []Member
	Attributes []Attribute
}

// Name returns the internal (slash-separated) class name.
func (c *Class) Name() string { return c.name }

// BinaryName returns the dot-separated class name.
func (c *Class) BinaryName() string { return ToBinaryName(c.name) }

// SuperName returns the internal superclass name, "" for java/lang/Object
// roots and modules.
func (c *Class) SuperName() string { return c.superName }

// InterfaceNames returns the internal names of the directly implemented
// interfaces.
func (c *Class) InterfaceNames() []string { return c.interfaces }

// Annotations returns the class-level runtime-visible annotations.
func (c *Class) Annotations() []Annotation {
	return annotationsOf(c.Attributes, &c.Pool)
}

// BootstrapMethods returns the parsed BootstrapMethods attribute entries.
func (c *Class) BootstrapMethods() []BootstrapMethod {
	attr := findAttribute(c.Attributes, attrBootstrapMethods)
	if attr == nil {
		return nil
	}
	return parseBootstrapMethods(attr.Data)
}

// SourceFile returns the SourceFile attribute value, if present.
func (c *Class) SourceFile() string {
	attr := findAttribute(c.Attributes, attrSourceFile)
	if attr == nil || len(attr.Data) < 2 {
		return ""
	}
	return c.Pool.Utf8(binary.BigEndian.Uint16(attr.Data[0:2]))
}

// Method returns the method with the given name whose erased descriptor or
// generic signature equals signature. An empty signature matches the first
// method with the name.
func (c *Class) Method(name, signature string) *Member {
	for i := range c.Methods {
		m := &c.Methods[i]
		if m.Name != name {
			continue
		}
		if signature == "" || m.Descriptor == signature || m.Signature(&c.Pool) == signature {
			return m
		}
	}
	return nil
}

// Member is a field or method.
type Member struct {
	Access     AccessFlags
	Name       string
	Descriptor string
	Attributes []Attribute
}

// Signature returns the generic signature, "" when absent.
func (m *Member) Signature(pool *ConstPool) string {
	attr := findAttribute(m.Attributes, attrSignature)
	if attr == nil || len(attr.Data) < 2 {
		return ""
	}
	return pool.Utf8(binary.BigEndian.Uint16(attr.Data[0:2]))
}

// Annotations returns the member's runtime-visible annotations.
func (m *Member) Annotations(pool *ConstPool) []Annotation {
	return annotationsOf(m.Attributes, pool)
}

// ParameterAnnotations returns per-parameter runtime-visible annotations in
// declaration order.
func (m *Member) ParameterAnnotations(pool *ConstPool) [][]Annotation {
	attr := findAttribute(m.Attributes, attrRuntimeParamAnnotations)
	if attr == nil {
		return nil
	}
	return parseParameterAnnotations(attr.Data, pool)
}

// Code returns the decoded method body, nil for abstract and native methods.
func (m *Member) Code(pool *ConstPool) *Code {
	attr := findAttribute(m.Attributes, attrCode)
	if attr == nil {
		return nil
	}
	return parseCode(attr.Data)
}

// Attribute is a raw attribute with its name resolved.
type Attribute struct {
	Name string
	Data []byte
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

// BootstrapMethod is one BootstrapMethods entry.
type BootstrapMethod struct {
	MethodRef uint16
	Arguments []uint16
}

// ToBinaryName converts an internal (slash) name to binary (dot) form.
func ToBinaryName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// ToInternalName converts a binary (dot) name to internal (slash) form.
func ToInternalName(binaryName string) string {
	return strings.ReplaceAll(binaryName, ".", "/")
}

// Parse reads a class file from raw bytes.
func Parse(data []byte) (*Class, error) {
	r := &cursor{data: data}

	if r.u4() != magic {
		return nil, fmt.Errorf("bad magic number")
	}

	c := &Class{
		MinorVersion: r.u2(),
		MajorVersion: r.u2(),
	}

	if err := parsePool(r, &c.Pool); err != nil {
		return nil, err
	}

	c.Access = AccessFlags(r.u2())
	c.name = c.Pool.ClassName(r.u2())
	c.superName = c.Pool.ClassName(r.u2())

	interfaceCount := int(r.u2())
	c.interfaces = make([]string, 0, interfaceCount)
	for i := 0; i < interfaceCount; i++ {
		c.interfaces = append(c.interfaces, c.Pool.ClassName(r.u2()))
	}

	var err error
	if c.Fields, err = parseMembers(r, &c.Pool); err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	if c.Methods, err = parseMembers(r, &c.Pool); err != nil {
		return nil, fmt.Errorf("methods: %w", err)
	}
	if c.Attributes, err = parseAttributes(r, &c.Pool); err != nil {
		return nil, fmt.Errorf("attributes: %w", err)
	}
	if r.failed {
		return nil, fmt.Errorf("truncated class file")
	}
	return c, nil
}

func parsePool(r *cursor, pool *ConstPool) error {
	count := int(r.u2())
	if r.failed || count == 0 {
		return fmt.Errorf("truncated constant pool")
	}
	pool.entries = make([]constant, count-1)
	for i := 1; i < count; i++ {
		tag := constTag(r.u1())
		entry := constant{tag: tag}
		switch tag {
		case tagUtf8:
			length := int(r.u2())
			entry.str = decodeModifiedUTF8(r.bytes(length))
		case tagInteger:
			entry.i64 = int64(int32(r.u4()))
		case tagFloat:
			entry.f64 = float64(math.Float32frombits(r.u4()))
		case tagLong:
			entry.i64 = int64(uint64(r.u4())<<32 | uint64(r.u4()))
		case tagDouble:
			entry.f64 = math.Float64frombits(uint64(r.u4())<<32 | uint64(r.u4()))
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			entry.idx1 = r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType,
			tagDynamic, tagInvokeDynamic:
			entry.idx1 = r.u2()
			entry.idx2 = r.u2()
		case tagMethodHandle:
			entry.kind = MethodHandleKind(r.u1())
			entry.idx1 = r.u2()
		default:
			return fmt.Errorf("unknown constant pool tag %d at entry %d", tag, i)
		}
		if r.failed {
			return fmt.Errorf("truncated constant pool entry %d", i)
		}
		pool.entries[i-1] = entry
		if tag == tagLong || tag == tagDouble {
			// occupies two slots
			i++
		}
	}
	return nil
}

func parseMembers(r *cursor, pool *ConstPool) ([]Member, error) {
	count := int(r.u2())
	if r.failed {
		return nil, fmt.Errorf("truncated member table")
	}
	members := make([]Member, 0, count)
	for i := 0; i < count; i++ {
		m := Member{
			Access:     AccessFlags(r.u2()),
			Name:       pool.Utf8(r.u2()),
			Descriptor: pool.Utf8(r.u2()),
		}
		attrs, err := parseAttributes(r, pool)
		if err != nil {
			return nil, err
		}
		m.Attributes = attrs
		members = append(members, m)
	}
	return members, nil
}

func parseAttributes(r *cursor, pool *ConstPool) ([]Attribute, error) {
	count := int(r.u2())
	if r.failed {
		return nil, fmt.Errorf("truncated attribute table")
	}
	attrs := make([]Attribute, 0, count)
	for i := 0; i < count; i++ {
		name := pool.Utf8(r.u2())
		length := int(r.u4())
		data := r.bytes(length)
		if r.failed {
			return nil, fmt.Errorf("truncated attribute %q", name)
		}
		attrs = append(attrs, Attribute{Name: name, Data: data})
	}
	return attrs, nil
}

func parseBootstrapMethods(data []byte) []BootstrapMethod {
	if len(data) < 2 {
		return nil
	}
	count := int(binary.BigEndian.Uint16(data[0:2]))
	methods := make([]BootstrapMethod, 0, count)
	offset := 2
	for i := 0; i < count; i++ {
		if len(data) < offset+4 {
			return nil
		}
		bm := BootstrapMethod{
			MethodRef: binary.BigEndian.Uint16(data[offset : offset+2]),
		}
		argCount := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		offset += 4
		if len(data) < offset+argCount*2 {
			return nil
		}
		bm.Arguments = make([]uint16, argCount)
		for j := 0; j < argCount; j++ {
			bm.Arguments[j] = binary.BigEndian.Uint16(data[offset : offset+2])
			offset += 2
		}
		methods = append(methods, bm)
	}
	return methods
}

// cursor is a bounds-checked big-endian reader over the raw bytes. After a
// short read it keeps returning zero values; callers check failed once.
type cursor struct {
	data   []byte
	off    int
	failed bool
}

func (r *cursor) u1() uint8 {
	if r.failed || r.off+1 > len(r.data) {
		r.failed = true
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *cursor) u2() uint16 {
	if r.failed || r.off+2 > len(r.data) {
		r.failed = true
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.off : r.off+2])
	r.off += 2
	return v
}

func (r *cursor) u4() uint32 {
	if r.failed || r.off+4 > len(r.data) {
		r.failed = true
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.off : r.off+4])
	r.off += 4
	return v
}

func (r *cursor) bytes(n int) []byte {
	if r.failed || n < 0 || r.off+n > len(r.data) {
		r.failed = true
		return nil
	}
	v := r.data[r.off : r.off+n]
	r.off += n
	return v
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8: a null byte is
// encoded as two bytes and supplementary characters as surrogate pairs.
func decodeModifiedUTF8(data []byte) string {
	runes := make([]rune, 0, len(data))
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++
		case b&0xE0 == 0xC0 && i+1 < len(data):
			runes = append(runes, rune(b&0x1F)<<6|rune(data[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0 && i+2 < len(data):
			r := rune(b&0x0F)<<12 | rune(data[i+1]&0x3F)<<6 | rune(data[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(data) {
				low := rune(data[i+3]&0x0F)<<12 | rune(data[i+4]&0x3F)<<6 | rune(data[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}
