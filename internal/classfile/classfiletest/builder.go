// Package classfiletest builds small class files in memory so tests can
// exercise the analysis pipeline without a Java toolchain.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// Elem is one annotation element for the builder.
type Elem struct {
	Name    string
	Str     string
	Strs    []string
	isArray bool
}

// Str builds a string-valued annotation element.
func Str(name, value string) Elem {
	return Elem{Name: name, Str: value}
}

// StrArray builds a string-array annotation element.
func StrArray(name string, values ...string) Elem {
	return Elem{Name: name, Strs: values, isArray: true}
}

// Ann is an annotation spec for the builder.
type Ann struct {
	Type  string // binary (dot) name
	Elems []Elem
}

// Annotation builds an annotation spec.
func Annotation(binaryName string, elems ...Elem) Ann {
	return Ann{Type: binaryName, Elems: elems}
}

// ClassBuilder assembles one class file.
type ClassBuilder struct {
	name        string
	super       string
	interfaces  []string
	access      uint16
	annotations []Ann
	fields      []memberSpec
	methods     []*MethodBuilder
	bootstrap   [][2]interface{} // (method handle cp index, args)

	cp cpBuilder
}

type memberSpec struct {
	access      uint16
	name        string
	descriptor  string
	annotations []Ann
}

// NewClass starts a public class with java/lang/Object as superclass.
// Names are binary (dot) form.
func NewClass(binaryName string) *ClassBuilder {
	b := &ClassBuilder{
		name:   binaryName,
		super:  "java.lang.Object",
		access: 0x0021, // ACC_PUBLIC | ACC_SUPER
	}
	b.cp.init()
	return b
}

// NewInterface starts a public interface.
func NewInterface(binaryName string) *ClassBuilder {
	b := NewClass(binaryName)
	b.access = 0x0601 // ACC_PUBLIC | ACC_INTERFACE | ACC_ABSTRACT
	return b
}

// NewAnnotationType starts an annotation declaration (for meta-annotation
// tests).
func NewAnnotationType(binaryName string) *ClassBuilder {
	b := NewClass(binaryName)
	b.access = 0x2601 // ACC_PUBLIC | ACC_INTERFACE | ACC_ABSTRACT | ACC_ANNOTATION
	return b
}

// Super sets the superclass (binary name).
func (b *ClassBuilder) Super(binaryName string) *ClassBuilder {
	b.super = binaryName
	return b
}

// Implements adds interfaces (binary names).
func (b *ClassBuilder) Implements(binaryNames ...string) *ClassBuilder {
	b.interfaces = append(b.interfaces, binaryNames...)
	return b
}

// Annotate adds a class-level annotation.
func (b *ClassBuilder) Annotate(ann Ann) *ClassBuilder {
	b.annotations = append(b.annotations, ann)
	return b
}

// Field adds an instance field.
func (b *ClassBuilder) Field(name, descriptor string, anns ...Ann) *ClassBuilder {
	b.fields = append(b.fields, memberSpec{access: 0x0002, name: name, descriptor: descriptor, annotations: anns})
	return b
}

// StaticField adds a static field.
func (b *ClassBuilder) StaticField(name, descriptor string, anns ...Ann) *ClassBuilder {
	b.fields = append(b.fields, memberSpec{access: 0x000a, name: name, descriptor: descriptor, annotations: anns})
	return b
}

// AddMethod attaches a method.
func (b *ClassBuilder) AddMethod(m *MethodBuilder) *ClassBuilder {
	b.methods = append(b.methods, m)
	return b
}

// MethodBuilder assembles one method.
type MethodBuilder struct {
	access      uint16
	name        string
	descriptor  string
	annotations []Ann
	paramAnns   [][]Ann
	code        []byte
	maxStack    int
	maxLocals   int
	hasCode     bool
}

// NewMethod starts a public method.
func NewMethod(name, descriptor string) *MethodBuilder {
	return &MethodBuilder{access: 0x0001, name: name, descriptor: descriptor}
}

// Static marks the method static.
func (m *MethodBuilder) Static() *MethodBuilder {
	m.access |= 0x0008
	return m
}

// Abstract marks the method abstract (no Code attribute).
func (m *MethodBuilder) Abstract() *MethodBuilder {
	m.access |= 0x0400
	return m
}

// Synthetic marks the method synthetic.
func (m *MethodBuilder) Synthetic() *MethodBuilder {
	m.access |= 0x1000
	return m
}

// Annotate adds a method annotation.
func (m *MethodBuilder) Annotate(ann Ann) *MethodBuilder {
	m.annotations = append(m.annotations, ann)
	return m
}

// AnnotateParam adds an annotation on the parameter at index.
func (m *MethodBuilder) AnnotateParam(index int, ann Ann) *MethodBuilder {
	for len(m.paramAnns) <= index {
		m.paramAnns = append(m.paramAnns, nil)
	}
	m.paramAnns[index] = append(m.paramAnns[index], ann)
	return m
}

// Code attaches an assembled body.
func (m *MethodBuilder) Code(maxStack, maxLocals int, body []byte) *MethodBuilder {
	m.maxStack = maxStack
	m.maxLocals = maxLocals
	m.code = body
	m.hasCode = true
	return m
}

// Constant-pool handles exposed so assembled code can reference entries.

// StringConst interns a CONSTANT_String and returns its index.
func (b *ClassBuilder) StringConst(value string) uint16 {
	return b.cp.stringConst(value)
}

// IntConst interns a CONSTANT_Integer and returns its index.
func (b *ClassBuilder) IntConst(value int32) uint16 {
	return b.cp.intConst(value)
}

// ClassConst interns a CONSTANT_Class and returns its index.
func (b *ClassBuilder) ClassConst(binaryName string) uint16 {
	return b.cp.classConst(internal(binaryName))
}

// MethodRef interns a CONSTANT_Methodref and returns its index.
func (b *ClassBuilder) MethodRef(binaryName, method, descriptor string) uint16 {
	return b.cp.ref(10, internal(binaryName), method, descriptor)
}

// InterfaceMethodRef interns a CONSTANT_InterfaceMethodref.
func (b *ClassBuilder) InterfaceMethodRef(binaryName, method, descriptor string) uint16 {
	return b.cp.ref(11, internal(binaryName), method, descriptor)
}

// FieldRef interns a CONSTANT_Fieldref.
func (b *ClassBuilder) FieldRef(binaryName, field, descriptor string) uint16 {
	return b.cp.ref(9, internal(binaryName), field, descriptor)
}

// InvokeDynamic interns a CONSTANT_InvokeDynamic against a
// LambdaMetafactory.metafactory bootstrap entry whose bootstrap argument is
// a static method handle to handleClass.handleMethod, returning the cp index
// for an invokedynamic instruction. name/descriptor describe the call site.
func (b *ClassBuilder) InvokeDynamic(handleClass, handleMethod, handleDescriptor, siteName, siteDescriptor string) uint16 {
	handle := b.cp.methodHandle(6, b.cp.ref(10, internal(handleClass), handleMethod, handleDescriptor))
	bsm := b.cp.methodHandle(6, b.cp.ref(10, "java/lang/invoke/LambdaMetafactory", "metafactory",
		"(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodHandle;Ljava/lang/invoke/MethodType;)Ljava/lang/invoke/CallSite;"))
	bootstrapIndex := len(b.bootstrap)
	b.bootstrap = append(b.bootstrap, [2]interface{}{bsm, []uint16{handle}})
	nat := b.cp.nameAndType(siteName, siteDescriptor)
	return b.cp.add(cpEntry{tag: 18, idx1: uint16(bootstrapIndex), idx2: nat})
}

// Bytes assembles the class file.
func (b *ClassBuilder) Bytes() []byte {
	// Pre-intern structural entries so the pool is complete before writing.
	thisClass := b.cp.classConst(internal(b.name))
	superClass := b.cp.classConst(internal(b.super))
	ifaceIdx := make([]uint16, len(b.interfaces))
	for i, name := range b.interfaces {
		ifaceIdx[i] = b.cp.classConst(internal(name))
	}

	type encodedMember struct {
		access     uint16
		nameIdx    uint16
		descIdx    uint16
		attributes [][]byte // each fully encoded with name index + length
	}

	encodeAnnAttr := func(anns []Ann) []byte {
		if len(anns) == 0 {
			return nil
		}
		body := b.encodeAnnotations(anns)
		return b.attribute("RuntimeVisibleAnnotations", body)
	}

	var fields []encodedMember
	for _, f := range b.fields {
		em := encodedMember{
			access:  f.access,
			nameIdx: b.cp.utf8(f.name),
			descIdx: b.cp.utf8(f.descriptor),
		}
		if attr := encodeAnnAttr(f.annotations); attr != nil {
			em.attributes = append(em.attributes, attr)
		}
		fields = append(fields, em)
	}

	var methods []encodedMember
	for _, m := range b.methods {
		em := encodedMember{
			access:  m.access,
			nameIdx: b.cp.utf8(m.name),
			descIdx: b.cp.utf8(m.descriptor),
		}
		if m.hasCode {
			var code bytes.Buffer
			writeU2(&code, uint16(m.maxStack))
			writeU2(&code, uint16(m.maxLocals))
			writeU4(&code, uint32(len(m.code)))
			code.Write(m.code)
			writeU2(&code, 0) // exception table
			writeU2(&code, 0) // code attributes
			em.attributes = append(em.attributes, b.attribute("Code", code.Bytes()))
		}
		if attr := encodeAnnAttr(m.annotations); attr != nil {
			em.attributes = append(em.attributes, attr)
		}
		if len(m.paramAnns) > 0 {
			var body bytes.Buffer
			body.WriteByte(byte(len(m.paramAnns)))
			for _, anns := range m.paramAnns {
				body.Write(b.encodeAnnotations(anns))
			}
			em.attributes = append(em.attributes, b.attribute("RuntimeVisibleParameterAnnotations", body.Bytes()))
		}
		methods = append(methods, em)
	}

	var classAttrs [][]byte
	if attr := encodeAnnAttr(b.annotations); attr != nil {
		classAttrs = append(classAttrs, attr)
	}
	if len(b.bootstrap) > 0 {
		var body bytes.Buffer
		writeU2(&body, uint16(len(b.bootstrap)))
		for _, bm := range b.bootstrap {
			writeU2(&body, bm[0].(uint16))
			args := bm[1].([]uint16)
			writeU2(&body, uint16(len(args)))
			for _, a := range args {
				writeU2(&body, a)
			}
		}
		classAttrs = append(classAttrs, b.attribute("BootstrapMethods", body.Bytes()))
	}

	var out bytes.Buffer
	writeU4(&out, 0xCAFEBABE)
	writeU2(&out, 0)  // minor
	writeU2(&out, 52) // major: Java 8

	b.cp.write(&out)

	writeU2(&out, b.access)
	writeU2(&out, thisClass)
	writeU2(&out, superClass)
	writeU2(&out, uint16(len(ifaceIdx)))
	for _, idx := range ifaceIdx {
		writeU2(&out, idx)
	}

	writeMembers := func(members []encodedMember) {
		writeU2(&out, uint16(len(members)))
		for _, m := range members {
			writeU2(&out, m.access)
			writeU2(&out, m.nameIdx)
			writeU2(&out, m.descIdx)
			writeU2(&out, uint16(len(m.attributes)))
			for _, attr := range m.attributes {
				out.Write(attr)
			}
		}
	}
	writeMembers(fields)
	writeMembers(methods)

	writeU2(&out, uint16(len(classAttrs)))
	for _, attr := range classAttrs {
		out.Write(attr)
	}

	return out.Bytes()
}

// attribute encodes an attribute header plus body.
func (b *ClassBuilder) attribute(name string, body []byte) []byte {
	var out bytes.Buffer
	writeU2(&out, b.cp.utf8(name))
	writeU4(&out, uint32(len(body)))
	out.Write(body)
	return out.Bytes()
}

func (b *ClassBuilder) encodeAnnotations(anns []Ann) []byte {
	var out bytes.Buffer
	writeU2(&out, uint16(len(anns)))
	for _, ann := range anns {
		writeU2(&out, b.cp.utf8("L"+internal(ann.Type)+";"))
		writeU2(&out, uint16(len(ann.Elems)))
		for _, elem := range ann.Elems {
			writeU2(&out, b.cp.utf8(elem.Name))
			if elem.isArray {
				out.WriteByte('[')
				writeU2(&out, uint16(len(elem.Strs)))
				for _, s := range elem.Strs {
					out.WriteByte('s')
					writeU2(&out, b.cp.utf8(s))
				}
			} else {
				out.WriteByte('s')
				writeU2(&out, b.cp.utf8(elem.Str))
			}
		}
	}
	return out.Bytes()
}

func internal(binaryName string) string {
	return strings.ReplaceAll(binaryName, ".", "/")
}

// cpBuilder interns constant pool entries with deduplication.
type cpEntry struct {
	tag  uint8
	str  string
	i32  int32
	idx1 uint16
	idx2 uint16
	kind uint8
}

type cpBuilder struct {
	entries []cpEntry
	lookup  map[cpEntry]uint16
}

func (c *cpBuilder) init() {
	c.lookup = make(map[cpEntry]uint16)
}

func (c *cpBuilder) add(e cpEntry) uint16 {
	if idx, ok := c.lookup[e]; ok {
		return idx
	}
	c.entries = append(c.entries, e)
	idx := uint16(len(c.entries)) // 1-based
	c.lookup[e] = idx
	return idx
}

func (c *cpBuilder) utf8(s string) uint16 {
	return c.add(cpEntry{tag: 1, str: s})
}

func (c *cpBuilder) intConst(v int32) uint16 {
	return c.add(cpEntry{tag: 3, i32: v})
}

func (c *cpBuilder) classConst(internalName string) uint16 {
	return c.add(cpEntry{tag: 7, idx1: c.utf8(internalName)})
}

func (c *cpBuilder) stringConst(s string) uint16 {
	return c.add(cpEntry{tag: 8, idx1: c.utf8(s)})
}

func (c *cpBuilder) nameAndType(name, descriptor string) uint16 {
	return c.add(cpEntry{tag: 12, idx1: c.utf8(name), idx2: c.utf8(descriptor)})
}

func (c *cpBuilder) ref(tag uint8, internalClass, name, descriptor string) uint16 {
	return c.add(cpEntry{tag: tag, idx1: c.classConst(internalClass), idx2: c.nameAndType(name, descriptor)})
}

func (c *cpBuilder) methodHandle(kind uint8, refIndex uint16) uint16 {
	return c.add(cpEntry{tag: 15, kind: kind, idx1: refIndex})
}

func (c *cpBuilder) write(out *bytes.Buffer) {
	writeU2(out, uint16(len(c.entries)+1))
	for _, e := range c.entries {
		out.WriteByte(e.tag)
		switch e.tag {
		case 1:
			writeU2(out, uint16(len(e.str)))
			out.WriteString(e.str)
		case 3:
			writeU4(out, uint32(e.i32))
		case 7, 8:
			writeU2(out, e.idx1)
		case 9, 10, 11, 12, 18:
			writeU2(out, e.idx1)
			writeU2(out, e.idx2)
		case 15:
			out.WriteByte(e.kind)
			writeU2(out, e.idx1)
		}
	}
}

func writeU2(out *bytes.Buffer, v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	out.Write(buf[:])
}

func writeU4(out *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	out.Write(buf[:])
}
