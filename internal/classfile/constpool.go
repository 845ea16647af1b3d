package classfile

// constant is one constant-pool slot. Long and double entries occupy two
// slots; the second slot stays zeroed.
type constant struct {
	tag  constTag
	str  string
	i64  int64
	f64  float64
	idx1 uint16
	idx2 uint16
	kind MethodHandleKind
}

// ConstPool is the parsed constant pool, indexed 1-based as in the format.
type ConstPool struct {
	entries []constant
}

func (p *ConstPool) at(index uint16) *constant {
	if index == 0 || int(index) > len(p.entries) {
		return nil
	}
	return &p.entries[index-1]
}

// Utf8 resolves a CONSTANT_Utf8 entry.
func (p *ConstPool) Utf8(index uint16) string {
	if e := p.at(index); e != nil && e.tag == tagUtf8 {
		return e.str
	}
	return ""
}

// ClassName resolves a CONSTANT_Class entry to its internal (slash) name.
func (p *ConstPool) ClassName(index uint16) string {
	if e := p.at(index); e != nil && e.tag == tagClass {
		return p.Utf8(e.idx1)
	}
	return ""
}

// String resolves a CONSTANT_String entry.
func (p *ConstPool) String(index uint16) (string, bool) {
	if e := p.at(index); e != nil && e.tag == tagString {
		return p.Utf8(e.idx1), true
	}
	return "", false
}

// Integer resolves a CONSTANT_Integer entry.
func (p *ConstPool) Integer(index uint16) (int32, bool) {
	if e := p.at(index); e != nil && e.tag == tagInteger {
		return int32(e.i64), true
	}
	return 0, false
}

// Long resolves a CONSTANT_Long entry.
func (p *ConstPool) Long(index uint16) (int64, bool) {
	if e := p.at(index); e != nil && e.tag == tagLong {
		return e.i64, true
	}
	return 0, false
}

// NameAndType resolves a CONSTANT_NameAndType entry.
func (p *ConstPool) NameAndType(index uint16) (name, descriptor string) {
	if e := p.at(index); e != nil && e.tag == tagNameAndType {
		return p.Utf8(e.idx1), p.Utf8(e.idx2)
	}
	return "", ""
}

// FieldRef resolves a CONSTANT_Fieldref entry.
func (p *ConstPool) FieldRef(index uint16) (className, name, descriptor string, ok bool) {
	if e := p.at(index); e != nil && e.tag == tagFieldref {
		name, descriptor = p.NameAndType(e.idx2)
		return p.ClassName(e.idx1), name, descriptor, true
	}
	return "", "", "", false
}

// MethodRef resolves a CONSTANT_Methodref or CONSTANT_InterfaceMethodref
// entry.
func (p *ConstPool) MethodRef(index uint16) (className, name, descriptor string, ok bool) {
	if e := p.at(index); e != nil && (e.tag == tagMethodref || e.tag == tagInterfaceMethodref) {
		name, descriptor = p.NameAndType(e.idx2)
		return p.ClassName(e.idx1), name, descriptor, true
	}
	return "", "", "", false
}

// MethodHandle resolves a CONSTANT_MethodHandle entry to its kind and the
// referenced member.
func (p *ConstPool) MethodHandle(index uint16) (kind MethodHandleKind, className, name, descriptor string, ok bool) {
	e := p.at(index)
	if e == nil || e.tag != tagMethodHandle {
		return 0, "", "", "", false
	}
	ref := p.at(e.idx1)
	if ref == nil {
		return 0, "", "", "", false
	}
	switch ref.tag {
	case tagMethodref, tagInterfaceMethodref, tagFieldref:
		name, descriptor = p.NameAndType(ref.idx2)
		return e.kind, p.ClassName(ref.idx1), name, descriptor, true
	}
	return 0, "", "", "", false
}

// InvokeDynamic resolves a CONSTANT_InvokeDynamic entry to its bootstrap
// method index and call-site name/descriptor.
func (p *ConstPool) InvokeDynamic(index uint16) (bootstrap uint16, name, descriptor string, ok bool) {
	if e := p.at(index); e != nil && (e.tag == tagInvokeDynamic || e.tag == tagDynamic) {
		name, descriptor = p.NameAndType(e.idx2)
		return e.idx1, name, descriptor, true
	}
	return 0, "", "", false
}
