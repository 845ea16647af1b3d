package classfiletest

import (
	"bytes"
	"encoding/binary"
)

// Asm assembles small method bodies for tests. Branch offsets are written
// relative to the branch instruction, as in the format.
type Asm struct {
	buf bytes.Buffer
}

// NewAsm starts an empty body.
func NewAsm() *Asm { return &Asm{} }

// Bytes returns the assembled body.
func (a *Asm) Bytes() []byte { return a.buf.Bytes() }

// PC returns the current offset.
func (a *Asm) PC() int { return a.buf.Len() }

// Op appends a bare opcode.
func (a *Asm) Op(op byte) *Asm {
	a.buf.WriteByte(op)
	return a
}

// Aload appends aload_n or aload.
func (a *Asm) Aload(n int) *Asm {
	if n <= 3 {
		return a.Op(0x2a + byte(n))
	}
	a.buf.WriteByte(0x19)
	a.buf.WriteByte(byte(n))
	return a
}

// Astore appends astore_n or astore.
func (a *Asm) Astore(n int) *Asm {
	if n <= 3 {
		return a.Op(0x4b + byte(n))
	}
	a.buf.WriteByte(0x3a)
	a.buf.WriteByte(byte(n))
	return a
}

// Iload appends iload_n or iload.
func (a *Asm) Iload(n int) *Asm {
	if n <= 3 {
		return a.Op(0x1a + byte(n))
	}
	a.buf.WriteByte(0x15)
	a.buf.WriteByte(byte(n))
	return a
}

// Iconst pushes an int constant with the shortest encoding.
func (a *Asm) Iconst(v int) *Asm {
	switch {
	case v >= -1 && v <= 5:
		return a.Op(byte(0x03 + v))
	case v >= -128 && v <= 127:
		a.buf.WriteByte(0x10)
		a.buf.WriteByte(byte(int8(v)))
	default:
		a.buf.WriteByte(0x11)
		a.u2(uint16(int16(v)))
	}
	return a
}

// Ldc appends ldc_w for the constant pool index.
func (a *Asm) Ldc(index uint16) *Asm {
	a.buf.WriteByte(0x13)
	a.u2(index)
	return a
}

// Getstatic appends getstatic.
func (a *Asm) Getstatic(index uint16) *Asm { return a.cpOp(0xb2, index) }

// Invokevirtual appends invokevirtual.
func (a *Asm) Invokevirtual(index uint16) *Asm { return a.cpOp(0xb6, index) }

// Invokespecial appends invokespecial.
func (a *Asm) Invokespecial(index uint16) *Asm { return a.cpOp(0xb7, index) }

// Invokestatic appends invokestatic.
func (a *Asm) Invokestatic(index uint16) *Asm { return a.cpOp(0xb8, index) }

// Invokeinterface appends invokeinterface with the given argument count.
func (a *Asm) Invokeinterface(index uint16, count byte) *Asm {
	a.buf.WriteByte(0xb9)
	a.u2(index)
	a.buf.WriteByte(count)
	a.buf.WriteByte(0)
	return a
}

// Invokedynamic appends invokedynamic.
func (a *Asm) Invokedynamic(index uint16) *Asm {
	a.buf.WriteByte(0xba)
	a.u2(index)
	a.buf.WriteByte(0)
	a.buf.WriteByte(0)
	return a
}

// New appends new.
func (a *Asm) New(index uint16) *Asm { return a.cpOp(0xbb, index) }

// Checkcast appends checkcast.
func (a *Asm) Checkcast(index uint16) *Asm { return a.cpOp(0xc0, index) }

// Branch appends a branch opcode with a relative 16-bit offset.
func (a *Asm) Branch(op byte, relative int16) *Asm {
	a.buf.WriteByte(op)
	a.u2(uint16(relative))
	return a
}

// Areturn appends areturn.
func (a *Asm) Areturn() *Asm { return a.Op(0xb0) }

// Return appends return.
func (a *Asm) Return() *Asm { return a.Op(0xb1) }

func (a *Asm) cpOp(op byte, index uint16) *Asm {
	a.buf.WriteByte(op)
	a.u2(index)
	return a
}

func (a *Asm) u2(v uint16) {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	a.buf.Write(buf[:])
}
