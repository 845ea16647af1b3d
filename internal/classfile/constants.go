package classfile

// magic is the class-file signature.
const magic = 0xCAFEBABE

// AccessFlags are the access_flags bits of classes, fields and methods.
type AccessFlags uint16

const (
	AccPublic     AccessFlags = 0x0001
	AccPrivate    AccessFlags = 0x0002
	AccProtected  AccessFlags = 0x0004
	AccStatic     AccessFlags = 0x0008
	AccFinal      AccessFlags = 0x0010
	AccNative     AccessFlags = 0x0100
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000
	AccModule     AccessFlags = 0x8000
)

func (f AccessFlags) IsStatic() bool     { return f&AccStatic != 0 }
func (f AccessFlags) IsNative() bool     { return f&AccNative != 0 }
func (f AccessFlags) IsInterface() bool  { return f&AccInterface != 0 }
func (f AccessFlags) IsAbstract() bool   { return f&AccAbstract != 0 }
func (f AccessFlags) IsSynthetic() bool  { return f&AccSynthetic != 0 }
func (f AccessFlags) IsAnnotation() bool { return f&AccAnnotation != 0 }
func (f AccessFlags) IsEnum() bool       { return f&AccEnum != 0 }
func (f AccessFlags) IsModule() bool     { return f&AccModule != 0 }

// constTag identifies a constant pool entry kind.
type constTag uint8

const (
	tagUtf8               constTag = 1
	tagInteger            constTag = 3
	tagFloat              constTag = 4
	tagLong               constTag = 5
	tagDouble             constTag = 6
	tagClass              constTag = 7
	tagString             constTag = 8
	tagFieldref           constTag = 9
	tagMethodref          constTag = 10
	tagInterfaceMethodref constTag = 11
	tagNameAndType        constTag = 12
	tagMethodHandle       constTag = 15
	tagMethodType         constTag = 16
	tagDynamic            constTag = 17
	tagInvokeDynamic      constTag = 18
	tagModule             constTag = 19
	tagPackage            constTag = 20
)

// MethodHandleKind is the reference_kind of a CONSTANT_MethodHandle entry.
type MethodHandleKind uint8

const (
	RefGetField         MethodHandleKind = 1
	RefGetStatic        MethodHandleKind = 2
	RefPutField         MethodHandleKind = 3
	RefPutStatic        MethodHandleKind = 4
	RefInvokeVirtual    MethodHandleKind = 5
	RefInvokeStatic     MethodHandleKind = 6
	RefInvokeSpecial    MethodHandleKind = 7
	RefNewInvokeSpecial MethodHandleKind = 8
	RefInvokeInterface  MethodHandleKind = 9
)

// Names of the attributes the analyzer reads.
const (
	attrCode                 = "Code"
	attrSignature            = "Signature"
	attrSourceFile           = "SourceFile"
	attrBootstrapMethods     = "BootstrapMethods"
	attrRuntimeAnnotations   = "RuntimeVisibleAnnotations"
	attrRuntimeParamAnnotations = "RuntimeVisibleParameterAnnotations"
)
