// Package bytecode infers the HTTP responses a resource method can produce
// by abstract interpretation of its body. The engine tracks an abstract
// operand stack and local table per program point and iterates to a
// fixpoint; it never executes user code.
package bytecode

import (
	"strings"

	"github.com/griffnb/jaxdoc/internal/classfile"
	"github.com/griffnb/jaxdoc/internal/domain"
)

// ClassResolver supplies parsed classes for callee and handle resolution.
type ClassResolver interface {
	Class(binaryName string) (*classfile.Class, error)
	Contains(binaryName string) bool
}

// Debugger is the interface for debug logging.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// DefaultIterationCap bounds fixpoint visits per instruction before values
// widen to Unknown.
const DefaultIterationCap = 50

const maxCallDepth = 10

type methodKey struct {
	class      string
	name       string
	descriptor string
}

type summary struct {
	responses []*domain.HttpResponse
	invoked   []domain.MethodIdentifier
}

// Interpreter runs the abstract interpretation. Summaries of analyzed
// methods are cached for the lifetime of one analyze call.
type Interpreter struct {
	resolver     ClassResolver
	debug        Debugger
	iterationCap int

	cache  map[methodKey]*summary
	active map[methodKey]bool
}

// Option configures the interpreter.
type Option func(*Interpreter)

// WithIterationCap overrides the fixpoint iteration cap.
func WithIterationCap(cap int) Option {
	return func(it *Interpreter) {
		if cap > 0 {
			it.iterationCap = cap
		}
	}
}

// WithDebugger sets the debug logger.
func WithDebugger(debug Debugger) Option {
	return func(it *Interpreter) {
		it.debug = debug
	}
}

// NewInterpreter creates an interpreter backed by the given resolver.
func NewInterpreter(resolver ClassResolver, opts ...Option) *Interpreter {
	it := &Interpreter{
		resolver:     resolver,
		iterationCap: DefaultIterationCap,
		cache:        make(map[methodKey]*summary),
		active:       make(map[methodKey]bool),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// AnalyzeMethod fills the method result's response set and invoked targets
// from the body of the concrete method on className.
func (it *Interpreter) AnalyzeMethod(className string, method *domain.MethodResult) {
	sum := it.methodSummary(methodKey{class: className, name: method.MethodName, descriptor: method.Descriptor}, 0)
	method.Responses = append(method.Responses, sum.responses...)
	method.InvokedTargets = append(method.InvokedTargets, sum.invoked...)
}

func (it *Interpreter) methodSummary(key methodKey, depth int) *summary {
	if cached, ok := it.cache[key]; ok {
		return cached
	}
	if it.active[key] || depth > maxCallDepth {
		return &summary{}
	}
	it.active[key] = true
	defer delete(it.active, key)

	sum := it.computeSummary(key, depth)
	it.cache[key] = sum
	return sum
}

func (it *Interpreter) computeSummary(key methodKey, depth int) *summary {
	class, err := it.resolver.Class(key.class)
	if err != nil {
		it.debugf("bytecode: cannot resolve %s: %v", key.class, err)
		return &summary{}
	}
	member := class.Method(key.name, key.descriptor)
	if member == nil {
		it.debugf("bytecode: method %s#%s%s not found", key.class, key.name, key.descriptor)
		return &summary{}
	}

	descriptor, ok := classfile.ParseMethodDescriptor(member.Descriptor)
	if !ok {
		it.debugf("bytecode: undecodable descriptor %s on %s#%s", member.Descriptor, key.class, key.name)
		return &summary{}
	}

	code := member.Code(&class.Pool)
	if code == nil || len(code.Instructions) == 0 {
		return &summary{responses: declaredReturnResponses(descriptor.Return)}
	}

	run := &methodRun{
		interp:     it,
		class:      class,
		member:     member,
		descriptor: descriptor,
		code:       code,
		depth:      depth,
		responses:  make(map[string]*domain.HttpResponse),
		invoked:    make(map[domain.MethodIdentifier]struct{}),
	}
	return run.fixpoint()
}

func (it *Interpreter) debugf(format string, v ...interface{}) {
	if it.debug != nil {
		it.debug.Printf(format, v...)
	}
}

// declaredReturnResponses is the fallback when no body is available: a void
// method yields 204, anything else a 200 with the declared entity type.
func declaredReturnResponses(ret classfile.FieldType) []*domain.HttpResponse {
	r := domain.NewHttpResponse()
	if ret.IsVoid() {
		r.Statuses[204] = struct{}{}
		return []*domain.HttpResponse{r}
	}
	r.Statuses[200] = struct{}{}
	if name := classfile.ToBinaryName(ret.ClassName); !domain.IsResponseType(name) {
		r.EntityType = ret.SourceName()
	}
	return []*domain.HttpResponse{r}
}

// methodRun is the per-method fixpoint state.
type methodRun struct {
	interp     *Interpreter
	class      *classfile.Class
	member     *classfile.Member
	descriptor classfile.MethodType
	code       *classfile.Code
	depth      int

	responses map[string]*domain.HttpResponse
	invoked   map[domain.MethodIdentifier]struct{}
	order     []string
	invOrder  []domain.MethodIdentifier
	limitHit  bool
}

// frame is the abstract state at one program point.
type frame struct {
	stack  []value
	locals []value
}

func (f *frame) clone() *frame {
	c := &frame{
		stack:  make([]value, len(f.stack)),
		locals: make([]value, len(f.locals)),
	}
	copy(c.stack, f.stack)
	copy(c.locals, f.locals)
	return c
}

func (f *frame) push(v value) {
	f.stack = append(f.stack, v)
}

func (f *frame) pop() value {
	if len(f.stack) == 0 {
		return unknownValue()
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

// popArgs pops count argument values and returns them in declaration order.
func (f *frame) popArgs(count int) []value {
	args := make([]value, count)
	for i := count - 1; i >= 0; i-- {
		args[i] = f.pop()
	}
	return args
}

// mergeInto joins src into the stored state, reporting change.
func mergeInto(dst **frame, src *frame) bool {
	if *dst == nil {
		*dst = src.clone()
		return true
	}
	existing := *dst
	changed := false
	// Stacks of different depth at a merge point indicate dead or
	// undecodable code; widen to the shallower depth.
	if len(src.stack) < len(existing.stack) {
		existing.stack = existing.stack[:len(src.stack)]
		changed = true
	}
	for i := range existing.stack {
		joined := join(existing.stack[i], src.stack[i])
		if !valueEqual(joined, existing.stack[i]) {
			existing.stack[i] = joined
			changed = true
		}
	}
	for i := range existing.locals {
		if i >= len(src.locals) {
			break
		}
		joined := join(existing.locals[i], src.locals[i])
		if !valueEqual(joined, existing.locals[i]) {
			existing.locals[i] = joined
			changed = true
		}
	}
	return changed
}

func (r *methodRun) initialFrame() *frame {
	f := &frame{locals: make([]value, r.code.MaxLocals)}
	for i := range f.locals {
		f.locals[i] = unknownValue()
	}
	slot := 0
	if !r.member.Access.IsStatic() {
		if slot < len(f.locals) {
			f.locals[slot] = typeRefValue(r.class.BinaryName())
		}
		slot++
	}
	for _, param := range r.descriptor.Parameters {
		if slot >= len(f.locals) {
			break
		}
		wide := param.Primitive == "long" || param.Primitive == "double"
		if param.Primitive != "" && param.ArrayDepth == 0 {
			f.locals[slot] = primitiveValue(wide)
		} else {
			f.locals[slot] = typeRefValue(param.SourceName())
		}
		slot++
		if wide {
			slot++
		}
	}
	return f
}

func (r *methodRun) fixpoint() *summary {
	ins := r.code.Instructions
	states := make([]*frame, len(ins))
	visits := make([]int, len(ins))
	widened := make([]bool, len(ins))

	states[0] = r.initialFrame()
	worklist := []int{0}

	for len(worklist) > 0 {
		idx := worklist[0]
		worklist = worklist[1:]

		state := states[idx]
		if state == nil {
			continue
		}
		if visits[idx] >= r.interp.iterationCap {
			if !r.limitHit {
				r.limitHit = true
				r.interp.debugf("bytecode: %s: %s#%s%s (widened to Unknown)",
					domain.ErrBytecodeLimit, r.class.BinaryName(), r.member.Name, r.member.Descriptor)
			}
			if widened[idx] {
				continue
			}
			widened[idx] = true
			for i := range state.stack {
				state.stack[i] = unknownValue()
			}
			for i := range state.locals {
				state.locals[i] = unknownValue()
			}
		}
		visits[idx]++

		out := state.clone()
		successors := r.exec(ins[idx], out)

		for _, pc := range successors {
			succIdx, ok := r.code.IndexOf(pc)
			if !ok {
				continue
			}
			if mergeInto(&states[succIdx], out) {
				worklist = append(worklist, succIdx)
			}
		}
	}

	sum := &summary{invoked: r.invOrder}
	for _, key := range r.order {
		sum.responses = append(sum.responses, r.responses[key])
	}
	return sum
}

func (r *methodRun) emit(resp *domain.HttpResponse) {
	key := responseKey(resp)
	if _, ok := r.responses[key]; ok {
		return
	}
	r.responses[key] = resp
	r.order = append(r.order, key)
}

func (r *methodRun) recordInvocation(id domain.MethodIdentifier) {
	if _, ok := r.invoked[id]; ok {
		return
	}
	r.invoked[id] = struct{}{}
	r.invOrder = append(r.invOrder, id)
}

// exec applies one instruction to the frame and returns the successor PCs.
func (r *methodRun) exec(ins classfile.Instruction, f *frame) []int {
	op := ins.Op
	pool := &r.class.Pool

	next := func() []int {
		if idx, ok := r.code.IndexOf(ins.PC); ok && idx+1 < len(r.code.Instructions) {
			return []int{r.code.Instructions[idx+1].PC}
		}
		return nil
	}

	switch {
	case op == classfile.OpNop:
	case op == classfile.OpAconstNull:
		f.push(value{kind: kindNull})
	case op >= classfile.OpIconstM1 && op <= classfile.OpIconst5:
		f.push(intValue(ins.Value))
	case op == classfile.OpLconst0 || op == classfile.OpLconst1:
		f.push(value{kind: kindIntLit, i: ins.Value, wide: true})
	case op >= 0x0b && op <= 0x0d: // fconst
		f.push(primitiveValue(false))
	case op == 0x0e || op == 0x0f: // dconst
		f.push(primitiveValue(true))
	case op == classfile.OpBipush || op == classfile.OpSipush:
		f.push(intValue(ins.Value))
	case op == classfile.OpLdc || op == classfile.OpLdcW || op == classfile.OpLdc2W:
		f.push(r.loadConstant(uint16(ins.Index)))
	case op >= classfile.OpIload && op <= 0x2d:
		f.push(f.localAt(ins.Index))
	case op >= 0x2e && op <= 0x35: // array loads
		f.pop()
		f.pop()
		f.push(unknownValue())
	case op >= classfile.OpIstore && op <= 0x4e:
		f.setLocal(ins.Index, f.pop())
	case op >= 0x4f && op <= 0x56: // array stores
		f.pop()
		f.pop()
		f.pop()
	case op == classfile.OpPop:
		f.pop()
	case op == classfile.OpPop2:
		if v := f.pop(); !v.wide {
			f.pop()
		}
	case op == classfile.OpDup:
		top := f.pop()
		f.push(top)
		f.push(top)
	case op == 0x5a: // dup_x1
		v1 := f.pop()
		v2 := f.pop()
		f.push(v1)
		f.push(v2)
		f.push(v1)
	case op == 0x5b: // dup_x2
		v1 := f.pop()
		v2 := f.pop()
		v3 := f.pop()
		f.push(v1)
		f.push(v3)
		f.push(v2)
		f.push(v1)
	case op == 0x5c: // dup2
		v1 := f.pop()
		if v1.wide {
			f.push(v1)
			f.push(v1)
		} else {
			v2 := f.pop()
			f.push(v2)
			f.push(v1)
			f.push(v2)
			f.push(v1)
		}
	case op == 0x5d || op == 0x5e: // dup2_x1, dup2_x2
		v1 := f.pop()
		v2 := f.pop()
		f.push(v1)
		f.push(v2)
		f.push(v1)
	case op == classfile.OpSwap:
		v1 := f.pop()
		v2 := f.pop()
		f.push(v1)
		f.push(v2)
	case op >= classfile.OpIadd && op <= 0x73: // binary arithmetic
		b := f.pop()
		a := f.pop()
		f.push(foldArithmetic(op, a, b))
	case op >= 0x74 && op <= 0x77: // neg
		v := f.pop()
		if v.kind == kindIntLit {
			v.i = -v.i
			f.push(v)
		} else {
			f.push(primitiveValue(v.wide))
		}
	case op >= 0x78 && op <= 0x83: // shifts and bit ops
		f.pop()
		v := f.pop()
		f.push(primitiveValue(v.wide))
	case op == classfile.OpIinc:
		f.setLocal(ins.Index, primitiveValue(false))
	case op >= 0x85 && op <= 0x93: // conversions
		f.pop()
		f.push(primitiveValue(conversionWide(op)))
	case op >= 0x94 && op <= 0x98: // cmp
		f.pop()
		f.pop()
		f.push(primitiveValue(false))
	case op >= classfile.OpIfeq && op <= 0x9e: // one-operand conditionals
		f.pop()
		return append(next(), ins.Targets...)
	case op >= 0x9f && op <= classfile.OpIfAcmpne: // two-operand conditionals
		f.pop()
		f.pop()
		return append(next(), ins.Targets...)
	case op == classfile.OpIfnull || op == classfile.OpIfnonnull:
		f.pop()
		return append(next(), ins.Targets...)
	case op == classfile.OpGoto || op == classfile.OpGotoW:
		return ins.Targets
	case op == classfile.OpJsr || op == classfile.OpJsrW:
		f.push(unknownValue())
		return ins.Targets
	case op == classfile.OpRet:
		return nil
	case op == classfile.OpTableswitch || op == classfile.OpLookupswitch:
		f.pop()
		return ins.Targets
	case classfile.IsReturn(op):
		r.projectReturn(op, f)
		return nil
	case op == classfile.OpGetstatic:
		f.push(r.loadStaticField(uint16(ins.Index)))
	case op == classfile.OpPutstatic:
		f.pop()
	case op == classfile.OpGetfield:
		f.pop()
		_, _, descriptor, _ := pool.FieldRef(uint16(ins.Index))
		f.push(valueForDescriptor(descriptor))
	case op == classfile.OpPutfield:
		f.pop()
		f.pop()
	case op >= classfile.OpInvokevirtual && op <= classfile.OpInvokeinterface:
		r.execInvoke(op, uint16(ins.Index), f)
	case op == classfile.OpInvokedynamic:
		r.execInvokeDynamic(uint16(ins.Index), f)
	case op == classfile.OpNew:
		f.push(typeRefValue(classfile.ToBinaryName(pool.ClassName(uint16(ins.Index)))))
	case op == classfile.OpNewarray:
		f.pop()
		f.push(typeRefValue("")) // primitive array
	case op == classfile.OpAnewarray:
		f.pop()
		f.push(typeRefValue(classfile.ToBinaryName(pool.ClassName(uint16(ins.Index))) + "[]"))
	case op == classfile.OpArraylength:
		f.pop()
		f.push(primitiveValue(false))
	case op == classfile.OpAthrow:
		return nil
	case op == classfile.OpCheckcast:
		v := f.pop()
		switch v.kind {
		case kindBuilder, kindResponse, kindHandle, kindSummary:
			f.push(v)
		default:
			f.push(typeRefValue(classfile.ToBinaryName(pool.ClassName(uint16(ins.Index)))))
		}
	case op == classfile.OpInstanceof:
		f.pop()
		f.push(primitiveValue(false))
	case op == 0xc2 || op == 0xc3: // monitorenter/exit
		f.pop()
	case op == classfile.OpMultianewarray:
		for i := int64(0); i < ins.Value; i++ {
			f.pop()
		}
		f.push(typeRefValue(classfile.ToBinaryName(pool.ClassName(uint16(ins.Index)))))
	}

	return next()
}

func (f *frame) localAt(index int) value {
	if index >= 0 && index < len(f.locals) {
		return f.locals[index]
	}
	return unknownValue()
}

func (f *frame) setLocal(index int, v value) {
	if index >= 0 && index < len(f.locals) {
		f.locals[index] = v
	}
}

func (r *methodRun) loadConstant(index uint16) value {
	pool := &r.class.Pool
	if s, ok := pool.String(index); ok {
		return stringValue(s)
	}
	if n, ok := pool.Integer(index); ok {
		return intValue(int64(n))
	}
	if n, ok := pool.Long(index); ok {
		return value{kind: kindIntLit, i: n, wide: true}
	}
	if name := pool.ClassName(index); name != "" {
		return typeRefValue("java.lang.Class")
	}
	return unknownValue()
}

// loadStaticField resolves getstatic: status enum constants become integer
// literals, media-type constants string literals, anything else a typed
// reference.
func (r *methodRun) loadStaticField(index uint16) value {
	className, fieldName, descriptor, ok := r.class.Pool.FieldRef(index)
	if !ok {
		return unknownValue()
	}
	binaryName := classfile.ToBinaryName(className)
	if domain.IsStatusEnumType(binaryName) {
		if code, ok := domain.StatusForConstant(fieldName); ok {
			return intValue(int64(code))
		}
		return typeRefValue(binaryName)
	}
	if strings.HasSuffix(binaryName, ".ws.rs.core.MediaType") {
		if mediaType, ok := domain.MediaTypeForConstant(fieldName); ok {
			return stringValue(mediaType)
		}
	}
	return valueForDescriptor(descriptor)
}

func valueForDescriptor(descriptor string) value {
	t, ok := classfile.ParseFieldDescriptor(descriptor)
	if !ok {
		return unknownValue()
	}
	if t.Primitive != "" && t.ArrayDepth == 0 {
		return primitiveValue(t.Primitive == "long" || t.Primitive == "double")
	}
	return typeRefValue(t.SourceName())
}

func foldArithmetic(op byte, a, b value) value {
	wide := a.wide || b.wide
	if a.kind == kindIntLit && b.kind == kindIntLit {
		switch (op - classfile.OpIadd) / 4 {
		case 0:
			return value{kind: kindIntLit, i: a.i + b.i, wide: wide}
		case 1:
			return value{kind: kindIntLit, i: a.i - b.i, wide: wide}
		case 2:
			return value{kind: kindIntLit, i: a.i * b.i, wide: wide}
		}
	}
	return primitiveValue(wide)
}

func conversionWide(op byte) bool {
	switch op {
	case 0x85, 0x87, 0x8a, 0x8c, 0x8d, 0x8f: // to long/double
		return true
	}
	return false
}

// execInvoke models method invocation: the builder operation table first,
// then project-local substitution, then a typed default.
func (r *methodRun) execInvoke(op byte, index uint16, f *frame) {
	className, methodName, descriptor, ok := r.class.Pool.MethodRef(index)
	if !ok {
		return
	}
	methodType, ok := classfile.ParseMethodDescriptor(descriptor)
	if !ok {
		return
	}

	args := f.popArgs(len(methodType.Parameters))
	var receiver value
	static := op == classfile.OpInvokestatic
	if !static {
		receiver = f.pop()
	}

	binaryName := classfile.ToBinaryName(className)

	// Cookie constructors record the literal cookie name on the reference
	// so a later builder.cookie(...) call can pick it up.
	if op == classfile.OpInvokespecial && methodName == "<init>" {
		if isCookieClass(binaryName) && receiver.ref != nil {
			for _, arg := range args {
				if arg.kind == kindStringLit {
					receiver.ref.name = arg.s
					break
				}
			}
		}
		return
	}

	if static && domain.IsResponseType(binaryName) {
		if result, handled := staticFactoryResult(methodName, args); handled {
			f.push(result)
			return
		}
	}

	if receiver.kind == kindBuilder || receiver.kind == kindResponse ||
		domain.IsResponseBuilderType(binaryName) {
		returnName := classfile.ToBinaryName(methodType.Return.ClassName)
		if domain.IsResponseBuilderType(returnName) || domain.IsResponseType(returnName) {
			f.push(builderCallResult(methodName, receiver, args))
			return
		}
		// accessors like getStatus leave the builder alone
		r.pushReturn(methodType.Return, f)
		return
	}

	// A call through a captured method reference substitutes the referenced
	// method's return behavior. The functional interface erases the return
	// type, so the target's own descriptor decides the substitution.
	if receiver.kind == kindHandle && receiver.target != nil {
		ret := methodType.Return
		if targetType, ok := classfile.ParseMethodDescriptor(receiver.target.Descriptor); ok {
			ret = targetType.Return
		}
		r.substituteCall(domain.MethodIdentifier{
			ClassName:  receiver.target.ClassName,
			MethodName: receiver.target.MethodName,
			Descriptor: receiver.target.Descriptor,
		}, ret, f)
		return
	}

	if !isFrameworkClass(binaryName) && r.interp.resolver.Contains(binaryName) {
		r.substituteCall(domain.MethodIdentifier{
			ClassName:  binaryName,
			MethodName: methodName,
			Descriptor: descriptor,
			Static:     static,
		}, methodType.Return, f)
		return
	}

	r.pushReturn(methodType.Return, f)
}

// substituteCall records the project call target and, when the callee
// returns a framework response or builder, substitutes its inferred
// response behavior at the call site.
func (r *methodRun) substituteCall(id domain.MethodIdentifier, ret classfile.FieldType, f *frame) {
	r.recordInvocation(id)

	returnName := classfile.ToBinaryName(ret.ClassName)
	switch {
	case domain.IsResponseBuilderType(returnName):
		sum := r.calleeSummary(id)
		f.push(value{kind: kindBuilder, state: stateFromResponses(sum.responses)})
	case domain.IsResponseType(returnName):
		sum := r.calleeSummary(id)
		f.push(value{kind: kindSummary, responses: sum.responses})
	default:
		r.pushReturn(ret, f)
	}
}

func (r *methodRun) calleeSummary(id domain.MethodIdentifier) *summary {
	sum := r.interp.methodSummary(methodKey{class: id.ClassName, name: id.MethodName, descriptor: id.Descriptor}, r.depth+1)
	for _, invoked := range sum.invoked {
		r.recordInvocation(invoked)
	}
	return sum
}

// stateFromResponses folds a callee's responses back into builder state so
// the caller can keep chaining on the returned builder.
func stateFromResponses(responses []*domain.HttpResponse) *builderState {
	state := newBuilderState()
	for _, resp := range responses {
		for s := range resp.Statuses {
			state.statuses[s] = struct{}{}
		}
		for h := range resp.Headers {
			state.headers[h] = struct{}{}
		}
		for c := range resp.Cookies {
			state.cookies[c] = struct{}{}
		}
		if state.entity == "" {
			state.entity = resp.EntityType
		}
	}
	return state
}

func (r *methodRun) pushReturn(ret classfile.FieldType, f *frame) {
	if ret.IsVoid() {
		return
	}
	if ret.Primitive != "" && ret.ArrayDepth == 0 {
		f.push(primitiveValue(ret.Primitive == "long" || ret.Primitive == "double"))
		return
	}
	f.push(typeRefValue(ret.SourceName()))
}

// execInvokeDynamic captures a method reference: the bootstrap method's
// handle argument becomes the call target of the pushed functional value.
func (r *methodRun) execInvokeDynamic(index uint16, f *frame) {
	bootstrapIndex, _, siteDescriptor, ok := r.class.Pool.InvokeDynamic(index)
	if !ok {
		return
	}
	if siteType, ok := classfile.ParseMethodDescriptor(siteDescriptor); ok {
		f.popArgs(len(siteType.Parameters))
	}

	methods := r.class.BootstrapMethods()
	if int(bootstrapIndex) >= len(methods) {
		f.push(unknownValue())
		return
	}
	for _, arg := range methods[bootstrapIndex].Arguments {
		_, handleClass, handleName, handleDescriptor, ok := r.class.Pool.MethodHandle(arg)
		if !ok {
			continue
		}
		target := &domain.MethodIdentifier{
			ClassName:  classfile.ToBinaryName(handleClass),
			MethodName: handleName,
			Descriptor: handleDescriptor,
		}
		if !isFrameworkClass(target.ClassName) && r.interp.resolver.Contains(target.ClassName) {
			r.recordInvocation(*target)
		}
		f.push(value{kind: kindHandle, target: target})
		return
	}
	f.push(unknownValue())
}

// projectReturn converts the returned abstract value into HttpResponses.
func (r *methodRun) projectReturn(op byte, f *frame) {
	if op == classfile.OpReturn {
		if r.descriptor.Return.IsVoid() {
			resp := domain.NewHttpResponse()
			resp.Statuses[204] = struct{}{}
			r.emit(resp)
		}
		return
	}

	v := f.pop()
	switch v.kind {
	case kindBuilder, kindResponse:
		r.emit(v.state.response())
	case kindSummary:
		for _, resp := range v.responses {
			r.emit(resp)
		}
	case kindStringLit:
		resp := domain.NewHttpResponse()
		resp.Statuses[200] = struct{}{}
		resp.EntityType = "java.lang.String"
		r.emit(resp)
	case kindTypeRef:
		resp := domain.NewHttpResponse()
		resp.Statuses[200] = struct{}{}
		if name := v.typeName(); !domain.IsResponseType(name) {
			resp.EntityType = name
		}
		r.emit(resp)
	default:
		for _, resp := range declaredReturnResponses(r.descriptor.Return) {
			r.emit(resp)
		}
	}
}
