package bytecode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// valueKind tags an abstract value.
type valueKind int

const (
	kindUnknown valueKind = iota
	kindNull
	kindPrimitive
	kindIntLit
	kindStringLit
	kindTypeRef
	kindBuilder
	kindResponse
	kindHandle
	kindSummary
)

// refData carries the identity of a reference-typed value. It is shared
// between stack copies so constructor effects reach every alias.
type refData struct {
	typ string
	// name is the literal name captured for cookie values.
	name string
}

// value is one abstract operand-stack or local-variable slot.
type value struct {
	kind valueKind
	wide bool

	i int64
	s string

	ref    *refData
	state  *builderState
	target *domain.MethodIdentifier

	// responses holds a substituted callee summary.
	responses []*domain.HttpResponse
}

func unknownValue() value            { return value{kind: kindUnknown} }
func primitiveValue(wide bool) value { return value{kind: kindPrimitive, wide: wide} }
func intValue(n int64) value         { return value{kind: kindIntLit, i: n} }
func stringValue(s string) value     { return value{kind: kindStringLit, s: s} }

func typeRefValue(binaryType string) value {
	return value{kind: kindTypeRef, ref: &refData{typ: binaryType}}
}

func (v value) typeName() string {
	if v.ref != nil {
		return v.ref.typ
	}
	return ""
}

// builderState is the tracked state of a response under construction.
type builderState struct {
	statuses map[int]struct{}
	headers  map[string]struct{}
	cookies  map[string]struct{}
	entity   string
}

func newBuilderState() *builderState {
	return &builderState{
		statuses: make(map[int]struct{}),
		headers:  make(map[string]struct{}),
		cookies:  make(map[string]struct{}),
	}
}

func (b *builderState) clone() *builderState {
	c := newBuilderState()
	for s := range b.statuses {
		c.statuses[s] = struct{}{}
	}
	for h := range b.headers {
		c.headers[h] = struct{}{}
	}
	for k := range b.cookies {
		c.cookies[k] = struct{}{}
	}
	c.entity = b.entity
	return c
}

// union merges other into b, field by field.
func (b *builderState) union(other *builderState) {
	for s := range other.statuses {
		b.statuses[s] = struct{}{}
	}
	for h := range other.headers {
		b.headers[h] = struct{}{}
	}
	for k := range other.cookies {
		b.cookies[k] = struct{}{}
	}
	if b.entity == "" {
		b.entity = other.entity
	}
}

func (b *builderState) equal(other *builderState) bool {
	return b.entity == other.entity &&
		intSetEqual(b.statuses, other.statuses) &&
		strSetEqual(b.headers, other.headers) &&
		strSetEqual(b.cookies, other.cookies)
}

// response converts the builder state to an emitted HttpResponse. An empty
// status set defaults to 200.
func (b *builderState) response() *domain.HttpResponse {
	r := domain.NewHttpResponse()
	if len(b.statuses) == 0 {
		r.Statuses[200] = struct{}{}
	}
	for s := range b.statuses {
		r.Statuses[s] = struct{}{}
	}
	for h := range b.headers {
		r.Headers[h] = struct{}{}
	}
	for c := range b.cookies {
		r.Cookies[c] = struct{}{}
	}
	r.EntityType = b.entity
	return r
}

// join computes the lattice join of two abstract values at a control-flow
// merge point.
func join(a, b value) value {
	if a.kind == b.kind {
		switch a.kind {
		case kindIntLit:
			if a.i == b.i {
				return a
			}
			return primitiveValue(a.wide)
		case kindStringLit:
			if a.s == b.s {
				return a
			}
			return typeRefValue("java.lang.String")
		case kindTypeRef:
			if a.typeName() == b.typeName() {
				return a
			}
			return unknownValue()
		case kindBuilder, kindResponse:
			if a.state == b.state {
				return a
			}
			merged := a.state.clone()
			merged.union(b.state)
			return value{kind: a.kind, state: merged, ref: a.ref}
		case kindSummary:
			return value{kind: kindSummary, responses: mergeResponses(a.responses, b.responses)}
		case kindHandle:
			if a.target != nil && b.target != nil && *a.target == *b.target {
				return a
			}
			return unknownValue()
		default:
			return a
		}
	}
	if a.kind == kindNull {
		return b
	}
	if b.kind == kindNull {
		return a
	}
	return unknownValue()
}

func valueEqual(a, b value) bool {
	if a.kind != b.kind || a.wide != b.wide || a.i != b.i || a.s != b.s {
		return false
	}
	if (a.state == nil) != (b.state == nil) {
		return false
	}
	if a.state != nil && !a.state.equal(b.state) {
		return false
	}
	if a.typeName() != b.typeName() {
		return false
	}
	if (a.target == nil) != (b.target == nil) {
		return false
	}
	if a.target != nil && *a.target != *b.target {
		return false
	}
	if len(a.responses) != len(b.responses) {
		return false
	}
	for i := range a.responses {
		if responseKey(a.responses[i]) != responseKey(b.responses[i]) {
			return false
		}
	}
	return true
}

// mergeResponses unions two response lists, deduplicating structurally.
func mergeResponses(a, b []*domain.HttpResponse) []*domain.HttpResponse {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []*domain.HttpResponse
	for _, r := range append(append([]*domain.HttpResponse{}, a...), b...) {
		key := responseKey(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func responseKey(r *domain.HttpResponse) string {
	statuses := make([]int, 0, len(r.Statuses))
	for s := range r.Statuses {
		statuses = append(statuses, s)
	}
	sort.Ints(statuses)
	return fmt.Sprintf("%v|%s|%s|%s", statuses,
		strings.Join(r.SortedHeaders(), ","),
		strings.Join(r.SortedCookies(), ","),
		r.EntityType)
}

func intSetEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func strSetEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
