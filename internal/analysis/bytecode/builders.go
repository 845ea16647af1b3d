package bytecode

import (
	"strings"

	"github.com/griffnb/jaxdoc/internal/domain"
)

// Semantic table for the framework's response builder API. Each handler
// consumes the popped receiver and arguments and returns the value pushed
// in place of the call result.

// staticFactoryResult models the static Response factories.
func staticFactoryResult(name string, args []value) (value, bool) {
	state := newBuilderState()
	switch name {
	case "ok":
		state.statuses[200] = struct{}{}
		if len(args) > 0 {
			state.entity = entityTypeOf(args[0])
		}
	case "created":
		state.statuses[201] = struct{}{}
	case "accepted":
		state.statuses[202] = struct{}{}
		if len(args) > 0 {
			state.entity = entityTypeOf(args[0])
		}
	case "noContent":
		state.statuses[204] = struct{}{}
	case "notModified":
		state.statuses[304] = struct{}{}
	case "seeOther":
		state.statuses[303] = struct{}{}
	case "temporaryRedirect":
		state.statuses[307] = struct{}{}
	case "notAcceptable":
		state.statuses[406] = struct{}{}
	case "serverError":
		state.statuses[500] = struct{}{}
	case "status":
		applyStatusArg(state, args)
	case "fromResponse":
		if len(args) > 0 && args[0].state != nil {
			state = args[0].state.clone()
		}
	default:
		return value{}, false
	}
	return value{kind: kindBuilder, state: state}, true
}

// builderCallResult models instance calls on a response builder. The
// receiver state is mutated; most operations return the builder itself.
func builderCallResult(name string, receiver value, args []value) value {
	state := receiver.state
	if state == nil {
		// call on a builder of unknown origin
		state = newBuilderState()
		receiver.kind = kindBuilder
		receiver.state = state
	}

	switch name {
	case "status":
		applyStatusArg(state, args)
	case "header":
		if len(args) >= 2 && args[0].kind == kindStringLit {
			state.headers[args[0].s] = struct{}{}
		}
	case "cookie":
		for _, arg := range args {
			if arg.ref != nil && arg.ref.name != "" {
				state.cookies[arg.ref.name] = struct{}{}
			}
		}
	case "entity":
		if len(args) > 0 {
			state.entity = entityTypeOf(args[0])
		}
	case "build":
		return value{kind: kindResponse, state: state.clone()}
	case "clone":
		return value{kind: kindBuilder, state: state.clone()}
	}
	// type, language, location, tag, variant, ... keep the builder flowing
	return receiver
}

// applyStatusArg records a status argument: literal codes and named enum
// constants resolve exactly; anything else becomes the unknown sentinel.
func applyStatusArg(state *builderState, args []value) {
	if len(args) == 0 {
		return
	}
	switch args[0].kind {
	case kindIntLit:
		code := int(args[0].i)
		if code >= 100 && code <= 599 {
			state.statuses[code] = struct{}{}
		} else {
			state.statuses[domain.UnknownStatus] = struct{}{}
		}
	default:
		state.statuses[domain.UnknownStatus] = struct{}{}
	}
}

// entityTypeOf projects an abstract value to an entity type descriptor.
func entityTypeOf(v value) string {
	switch v.kind {
	case kindStringLit:
		return "java.lang.String"
	case kindIntLit:
		return "int"
	case kindPrimitive:
		if v.wide {
			return "long"
		}
		return "int"
	case kindTypeRef:
		return v.typeName()
	}
	return ""
}

// isFrameworkClass reports classes of the REST framework or the platform
// library; their internals are never enqueued for project analysis.
func isFrameworkClass(binaryName string) bool {
	return domain.IsPlatformClass(binaryName)
}

// isCookieClass reports the framework cookie types whose constructors carry
// the cookie name as first argument.
func isCookieClass(binaryName string) bool {
	return strings.HasSuffix(binaryName, ".ws.rs.core.NewCookie") ||
		strings.HasSuffix(binaryName, ".ws.rs.core.Cookie")
}
