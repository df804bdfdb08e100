package plugin

import (
	"strings"

	"sift/internal/diag"
	"sift/internal/engine"
	"sift/internal/source"
)

const arityMessage = "register_diagnostic() takes 2 or 5 arguments: span and message, and optional fixer_description, category and applicability"

// noMessage is emitted when no resolution tier yields text.
const noMessage = "(no message)"

// registerDiagnostic is the handler behind the register_diagnostic builtin.
// It validates argument arity, resolves span and message, appends one
// diagnostic to the current evaluation, and hands the original span pattern
// back so pattern composition downstream is unaffected.
func registerDiagnostic(args []engine.Pattern, ctx engine.ExecContext, state engine.QueryState, logs *engine.LogBuffer) (engine.Pattern, error) {
	if !validRegisterShape(args) {
		return nil, engine.NewPatternError(arityMessage)
	}

	values, err := ctx.ResolveArgs(args, state, logs)
	if err != nil {
		return nil, err
	}

	// fixer_description, category and applicability pass arity validation
	// but are not folded into the emitted diagnostic yet.
	span := resolveSpan(values[0])
	message := resolveMessage(values[1])

	ctx.AddDiagnostic(diag.New(diag.SevWarning, diag.CategoryPlugin, span, message))

	return args[0], nil
}

// validRegisterShape accepts exactly two present shapes: {span, message} or
// all five arguments.
func validRegisterShape(args []engine.Pattern) bool {
	if len(args) != 5 {
		return false
	}
	if args[0] == nil || args[1] == nil {
		return false
	}
	tail := 0
	for _, a := range args[2:] {
		if a != nil {
			tail++
		}
	}
	return tail == 0 || tail == 3
}

// resolveSpan takes the span value's last binding; a node binding yields the
// node's trimmed range, anything else yields no position. An unbound span is
// not an error.
func resolveSpan(v engine.Value) source.Span {
	if v == nil {
		return source.Span{}
	}
	binding := v.LastBinding()
	if binding == nil {
		return source.Span{}
	}
	node, ok := binding.Node()
	if !ok {
		return source.Span{}
	}
	return node.TrimmedRange()
}

// messageResolver is one tier of the message fallback chain. It either
// produces text or reports that the tier does not apply.
type messageResolver func(engine.Value) (string, bool)

// messageResolvers run in order; the first success wins.
var messageResolvers = []messageResolver{
	resolveConstantMessage,
	resolveSnippetsMessage,
	resolveBindingMessage,
}

func resolveMessage(v engine.Value) string {
	if v == nil {
		return noMessage
	}
	for _, resolve := range messageResolvers {
		if text, ok := resolve(v); ok {
			return text
		}
	}
	return noMessage
}

func resolveConstantMessage(v engine.Value) (string, bool) {
	return v.Constant()
}

// resolveSnippetsMessage concatenates snippet text in order, starting from the
// empty string. Any unresolvable snippet fails the whole tier.
func resolveSnippetsMessage(v engine.Value) (string, bool) {
	snippets, ok := v.Snippets()
	if !ok {
		return "", false
	}
	var sb strings.Builder
	for _, sn := range snippets {
		text, err := sn.Text()
		if err != nil {
			return "", false
		}
		sb.WriteString(text)
	}
	return sb.String(), true
}

func resolveBindingMessage(v engine.Value) (string, bool) {
	binding := v.LastBinding()
	if binding == nil {
		return "", false
	}
	text, err := binding.Text()
	if err != nil {
		return "", false
	}
	return text, true
}
