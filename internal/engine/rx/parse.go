package rx

import (
	"fmt"
	"strconv"
	"strings"

	"sift/internal/engine"
)

// parseCall parses `builtin($0, "text", ...)` against the compiled builtin
// table. Fewer arguments than formal parameters is legal (the engine pads
// absent slots); more is not.
func parseCall(s string, table map[string]engine.BuiltinFunction) (*action, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("call needs the form builtin(args)")
	}

	name := strings.TrimSpace(s[:open])
	builtin, ok := table[name]
	if !ok {
		return nil, fmt.Errorf("unknown builtin %q", name)
	}

	argsSrc := strings.TrimSpace(s[open+1 : len(s)-1])
	args, err := parseArgList(argsSrc)
	if err != nil {
		return nil, err
	}
	if len(args) > len(builtin.Params) {
		return nil, fmt.Errorf("%s() takes at most %d arguments, got %d", name, len(builtin.Params), len(args))
	}

	return &action{kind: actionCall, builtin: builtin, args: args}, nil
}

// parseArgList splits a comma-separated argument list, respecting quotes.
func parseArgList(s string) ([]argPattern, error) {
	if s == "" {
		return nil, nil
	}

	parts, err := splitOutsideQuotes(s, ',')
	if err != nil {
		return nil, err
	}

	args := make([]argPattern, 0, len(parts))
	for _, part := range parts {
		arg, err := parseArgExpr(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

// parseArgExpr parses one argument expression: a capture reference, a string
// literal, or a `+`-joined template of both.
func parseArgExpr(s string) (argPattern, error) {
	if s == "" {
		return nil, fmt.Errorf("empty argument expression")
	}

	parts, err := splitOutsideQuotes(s, '+')
	if err != nil {
		return nil, err
	}

	terms := make([]argPattern, 0, len(parts))
	for _, part := range parts {
		term, err := parseTerm(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	if len(terms) == 1 {
		return terms[0], nil
	}
	return concatArg(terms), nil
}

func parseTerm(s string) (argPattern, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("empty term in argument expression")

	case s[0] == '$':
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad capture reference %q", s)
		}
		return captureArg(n), nil

	case s[0] == '"':
		text, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("bad string literal %s: %v", s, err)
		}
		return literalArg(text), nil

	default:
		return nil, fmt.Errorf("bad term %q: want $n or a quoted string", s)
	}
}

// splitOutsideQuotes splits s on sep, ignoring separators inside double
// quotes. Backslash escapes inside quotes are honored.
func splitOutsideQuotes(s string, sep byte) ([]string, error) {
	var parts []string
	var depth bool // inside quotes
	last := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if depth {
				i++ // skip escaped char
			}
		case '"':
			depth = !depth
		case sep:
			if !depth {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	if depth {
		return nil, fmt.Errorf("unterminated string literal")
	}
	parts = append(parts, s[last:])
	return parts, nil
}
