// Package rx is the built-in pattern engine: a compact, regex-based
// implementation of the engine contracts. Plugin source is a line-oriented
// rule file:
//
//	# flag calls to foo
//	name no-foo
//	match foo\((\w*)\)
//	log "saw a call"
//	call register_diagnostic($1, "don't call foo")
//
// Every `match` starts a rule; `log` and `call` lines attach actions to the
// most recent rule and run once per regex match. An optional `lang` line pins
// the rule file to one target language. Call arguments are capture references
// ($0..$9), quoted string literals, or `+`-joined templates of both.
package rx

import (
	"fmt"
	"regexp"
	"strings"

	"sift/internal/engine"
	"sift/internal/source"
)

// Engine compiles rule files and parses target files for matching.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Parse returns the representation queries execute against. For rx this is
// the file itself; matching runs over raw content.
func (*Engine) Parse(f *source.File) (any, error) {
	return f, nil
}

// Compile parses rule-file source into an executable query.
func (*Engine) Compile(src, path string, lang engine.TargetLanguage, builtins []engine.BuiltinFunction) (engine.CompiledQuery, error) {
	table := make(map[string]engine.BuiltinFunction, len(builtins))
	for _, b := range builtins {
		table[b.Name] = b
	}

	q := &query{lang: lang, builtins: table}

	for lineNo, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		directive, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch directive {
		case "name":
			if q.name != "" {
				return nil, compileErr(path, lineNo, "duplicate name directive")
			}
			if rest == "" {
				return nil, compileErr(path, lineNo, "name directive needs a value")
			}
			q.name = rest

		case "lang":
			if rest == "" {
				return nil, compileErr(path, lineNo, "lang directive needs a value")
			}
			if engine.TargetLanguage(rest) != lang {
				return nil, compileErr(path, lineNo, fmt.Sprintf("rule targets language %q, compiled for %q", rest, lang))
			}

		case "match":
			re, err := regexp.Compile(rest)
			if err != nil {
				return nil, compileErr(path, lineNo, fmt.Sprintf("bad match pattern: %v", err))
			}
			q.rules = append(q.rules, rule{re: re})

		case "log":
			expr, err := parseArgExpr(rest)
			if err != nil {
				return nil, compileErr(path, lineNo, err.Error())
			}
			if err := q.addAction(action{kind: actionLog, logExpr: expr}); err != nil {
				return nil, compileErr(path, lineNo, err.Error())
			}

		case "call":
			call, err := parseCall(rest, table)
			if err != nil {
				return nil, compileErr(path, lineNo, err.Error())
			}
			if err := q.addAction(*call); err != nil {
				return nil, compileErr(path, lineNo, err.Error())
			}

		default:
			return nil, compileErr(path, lineNo, fmt.Sprintf("unknown directive %q", directive))
		}
	}

	return q, nil
}

func compileErr(path string, lineNo int, detail string) *engine.CompileError {
	return &engine.CompileError{
		Path:   path,
		Detail: fmt.Sprintf("line %d: %s", lineNo+1, detail),
	}
}

type actionKind uint8

const (
	actionLog actionKind = iota
	actionCall
)

type action struct {
	kind    actionKind
	logExpr argPattern
	builtin engine.BuiltinFunction
	args    []argPattern
}

type rule struct {
	re      *regexp.Regexp
	actions []action
}

// query is an immutable compiled rule file.
type query struct {
	name     string
	lang     engine.TargetLanguage
	rules    []rule
	builtins map[string]engine.BuiltinFunction
}

func (q *query) addAction(a action) error {
	if len(q.rules) == 0 {
		return fmt.Errorf("action before any match directive")
	}
	r := &q.rules[len(q.rules)-1]
	r.actions = append(r.actions, a)
	return nil
}

func (q *query) Name() string {
	return q.name
}

// Execute runs every rule's regex over the file content and fires the rule's
// actions once per match, in match order. All per-run state lives in the
// exec value, so one query may execute concurrently on distinct files.
func (q *query) Execute(file engine.TargetFile) (*engine.ExecutionResult, error) {
	f, ok := file.Parse.(*source.File)
	if !ok {
		return nil, engine.PatternErrorf("unsupported parse representation %T", file.Parse)
	}

	exec := &execContext{logs: &engine.LogBuffer{}}

	for _, r := range q.rules {
		for _, m := range r.re.FindAllSubmatchIndex(f.Content, -1) {
			state := &matchState{file: f, groups: m}
			for _, a := range r.actions {
				if err := runAction(a, exec, state); err != nil {
					return nil, err
				}
			}
		}
	}

	return &engine.ExecutionResult{
		Logs:        exec.logs.Entries(),
		Diagnostics: exec.diagnostics,
	}, nil
}

func runAction(a action, exec *execContext, state *matchState) error {
	switch a.kind {
	case actionLog:
		text, err := resolveText(a.logExpr, state)
		if err != nil {
			return engine.PatternErrorf("log: %v", err)
		}
		exec.logs.Add(engine.Log{Range: state.matchSpan(), Message: text})
		return nil

	case actionCall:
		args := make([]engine.Pattern, len(a.builtin.Params))
		for i, p := range a.args {
			args[i] = p
		}
		_, err := a.builtin.Handler(args, exec, state, exec.logs)
		return err
	}
	return engine.PatternErrorf("unknown action kind %d", a.kind)
}
