// Package engine evaluates modeling scripts. It wraps zygomys in a
// sandboxed environment and produces a validated CSG DesignGraph from
// user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/bspcsg/pkg/graph"
)

// DefaultPartName names the part created from a script's final value when
// the script defines no parts of its own.
const DefaultPartName = "main"

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code or a graph that fails
// validation.
type EvalError struct {
	Line    int
	Col     int
	Message string
	NodeID  graph.NodeID
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	NodeID  graph.NodeID
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Graph    *graph.DesignGraph
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	// Timeout bounds a single evaluation. Zero means EvalTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate takes Lisp source code and produces a new DesignGraph.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval/validation failure: returns nil graph + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	res, err := e.EvaluateResult(source)
	if err != nil {
		return nil, nil, err
	}
	return res.Graph, res.Errors, nil
}

// EvaluateResult is Evaluate with validation warnings included.
func (e *Engine) EvaluateResult(source string) (*EvalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		ch <- evalResult{result: e.evaluate(source)}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = EvalTimeout
	}
	return waitWithTimeout(ch, gen, timeout, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) *EvalResult {
	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return &EvalResult{Graph: graph.New()}
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := newBuilder()
	registerBuiltins(env, b)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return &EvalResult{Errors: parseZygomysError(err)}
	}
	last, err := env.Run()
	if err != nil {
		return &EvalResult{Errors: parseZygomysError(err)}
	}

	// A script that only builds an expression gets it as its single part.
	if ref, ok := last.(*sexpNodeRef); ok && len(b.parts) == 0 {
		if _, err := b.definePart(DefaultPartName, ref.id); err != nil {
			return &EvalResult{Errors: []EvalError{{Message: err.Error()}}}
		}
	}

	e.mu.Lock()
	b.g.Version = e.generation
	e.mu.Unlock()

	return validated(b.g)
}

// validated runs graph validation and sorts the findings into errors and
// warnings. A graph with errors is not returned.
func validated(g *graph.DesignGraph) *EvalResult {
	res := &EvalResult{Graph: g}
	for _, f := range graph.Validate(g) {
		if f.Severity == graph.SeverityWarning {
			res.Warnings = append(res.Warnings, EvalWarning{Message: f.Message, NodeID: f.NodeID})
			continue
		}
		res.Errors = append(res.Errors, EvalError{Message: f.Error(), NodeID: f.NodeID})
	}
	if len(res.Errors) > 0 {
		res.Graph = nil
	}
	return res
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
