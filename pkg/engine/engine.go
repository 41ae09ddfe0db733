// Package engine provides the Lisp scene-construction engine for Verdure.
// It wraps zygomys in a sandboxed environment and produces a scene graph
// from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// EvalTimeout is the hard limit for a single evaluation. Scene scripts
// are small; anything running longer is assumed to be a runaway loop.
const EvalTimeout = 5 * time.Second

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for scene evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism. Overlapping calls race on the
// evaluation ticket: only the newest call's result is honored.
type Engine struct {
	ticket atomic.Uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// evalOutcome carries one evaluation's result out of its goroutine.
type evalOutcome struct {
	scene  *scenegraph.Scene
	errors []EvalError
	err    error
}

// Evaluate takes Lisp source code and produces a new scene.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded call): nil + nil + error
func (e *Engine) Evaluate(source string) (*scenegraph.Scene, []EvalError, error) {
	// Take a ticket; a newer Evaluate call invalidates this one.
	ticket := e.ticket.Add(1)

	ch := make(chan evalOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		scene, evalErrs, err := e.evaluate(source)
		ch <- evalOutcome{scene: scene, errors: evalErrs, err: err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), EvalTimeout)
	defer cancel()

	select {
	case out := <-ch:
		// The goroutine may have outlived a newer call's start; its
		// result is then stale and must not be surfaced.
		if e.ticket.Load() != ticket {
			return nil, nil, fmt.Errorf("scene evaluation superseded by a newer request")
		}
		return out.scene, out.errors, out.err
	case <-ctx.Done():
		// The interpreter goroutine keeps running until it finishes;
		// its eventual result lands in the buffered channel unread.
		return nil, nil, fmt.Errorf("scene evaluation exceeded %s", EvalTimeout)
	}
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*scenegraph.Scene, []EvalError, error) {
	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return &scenegraph.Scene{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	scene := &scenegraph.Scene{}
	registerBuiltins(env, scene)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return scene, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers where the message carries them.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
