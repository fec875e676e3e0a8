package declaration

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Evaluator turns the text of one declaration source into a Set. A source
// without usable declarations evaluates to (nil, nil). Malformed input is
// reported as an *EvaluationError.
type Evaluator interface {
	Evaluate(ctx context.Context, source string, src []byte) (*Set, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, source string, src []byte) (*Set, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, source string, src []byte) (*Set, error) {
	return f(ctx, source, src)
}

// EvaluationError reports that a source's text was rejected.
type EvaluationError struct {
	Source string
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate declarations in %s: %v", e.Source, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Errorf builds an *EvaluationError for source.
func Errorf(source, format string, args ...any) *EvaluationError {
	return &EvaluationError{Source: source, Err: fmt.Errorf(format, args...)}
}

// ByExtension dispatches to an Evaluator chosen by the source's file
// extension, compared case-insensitively and including the leading dot.
type ByExtension map[string]Evaluator

// Evaluate implements Evaluator.
func (m ByExtension) Evaluate(ctx context.Context, source string, src []byte) (*Set, error) {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(source, "\\", "/")))
	ev, ok := m[ext]
	if !ok {
		return nil, Errorf(source, "no evaluator for extension %q", ext)
	}
	return ev.Evaluate(ctx, source, src)
}
