// Package celrule compiles and evaluates the boolean CEL expressions attached
// to salary template fields. A rule sees the candidate value as `value`: a
// string for text and select inputs, a double for number inputs.
package celrule

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

type ValueType string

const (
	ValueString ValueType = "string"
	ValueNumber ValueType = "number"
)

var (
	ErrEmptyRule     = errors.New("rule expression required")
	ErrNotBoolean    = errors.New("rule must evaluate to a boolean")
	ErrUnknownType   = errors.New("unknown rule value type")
	ErrRuleViolation = errors.New("value does not satisfy rule")
)

// programs caches compiled programs keyed by value type and expression.
var programs sync.Map

func newEnv(vt ValueType) (*cel.Env, error) {
	switch vt {
	case ValueString:
		return cel.NewEnv(cel.Variable("value", cel.StringType))
	case ValueNumber:
		return cel.NewEnv(cel.Variable("value", cel.DoubleType))
	default:
		return nil, ErrUnknownType
	}
}

// Compile checks expr and caches its program.
func Compile(vt ValueType, expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmptyRule
	}
	key := string(vt) + "\x00" + expr
	if cached, ok := programs.Load(key); ok {
		return cached.(cel.Program), nil
	}

	env, err := newEnv(vt)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if ast.OutputType() != cel.BoolType {
		return nil, ErrNotBoolean
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	programs.Store(key, program)
	return program, nil
}

// Check evaluates expr against value and returns ErrRuleViolation when it
// yields false. value must be a string or float64 matching vt.
func Check(vt ValueType, expr string, value any) error {
	program, err := Compile(vt, expr)
	if err != nil {
		return err
	}
	out, _, err := program.Eval(map[string]any{"value": value})
	if err != nil {
		return fmt.Errorf("evaluate rule: %w", err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return ErrNotBoolean
	}
	if !ok {
		return ErrRuleViolation
	}
	return nil
}
