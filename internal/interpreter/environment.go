package interpreter

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/leonardinius/treelox/internal/loxerrors"
	"github.com/leonardinius/treelox/internal/token"
)

// environment is one scope frame. Frames form a chain through enclosing,
// the global frame being the one without a parent.
type environment struct {
	enclosing *environment
	values    map[string]Value
}

func NewEnvironment() *environment {
	return &environment{}
}

// Define binds name in this frame, replacing any previous binding here.
// Bindings of enclosing frames are shadowed, never touched.
func (e *environment) Define(name string, value Value) {
	if e.values == nil {
		e.values = make(map[string]Value)
	}
	e.values[name] = value
}

// Get looks name up from this frame outwards.
func (e *environment) Get(name *token.Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if value, ok := env.values[name.Lexeme]; ok {
			return value, nil
		}
	}

	return nil, e.undefinedVariable(name)
}

// Assign overwrites the nearest existing binding of name in the frame that
// owns it and returns the value it replaced. Assigning an undeclared name fails.
func (e *environment) Assign(name *token.Token, value Value) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if previous, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return previous, nil
		}
	}

	return nil, e.undefinedVariable(name)
}

// Nest returns a new frame enclosed by e.
func (e *environment) Nest() *environment {
	env := NewEnvironment()
	env.enclosing = e
	return env
}

func (e *environment) Enclosing() *environment {
	return e.enclosing
}

// Depth is the number of frames in the chain, e included.
func (e *environment) Depth() int {
	depth := 0
	for env := e; env != nil; env = env.enclosing {
		depth++
	}
	return depth
}

func (e *environment) undefinedVariable(name *token.Token) error {
	return loxerrors.NewRuntimeError(name, loxerrors.ErrRuntimeUndefinedVariableName(name.Lexeme))
}

// String renders the chain innermost first, names sorted within each frame.
func (e *environment) String() string {
	w := new(strings.Builder)

	for self := e; self != nil; self = self.enclosing {
		names := maps.Keys(self.values)
		slices.Sort(names)

		_, _ = w.WriteString("{")
		for i, name := range names {
			if i > 0 {
				_, _ = w.WriteString(",")
			}
			_, _ = fmt.Fprintf(w, "%s=%s", name, Repr(self.values[name]))
		}
		_, _ = w.WriteString("}")
		if self.enclosing != nil {
			_, _ = w.WriteString(" -> ")
		}
	}

	return w.String()
}

var _ fmt.Stringer = (*environment)(nil)
