package interpreter

import (
	"errors"
	"fmt"

	"github.com/kartiknair/lswift/pkg/token"
)

// ErrCallDepth is returned when calls nest deeper than MaxCallDepth.
var ErrCallDepth = errors.New("runtime-error: maximum call depth exceeded")

// InvariantError is a state an analyzed program can never reach. Seeing
// one means the analyzer let something through it should have rejected.
type InvariantError struct {
	Message string
	Token   token.Token
}

func (e *InvariantError) ErrorToken() token.Token { return e.Token }

func (e *InvariantError) Error() string {
	return fmt.Sprintf("runtime-error: %d:%d: %s", e.Token.Pos.Line, e.Token.Pos.Column, e.Message)
}

func invariant(t token.Token, format string, args ...interface{}) error {
	return &InvariantError{Message: fmt.Sprintf(format, args...), Token: t}
}
