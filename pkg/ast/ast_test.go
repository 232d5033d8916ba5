package ast

import (
	"testing"

	"github.com/kartiknair/lswift/pkg/token"
)

func TestResolveType(t *testing.T) {
	name := token.Token{Lexeme: "x", Type: token.IDENTIFIER}

	v := NewVariableDeclaration(Immutable, name, Placeholder)
	if v.IsResolved() {
		t.Fatal("a placeholder declaration should not be resolved")
	}

	if err := v.ResolveType(Placeholder); err == nil {
		t.Error("resolving to a placeholder should fail")
	}
	if v.IsResolved() {
		t.Fatal("a failed resolution must not change the type")
	}

	if err := v.ResolveType(Int); err != nil {
		t.Fatal(err)
	}
	if v.Type() != Int {
		t.Errorf("expected Int, got %s", v.Type())
	}

	if err := v.ResolveType(Float); err == nil {
		t.Error("a second resolution should fail")
	}
	if v.Type() != Int {
		t.Errorf("a second resolution changed the type to %s", v.Type())
	}
}

func TestAnnotatedTypeIsFinal(t *testing.T) {
	v := NewVariableDeclaration(Mutable, token.Token{Lexeme: "y"}, Bool)

	if !v.IsResolved() {
		t.Fatal("an annotated declaration should be resolved")
	}
	if err := v.ResolveType(String); err == nil {
		t.Error("an annotated declaration should not be retyped")
	}
	if v.Type() != Bool {
		t.Errorf("expected Bool, got %s", v.Type())
	}
}
