package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdentReturnsKeywords(t *testing.T) {
	cases := map[string]TokenType{
		"output":   OUTPUT,
		"input":    INPUT,
		"fn":       FN,
		"cell":     CELL,
		"struct":   STRUCT,
		"while":    WHILE,
		"if":       IF,
		"not":      NOT,
		"else":     ELSE,
		"copy":     COPY,
		"drain":    DRAIN,
		"into":     INTO,
		"bf":       BF,
		"clobbers": CLOBBERS,
		"assert":   ASSERT,
		"equals":   EQUALS,
		"unknown":  UNKNOWN,
		"true":     TRUE,
		"false":    FALSE,
	}
	for ident, want := range cases {
		assert.Equal(t, want, LookupIdent(ident), "ident %q", ident)
	}
}

func TestLookupIdentFallsBackToIdent(t *testing.T) {
	assert.Equal(t, TokenType(IDENT), LookupIdent("foo"))
	assert.Equal(t, TokenType(IDENT), LookupIdent("Output"))
}
