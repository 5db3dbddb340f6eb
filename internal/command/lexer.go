package command

import (
	"strings"
)

// Category is the second field of a token, selecting what the token configures.
type Category string

const (
	CategoryHeight    Category = "h"
	CategoryWidth     Category = "w"
	CategoryCenter    Category = "c"
	CategoryOperation Category = "o"
)

const (
	tokenPrefix    = "i"
	stageSeparator = "/"
	tokenSeparator = ","
	partSeparator  = "_"
)

// Token is one lexically valid `i_<cat>_...` unit. Args are the raw fields that
// follow the category; their meaning is decided by the stage builder.
type Token struct {
	Raw      string
	Category Category
	Args     []string
}

// Lex splits a raw command string into stages of tokens. Any token that does not
// follow the `i_<category>[_<subtype>]_<args...>` shape fails the whole command.
func Lex(raw string) ([][]Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, syntaxError(raw, "empty command")
	}

	segments := strings.Split(raw, stageSeparator)
	stages := make([][]Token, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			return nil, syntaxError(raw, "empty stage")
		}

		fields := strings.Split(segment, tokenSeparator)
		tokens := make([]Token, 0, len(fields))
		for _, field := range fields {
			tok, err := lexToken(field)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
		stages = append(stages, tokens)
	}
	return stages, nil
}

func lexToken(raw string) (Token, error) {
	if raw == "" {
		return Token{}, syntaxError(raw, "empty token")
	}

	parts := strings.Split(raw, partSeparator)
	if len(parts) < 2 || parts[0] != tokenPrefix {
		return Token{}, syntaxError(raw, "token must start with %s%s", tokenPrefix, partSeparator)
	}
	for _, p := range parts[1:] {
		if p == "" {
			return Token{}, syntaxError(raw, "empty token field")
		}
	}

	tok := Token{Raw: raw, Category: Category(parts[1]), Args: parts[2:]}
	switch tok.Category {
	case CategoryHeight, CategoryWidth:
	case CategoryCenter:
		if len(tok.Args) == 0 {
			return Token{}, syntaxError(raw, "center token needs face, x or y")
		}
		switch tok.Args[0] {
		case centerFace:
			if len(tok.Args) != 1 {
				return Token{}, syntaxError(raw, "center face takes no value")
			}
		case centerX, centerY:
		default:
			return Token{}, syntaxError(raw, "unknown center form %s", tok.Args[0])
		}
	case CategoryOperation:
		if len(tok.Args) == 0 {
			return Token{}, syntaxError(raw, "operation token needs a name")
		}
	default:
		return Token{}, syntaxError(raw, "unknown category %s", parts[1])
	}
	return tok, nil
}
