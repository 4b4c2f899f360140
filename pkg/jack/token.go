package jack

import "strconv"

// ----------------------------------------------------------------------------
// Tokens

// This section declares the token alphabet produced by the Tokenizer (see tokenizer.go).
//
// A token is a tagged variant: exactly one of the fields below is meaningful, selected
// by 'Kind'. Keeping 'Keyword' (reserved words) and 'LiteralKeyword' (the subset usable
// as a term, i.e. true/false/null/this) as two separate enumerations means a token of
// kind 'while' can never be mistaken for a keyword-constant term at the type level.

type TokenKind uint8

const (
	TokIntConst TokenKind = iota
	TokStringConst
	TokIdentifier
	TokKeyword
	TokSymbol
	// TokNone is what Current() yields once the stream is exhausted.
	TokNone
)

// Token is immutable once produced; 'Line' records the 1-based source line it started on.
type Token struct {
	Kind    TokenKind
	IntVal  uint16
	StrVal  string
	Keyword Keyword
	Line    int
}

func (t Token) String() string {
	switch t.Kind {
	case TokIntConst:
		return strconv.Itoa(int(t.IntVal))
	case TokStringConst:
		return t.StrVal
	case TokIdentifier:
		return t.StrVal
	case TokKeyword:
		return string(t.Keyword)
	case TokSymbol:
		return t.StrVal
	default:
		return "<none>"
	}
}

// Keyword enumerates every reserved word of the HLL. Several of these (true, false, null,
// this) additionally act as term-position literals; that subset is mirrored by LiteralKeyword.
type Keyword string

const (
	KwClass       Keyword = "class"
	KwConstructor Keyword = "constructor"
	KwFunction    Keyword = "function"
	KwMethod      Keyword = "method"
	KwField       Keyword = "field"
	KwStatic      Keyword = "static"
	KwVar         Keyword = "var"
	KwInt         Keyword = "int"
	KwChar        Keyword = "char"
	KwBoolean     Keyword = "boolean"
	KwVoid        Keyword = "void"
	KwTrue        Keyword = "true"
	KwFalse       Keyword = "false"
	KwNull        Keyword = "null"
	KwThis        Keyword = "this"
	KwLet         Keyword = "let"
	KwDo          Keyword = "do"
	KwIf          Keyword = "if"
	KwElse        Keyword = "else"
	KwWhile       Keyword = "while"
	KwReturn      Keyword = "return"
)

// Reserved words recognized by the Tokenizer when a plain-word token is not an identifier.
var keywords = map[string]Keyword{
	"class": KwClass, "constructor": KwConstructor, "function": KwFunction, "method": KwMethod,
	"field": KwField, "static": KwStatic, "var": KwVar,
	"int": KwInt, "char": KwChar, "boolean": KwBoolean, "void": KwVoid,
	"true": KwTrue, "false": KwFalse, "null": KwNull, "this": KwThis,
	"let": KwLet, "do": KwDo, "if": KwIf, "else": KwElse, "while": KwWhile, "return": KwReturn,
}

// LiteralKeyword is the keyword-constant subset usable as a term, split out
// from Keyword so that something like 'while' appearing as a term is simply
// unrepresentable rather than a runtime check.
type LiteralKeyword uint8

const (
	LitTrue LiteralKeyword = iota
	LitFalse
	LitNull
	LitThis
)

// literalKeywordOf reports whether kw is one of the four keyword-constants, and if so which.
func literalKeywordOf(kw Keyword) (LiteralKeyword, bool) {
	switch kw {
	case KwTrue:
		return LitTrue, true
	case KwFalse:
		return LitFalse, true
	case KwNull:
		return LitNull, true
	case KwThis:
		return LitThis, true
	default:
		return 0, false
	}
}

// Fixed symbol alphabet of the HLL (single characters only, no multi-char operators).
const symbolChars = "{}()[].,;+-*/&|<>=~"

func isSymbolChar(r rune) bool {
	for _, s := range symbolChars {
		if s == r {
			return true
		}
	}
	return false
}
