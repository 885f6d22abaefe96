package jack

import (
	"fmt"
	"regexp"
	"strings"
)

// ----------------------------------------------------------------------------
// Jack Tokenizer

// A Token is a tagged pair: the literal text matched and what kind of lexeme it is
// (spec §3 "Tokens"). Identifiers and keywords share the same character class; the
// only thing that tells them apart is keyword-set membership.
type Token struct {
	Kind  TokenKind
	Value string
}

type TokenKind string

const (
	KeywordToken         TokenKind = "keyword"
	SymbolToken          TokenKind = "symbol"
	IntegerConstantToken TokenKind = "integerConstant"
	StringConstantToken  TokenKind = "stringConstant"
	IdentifierToken      TokenKind = "identifier"
)

// The fixed keyword and symbol sets of the Jack language (spec §3).
var keywords = map[string]bool{
	"class": true, "constructor": true, "function": true, "method": true,
	"field": true, "static": true, "var": true, "int": true, "char": true,
	"boolean": true, "void": true, "true": true, "false": true, "null": true,
	"this": true, "let": true, "do": true, "if": true, "else": true,
	"while": true, "return": true,
}

const symbolChars = "{}()[].,;+-*/&|<>=~"

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	identRe        = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	digitsRe       = regexp.MustCompile(`^[0-9]+`)
)

// Tokenize scans 'source' left-to-right into a flat token stream, shared by both the
// parser/analyzer and the compiler (spec §4.3). Preprocessing strips '/* ... */' and
// '// ...' comments before the scan proper begins; an unterminated block comment is
// a hard error (an unterminated line comment just runs to EOF, which is not an error).
func Tokenize(source []byte) ([]Token, error) {
	cleaned := blockCommentRe.ReplaceAllString(string(source), " ")
	if idx := strings.Index(cleaned, "/*"); idx != -1 {
		// Every well-formed '/* ... */' pair was already stripped above (the regex is
		// non-greedy, so it pairs each '/*' with its nearest '*/'); any '/*' surviving
		// into 'cleaned' has no matching close anywhere in the file.
		return nil, fmt.Errorf("unterminated block comment starting at byte %d", idx)
	}

	cleaned = lineCommentRe.ReplaceAllString(cleaned, " ")

	tokens := []Token{}
	i, n := 0, len(cleaned)

	for i < n {
		c := cleaned[i]

		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			i++
			continue
		}

		if strings.IndexByte(symbolChars, c) != -1 {
			tokens = append(tokens, Token{Kind: SymbolToken, Value: string(c)})
			i++
			continue
		}

		if c == '"' {
			end := strings.IndexByte(cleaned[i+1:], '"')
			if end == -1 {
				return nil, fmt.Errorf("unterminated string constant starting at byte %d", i)
			}
			value := cleaned[i+1 : i+1+end]
			if strings.ContainsRune(value, '\n') {
				return nil, fmt.Errorf("unterminated string constant starting at byte %d", i)
			}
			tokens = append(tokens, Token{Kind: StringConstantToken, Value: value})
			i += end + 2
			continue
		}

		if match := digitsRe.FindString(cleaned[i:]); match != "" {
			if len(match) > 5 || toInt(match) > 32767 {
				return nil, fmt.Errorf("integer constant %q out of range [0, 32767]", match)
			}
			tokens = append(tokens, Token{Kind: IntegerConstantToken, Value: match})
			i += len(match)
			continue
		}

		if match := identRe.FindString(cleaned[i:]); match != "" {
			kind := IdentifierToken
			if keywords[match] {
				kind = KeywordToken
			}
			tokens = append(tokens, Token{Kind: kind, Value: match})
			i += len(match)
			continue
		}

		return nil, fmt.Errorf("unrecognized character %q at byte %d", c, i)
	}

	return tokens, nil
}

func toInt(digits string) int {
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}
	return n
}
