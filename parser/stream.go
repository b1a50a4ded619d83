package parser

import (
	"github.com/npillmayer/epicsdb/tokenizer"
)

// A TokenStream is a cursor over the tokens of one input. The inputs we
// parse are small, so tokens are materialized eagerly; this surfaces all
// lexical errors up front and leaves the parser with an infallible
// cursor.
type TokenStream struct {
	tokens []string
	pos    int
}

// NewTokenStream drains a tokenizer into a token stream. A lexical error
// anywhere in the input fails the whole stream.
func NewTokenStream(tz *tokenizer.Tokenizer) (*TokenStream, error) {
	tokens, err := tz.All()
	if err != nil {
		return nil, err
	}
	return &TokenStream{tokens: tokens}, nil
}

// newTokenStream tokenizes an input text into a token stream.
func newTokenStream(input, filename string) (*TokenStream, error) {
	tz, err := tokenizer.New(input, filename)
	if err != nil {
		return nil, err
	}
	return NewTokenStream(tz)
}

// Next returns the next token, with ok=false at the end of the stream.
func (ts *TokenStream) Next() (token string, ok bool) {
	if ts.pos >= len(ts.tokens) {
		return "", false
	}
	token = ts.tokens[ts.pos]
	ts.pos++
	return token, true
}
