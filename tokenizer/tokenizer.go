package tokenizer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	lex "github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Token classes. The parser works on plain token strings, so the classes
// only steer lexer actions (quote stripping); they are not exported.
const (
	tokSpecial int = iota + 1
	tokBareword
	tokString
)

var (
	initOnce sync.Once // monitors one-time construction of the lexer
	lexer    *lex.Lexer
	lexerErr error
)

func emit(toktype int) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(toktype, string(m.Bytes), m), nil
	}
}

// emitUnquoted strips the surrounding quotes from a quoted-string lexeme.
// Backslash escapes inside the string stay as they are; un-escaping is up
// to the consumer.
func emitUnquoted(toktype int) lex.Action {
	return func(s *lex.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(toktype, string(m.Bytes[1:len(m.Bytes)-1]), m), nil
	}
}

func skip(*lex.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// initLexer builds and compiles the lexer. Rule order matters for
// same-length matches: comments win over everything, specials over
// barewords.
func initLexer() {
	initOnce.Do(func() {
		l := lex.NewLexer()
		l.Add([]byte(`#[^\n]*`), skip)
		for _, special := range []string{`,`, `=`, `\{`, `\}`, `\(`, `\)`} {
			l.Add([]byte(special), emit(tokSpecial))
		}
		l.Add([]byte(`"[^\n"\\]*(\\.[^\n"\\]*)*"`), emitUnquoted(tokString))
		l.Add([]byte(`'[^\n'\\]*(\\.[^\n'\\]*)*'`), emitUnquoted(tokString))
		l.Add([]byte(`[a-zA-Z0-9_\-\+:\./\\\[\]<>]+`), emit(tokBareword))
		l.Add([]byte(`( |\t|\r|\n)+`), skip)
		lexerErr = l.Compile()
		lexer = l
	})
}

// A Tokenizer produces the tokens of one input text, lazily, as a
// pull-style sequence. It is not safe for concurrent use; create one
// tokenizer per input.
type Tokenizer struct {
	filename string
	input    string
	scanner  *lex.Scanner
}

// New creates a tokenizer for an input text. The file name is used for
// diagnostics only and may be empty.
func New(input string, filename string) (*Tokenizer, error) {
	initLexer()
	if lexerErr != nil {
		return nil, fmt.Errorf("cannot build lexer: %w", lexerErr)
	}
	if filename == "" {
		filename = "<input>"
	}
	scanner, err := lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Tokenizer{filename: filename, input: input, scanner: scanner}, nil
}

// Next returns the next token. At the end of the input it returns io.EOF;
// input matching no lexical class produces a *LexicalError.
func (t *Tokenizer) Next() (string, error) {
	tok, err, eos := t.scanner.Next()
	if eos {
		return "", io.EOF
	}
	if err != nil {
		if unconsumed, ok := err.(*machines.UnconsumedInput); ok {
			lexerr := &LexicalError{
				Filename: t.filename,
				Line:     unconsumed.StartLine,
				Column:   unconsumed.StartColumn,
				Text:     t.lineText(unconsumed.StartLine),
			}
			tracer().Errorf(lexerr.Error())
			return "", lexerr
		}
		return "", err
	}
	token := tok.(*lex.Token)
	tracer().Debugf("token %q", token.Value.(string))
	return token.Value.(string), nil
}

// All drains the tokenizer and returns the remaining tokens. The first
// lexical error aborts.
func (t *Tokenizer) All() ([]string, error) {
	var tokens []string
	for {
		token, err := t.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
}

// Filename returns the display name the tokenizer was created with.
func (t *Tokenizer) Filename() string {
	return t.filename
}

func (t *Tokenizer) lineText(lineno int) string {
	lines := strings.Split(t.input, "\n")
	if lineno >= 1 && lineno <= len(lines) {
		return lines[lineno-1]
	}
	return ""
}

// LexicalError flags input not matching any lexical class. It carries the
// position of the offending input and the text of the line it occurred on.
type LexicalError struct {
	Filename string
	Line     int
	Column   int
	Text     string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s:%d:%d: illegal input in line %q", e.Filename, e.Line, e.Column, e.Text)
}
