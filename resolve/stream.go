package resolve

import (
	"fmt"

	"github.com/kballard/go-shellquote"
)

// SplitString splits a single shell-style line into tokens, honoring
// quoting and escapes, so `run "two words"` yields two tokens.
func SplitString(line string) ([]string, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("splitting input line: %w", err)
	}
	return tokens, nil
}

// stream is the mutable per-invocation token cursor. It is consumed
// destructively and owned exclusively by one in-flight resolution.
// Offsets are 0-based positions within the slice the resolved command
// received, after descent consumed the subcommand names.
type stream struct {
	tokens []string
	pos    int
}

func newStream(tokens []string) *stream {
	owned := make([]string, len(tokens))
	copy(owned, tokens)
	return &stream{tokens: owned}
}

// next consumes and returns the next token with its offset.
func (s *stream) next() (token string, offset int, ok bool) {
	if s.pos >= len(s.tokens) {
		return "", -1, false
	}
	token, offset = s.tokens[s.pos], s.pos
	s.pos++
	return token, offset, true
}

// peek returns the next token without consuming it.
func (s *stream) peek() (string, bool) {
	if s.pos >= len(s.tokens) {
		return "", false
	}
	return s.tokens[s.pos], true
}

// rest consumes and returns every remaining token.
func (s *stream) rest() []string {
	out := s.tokens[s.pos:]
	s.pos = len(s.tokens)
	return out
}

// remaining reports how many tokens are left.
func (s *stream) remaining() int { return len(s.tokens) - s.pos }
