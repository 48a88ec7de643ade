package battlelog

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrUnexpectedElement    = errors.New("unexpected element")
)

// UnexpectedElementError names the offending token and where it sits. End is
// set when a literal was expected but the input ran out; Value is then zero.
type UnexpectedElementError struct {
	Value int64
	Pos   int
	End   bool
}

func (e *UnexpectedElementError) Error() string {
	if e.End {
		return fmt.Sprintf("unexpected end of input at position %d", e.Pos)
	}
	return fmt.Sprintf("unexpected element %d at position %d", e.Value, e.Pos)
}

func (e *UnexpectedElementError) Is(target error) bool {
	return target == ErrUnexpectedElement || (e.End && target == ErrUnexpectedEndOfInput)
}

// TokenStream is a forward-only cursor over a battle log.
type TokenStream struct {
	data []int64
	pos  int
}

func NewTokenStream(data []int64) *TokenStream {
	return &TokenStream{data: data}
}

// Pos is the index of the next unread token.
func (s *TokenStream) Pos() int { return s.pos }

func (s *TokenStream) HasMore() bool { return s.pos < len(s.data) }

func (s *TokenStream) Peek() (int64, error) {
	if !s.HasMore() {
		return 0, ErrUnexpectedEndOfInput
	}
	return s.data[s.pos], nil
}

func (s *TokenStream) Read() (int64, error) {
	if !s.HasMore() {
		return 0, ErrUnexpectedEndOfInput
	}
	v := s.data[s.pos]
	s.pos++
	return v, nil
}

// ReadN reads n payload values in order.
func (s *TokenStream) ReadN(n int) ([]int64, error) {
	if s.pos+n > len(s.data) {
		return nil, ErrUnexpectedEndOfInput
	}
	out := make([]int64, n)
	copy(out, s.data[s.pos:s.pos+n])
	s.pos += n
	return out, nil
}

// ReadLiteral consumes tag or fails without moving the cursor.
func (s *TokenStream) ReadLiteral(tag Tag) error {
	return s.ReadAnyLiteral(tag)
}

// ReadAnyLiteral consumes the current token if it is one of tags. Exhausted
// input is reported as an UnexpectedElementError that also matches
// ErrUnexpectedEndOfInput.
func (s *TokenStream) ReadAnyLiteral(tags ...Tag) error {
	if !s.HasMore() || !isOneOf(s.data[s.pos], tags) {
		return s.Unexpected()
	}
	s.pos++
	return nil
}

// Unexpected reports the token under the cursor as out of place.
func (s *TokenStream) Unexpected() error {
	if !s.HasMore() {
		return &UnexpectedElementError{Pos: s.pos, End: true}
	}
	return &UnexpectedElementError{Value: s.data[s.pos], Pos: s.pos}
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }
