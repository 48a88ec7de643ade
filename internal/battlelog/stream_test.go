package battlelog

import (
	"errors"
	"testing"
)

func TestReadLiteralAtEndOfInput(t *testing.T) {
	in := NewTokenStream(nil)
	err := in.ReadLiteral(EndRound)
	var ue *UnexpectedElementError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnexpectedElementError, got %v", err)
	}
	if !errors.Is(err, ErrUnexpectedElement) || !errors.Is(err, ErrUnexpectedEndOfInput) {
		t.Fatalf("expected error to match both sentinels, got %v", err)
	}
	if !ue.End || ue.Pos != 0 {
		t.Fatalf("expected end at position 0, got %+v", ue)
	}
}

func TestReadAnyLiteralMismatchKeepsCursor(t *testing.T) {
	in := NewTokenStream(tags(StartRound, EndRound))
	if err := in.ReadAnyLiteral(EndRound, EndSubRound); !errors.Is(err, ErrUnexpectedElement) {
		t.Fatalf("expected unexpected element, got %v", err)
	}
	if errors.Is(in.ReadAnyLiteral(EndRound), ErrUnexpectedEndOfInput) {
		t.Fatalf("expected a mismatch, not end of input")
	}
	if in.Pos() != 0 {
		t.Fatalf("expected cursor at 0, got %d", in.Pos())
	}
	if err := in.ReadAnyLiteral(EndRound, StartRound); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := in.ReadLiteral(EndRound); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	err := in.ReadLiteral(EndRound)
	var ue *UnexpectedElementError
	if !errors.As(err, &ue) || ue.Pos != 2 || !ue.End {
		t.Fatalf("expected end of input at 2, got %v", err)
	}
}
