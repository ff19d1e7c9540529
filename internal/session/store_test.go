package session

import (
	"testing"
	"time"

	"FinSight/internal/domain/models"
)

func TestRecordTurnNewestFirst(t *testing.T) {
	s := NewStore(time.Hour, 10, time.Hour)
	defer s.Close()

	s.RecordTurn("s1", "first", nil)
	s.RecordTurn("s1", "second", nil)

	conv := s.Snapshot("s1")
	if len(conv.Messages) != 2 || conv.Messages[0] != "second" {
		t.Fatalf("unexpected messages %v", conv.Messages)
	}
}

func TestRecordTurnCapsHistory(t *testing.T) {
	s := NewStore(time.Hour, 3, time.Hour)
	defer s.Close()

	for _, m := range []string{"a", "b", "c", "d", "e"} {
		s.RecordTurn("s1", m, nil)
	}
	conv := s.Snapshot("s1")
	if len(conv.Messages) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(conv.Messages))
	}
	if conv.Messages[0] != "e" {
		t.Fatalf("expected newest kept, got %v", conv.Messages)
	}
}

func TestLastInstrumentCarried(t *testing.T) {
	s := NewStore(time.Hour, 10, time.Hour)
	defer s.Close()

	ins := &models.Instrument{Symbol: "TSLA", Class: models.AssetClassStock}
	s.RecordTurn("s1", "TSLA price", ins)
	s.RecordTurn("s1", "what about the chart", nil)

	conv := s.Snapshot("s1")
	if conv.Last == nil || conv.Last.Symbol != "TSLA" {
		t.Fatalf("expected last instrument carried, got %+v", conv.Last)
	}
}

func TestSnapshotMissingSessionEmpty(t *testing.T) {
	s := NewStore(time.Hour, 10, time.Hour)
	defer s.Close()

	conv := s.Snapshot("nope")
	if len(conv.Messages) != 0 || conv.Last != nil {
		t.Fatalf("expected empty conversation, got %+v", conv)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewStore(time.Hour, 10, time.Hour)
	defer s.Close()

	s.RecordTurn("s1", "one", nil)
	conv := s.Snapshot("s1")
	conv.Messages[0] = "mutated"

	if got := s.Snapshot("s1").Messages[0]; got != "one" {
		t.Fatalf("snapshot leaked internal state: %q", got)
	}
}

func TestIdleEviction(t *testing.T) {
	s := NewStore(10*time.Millisecond, 10, 20*time.Millisecond)
	defer s.Close()

	s.RecordTurn("s1", "hello", nil)
	time.Sleep(80 * time.Millisecond)
	if s.Len() != 0 {
		t.Fatalf("expected idle session evicted, len=%d", s.Len())
	}
}
