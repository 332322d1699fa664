package util

import (
	"reflect"
	"testing"
)

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("8080", 3000); got != 8080 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseIntDefault("", 3000); got != 3000 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("80x", 3000); got != 3000 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestParseUint64Default(t *testing.T) {
	if got := ParseUint64Default("30", 5); got != 30 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseUint64Default("-1", 5); got != 5 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" kafka-1:9092, ,kafka-2:9092,")
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected %v", got)
	}
	if SplitCSV("") != nil {
		t.Fatalf("expected nil")
	}
}
