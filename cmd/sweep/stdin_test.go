package main

import (
	"strings"
	"testing"

	"github.com/wrungel/sweep/internal/haystack"
)

func TestParseNth_SingleAndRange(t *testing.T) {
	set, err := parseNth("1,3-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, i := range []int{1, 3, 4} {
		if !set[i] {
			t.Fatalf("expected field %d selected", i)
		}
	}
	if set[2] {
		t.Fatal("field 2 should not be selected")
	}
}

func TestParseNth_Empty(t *testing.T) {
	set, err := parseNth("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != nil {
		t.Fatalf("expected nil spec for empty --nth, got %v", set)
	}
}

func TestParseNth_RejectsGarbage(t *testing.T) {
	if _, err := parseNth("a,b"); err == nil {
		t.Fatal("expected error for non-numeric field index")
	}
}

func fieldsJoin(fields []haystack.Field) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(f.Text)
	}
	return b.String()
}

func TestLineToItem_NoNthKeepsWholeLineActive(t *testing.T) {
	item := lineToItem("hello  world", "", nil)
	if len(item.Target) != 1 || !item.Target[0].Active {
		t.Fatalf("expected one active field, got %+v", item.Target)
	}
	if fieldsJoin(item.Target) != "hello  world" {
		t.Fatalf("display text mismatch: %q", fieldsJoin(item.Target))
	}
}

func TestLineToItem_NthRestrictsActiveFieldsButKeepsDisplay(t *testing.T) {
	nth, _ := parseNth("2")
	item := lineToItem("foo:bar:baz", ":", nth)
	if fieldsJoin(item.Target) != "foo:bar:baz" {
		t.Fatalf("display text mismatch: %q", fieldsJoin(item.Target))
	}
	var activeText string
	for _, f := range item.Target {
		if f.Active {
			activeText += f.Text
		}
	}
	if activeText != "bar" {
		t.Fatalf("expected only field 2 (\"bar\") active, got %q", activeText)
	}
}

func TestReadCandidates_OnePerLine(t *testing.T) {
	items, err := readCandidates(strings.NewReader("one\ntwo\nthree\n"), "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(items))
	}
	if fieldsJoin(items[1].Target) != "two" {
		t.Fatalf("expected second candidate %q, got %q", "two", fieldsJoin(items[1].Target))
	}
}

func TestReadJSONCandidates_ParsesItemPerLine(t *testing.T) {
	input := `{"target":[{"text":"abc","active":true}]}` + "\n" + `{"target":[{"text":"def","active":true}]}` + "\n"
	items, err := readJSONCandidates(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(items))
	}
	if fieldsJoin(items[0].Target) != "abc" {
		t.Fatalf("expected first candidate %q, got %q", "abc", fieldsJoin(items[0].Target))
	}
}

func TestReadJSONCandidates_SkipsBlankLines(t *testing.T) {
	items, err := readJSONCandidates(strings.NewReader("\n" + `{"target":[{"text":"x","active":true}]}` + "\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(items))
	}
}
