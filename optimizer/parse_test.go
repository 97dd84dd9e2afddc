package optimizer

import (
	"reflect"
	"testing"
)

func TestParseList_JSONArray(t *testing.T) {
	got := parseList(`["alpha", "beta", "gamma"]`)
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseList_JSONArrayInProse(t *testing.T) {
	raw := "Here are the bullets you asked for:\n[\"first point\", \"second point\"]\nHope that helps!"
	got := parseList(raw)
	want := []string{"first point", "second point"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseList_MarkdownFence(t *testing.T) {
	raw := "```json\n[\"one\", \"two\"]\n```"
	got := parseList(raw)
	want := []string{"one", "two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseList_NumberedLines(t *testing.T) {
	raw := "1. first item\n2. second item\n3. third item"
	got := parseList(raw)
	want := []string{"first item", "second item", "third item"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseList_DashedLines(t *testing.T) {
	raw := "- first\n- second\n\n- third"
	got := parseList(raw)
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseList_MalformedArrayFallsBackToLines(t *testing.T) {
	// Bracketed but not valid JSON: line splitting takes over.
	raw := "[not json\nsecond line]"
	got := parseList(raw)
	want := []string{"[not json", "second line]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseList_Empty(t *testing.T) {
	if got := parseList("   \n  "); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
