package utils

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeKeywords(t *testing.T) {
	cases := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "duplicates and embedded commas", input: []string{"a", "a", "b, c"}, want: []string{"a", "b", "c"}},
		{name: "single comma separated string", input: []string{" ml , nlp,, ml "}, want: []string{"ml", "nlp"}},
		{name: "case is preserved", input: []string{"AI", "ai"}, want: []string{"AI", "ai"}},
		{name: "blank only", input: []string{"", " , ", "  "}, want: []string{}},
		{name: "no input", input: nil, want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeKeywords(tc.input...)
			if got == nil {
				t.Fatalf("expected non-nil slice")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNormalizeKeywordsIsIdempotent(t *testing.T) {
	inputs := [][]string{
		{"a", "a", "b, c"},
		{" x ,y", "z,x"},
		{"single"},
	}
	for _, input := range inputs {
		once := NormalizeKeywords(input...)
		twice := NormalizeKeywords(once...)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("normalizing %v twice changed the result: %v vs %v", input, once, twice)
		}
	}
}

func TestKeywordInputAcceptsStringOrArray(t *testing.T) {
	var payload struct {
		Keywords *KeywordInput `json:"keywords"`
	}

	if err := json.Unmarshal([]byte(`{"keywords":"a, b"}`), &payload); err != nil {
		t.Fatalf("string form: %v", err)
	}
	if got := payload.Keywords.Normalized(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected keywords from string: %v", got)
	}

	payload.Keywords = nil
	if err := json.Unmarshal([]byte(`{"keywords":["a","a","b, c"]}`), &payload); err != nil {
		t.Fatalf("array form: %v", err)
	}
	if got := payload.Keywords.Normalized(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected keywords from array: %v", got)
	}

	payload.Keywords = nil
	if err := json.Unmarshal([]byte(`{"keywords":[]}`), &payload); err != nil {
		t.Fatalf("empty array: %v", err)
	}
	if payload.Keywords == nil || len(payload.Keywords.Normalized()) != 0 {
		t.Fatalf("expected explicit empty keyword list, got %v", payload.Keywords)
	}

	if err := json.Unmarshal([]byte(`{"keywords":42}`), &payload); err == nil {
		t.Fatalf("expected error for numeric keywords")
	}
}
