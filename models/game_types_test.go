package models

import (
	"strings"
	"testing"
)

func TestGameTypeTableIsComplete(t *testing.T) {
	if len(GameTypeList) != len(GameTypes) {
		t.Fatalf("draw list has %d types, table has %d", len(GameTypeList), len(GameTypes))
	}
	for _, gameType := range GameTypeList {
		spec, ok := GameTypes[gameType]
		if !ok {
			t.Fatalf("type %q in draw list but not in table", gameType)
		}
		if spec.Label == "" {
			t.Fatalf("type %q has no label", gameType)
		}
		if !strings.Contains(spec.Template, ResultTimePlaceholder) {
			t.Fatalf("type %q template is missing the result time placeholder", gameType)
		}
		if spec.Rubric == "" {
			t.Fatalf("type %q has no judging rubric", gameType)
		}
	}
}

func TestRubricFor(t *testing.T) {
	if got := RubricFor(GameTypeBestJoke); got != GameTypes[GameTypeBestJoke].Rubric {
		t.Fatalf("unexpected rubric %q", got)
	}
	if got := RubricFor("unknown_type"); got != FallbackRubric {
		t.Fatalf("expected fallback rubric for unknown type, got %q", got)
	}
}
