package jsonvalue

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type custom struct{ A int }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want Kind
	}{
		{"string", "x", KindScalar},
		{"number", 1.5, KindScalar},
		{"bool", true, KindScalar},
		{"null", nil, KindScalar},
		{"struct", custom{A: 1}, KindScalar},
		{"typed map", map[string]int{"a": 1}, KindScalar},
		{"array", []any{1, 2}, KindArray},
		{"object", map[string]any{"a": 1}, KindObject},
		{"reference", map[string]any{"$ref": "#/a"}, KindReference},
		{"non-string reference", map[string]any{"$ref": 5}, KindReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.v); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
			if got := IsPlain(tt.v); got != (tt.want == KindScalar) {
				t.Errorf("IsPlain() = %v", got)
			}
		})
	}
}

func TestOptedOut(t *testing.T) {
	if !OptedOut(map[string]any{"$deref": false}) {
		t.Error("$deref: false should opt out")
	}
	if OptedOut(map[string]any{"$deref": true}) {
		t.Error("$deref: true should not opt out")
	}
	if OptedOut(map[string]any{"$deref": "false"}) {
		t.Error(`$deref: "false" should not opt out`)
	}
	if OptedOut([]any{false}) {
		t.Error("arrays never opt out")
	}
}

func TestClone(t *testing.T) {
	orig := map[string]any{
		"a": []any{map[string]any{"b": 1.0}},
		"c": "x",
	}
	cp := Clone(orig).(map[string]any)
	if diff := cmp.Diff(orig, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	cp["a"].([]any)[0].(map[string]any)["b"] = 2.0
	if orig["a"].([]any)[0].(map[string]any)["b"] != 1.0 {
		t.Error("mutating the clone changed the original")
	}
}

func TestMergeObjects(t *testing.T) {
	got := Merge(
		map[string]any{"a": 1, "b": 2},
		map[string]any{"b": "overwritten", "c": 3},
	)
	want := map[string]any{"a": 1, "b": "overwritten", "c": 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}

	got = Merge(
		map[string]any{"a": map[string]any{"b": 2}},
		map[string]any{"a": map[string]any{"b": "overwritten", "c": 3}},
	)
	want = map[string]any{"a": map[string]any{"b": "overwritten", "c": 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nested Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeArraysReplace(t *testing.T) {
	got := Merge(
		map[string]any{"a": []any{"test", "another test"}, "b": 2},
		map[string]any{"a": []any{"overwritten"}, "b": []any{"overwritten"}},
	)
	want := map[string]any{"a": []any{"overwritten"}, "b": []any{"overwritten"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeNil(t *testing.T) {
	base := map[string]any{"a": 1}
	if diff := cmp.Diff(base, Merge(base, nil)); diff != "" {
		t.Errorf("nil override should keep base:\n%s", diff)
	}

	got := Merge(base, map[string]any{"a": nil})
	if diff := cmp.Diff(map[string]any{"a": nil}, got); diff != "" {
		t.Errorf("explicit null should win:\n%s", diff)
	}
}

func TestMergeDoesNotMutate(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	override := map[string]any{"a": map[string]any{"y": 2}}
	_ = Merge(base, override)

	if diff := cmp.Diff(map[string]any{"a": map[string]any{"x": 1}}, base); diff != "" {
		t.Errorf("base mutated:\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a": map[string]any{"y": 2}}, override); diff != "" {
		t.Errorf("override mutated:\n%s", diff)
	}
}

func TestSortedKeys(t *testing.T) {
	got := SortedKeys(map[string]any{"b": 1, "$ref": 2, "a": 3})
	if diff := cmp.Diff([]string{"$ref", "a", "b"}, got); diff != "" {
		t.Errorf("SortedKeys mismatch (-want +got):\n%s", diff)
	}
}
