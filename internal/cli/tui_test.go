package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonderef/pkg/refgraph"
)

func testItems(t *testing.T) []SchemaItem {
	t.Helper()
	g, err := refgraph.Build([]any{
		map[string]any{"$id": "a.json", "x": map[string]any{"$ref": "b.json"}, "y": map[string]any{"$ref": "#/x"}},
		map[string]any{"$id": "b.json", "z": map[string]any{"$ref": "c.json"}},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return schemaItems(g)
}

func TestSchemaItems(t *testing.T) {
	want := []SchemaItem{
		{URI: "a.json", LocalRefs: 1, CrossRefs: 1},
		{URI: "b.json", CrossRefs: 1},
		{URI: "c.json", Missing: true},
	}
	if diff := cmp.Diff(want, testItems(t)); diff != "" {
		t.Errorf("schemaItems mismatch (-want +got):\n%s", diff)
	}
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestSchemaListModelSelect(t *testing.T) {
	var m tea.Model = NewSchemaListModel(testItems(t))
	m = press(m, "down")
	m = press(m, "enter")

	got := m.(SchemaListModel)
	if got.Selected == nil || got.Selected.URI != "b.json" {
		t.Fatalf("Selected = %+v, want b.json", got.Selected)
	}
}

func TestSchemaListModelMissingNotSelectable(t *testing.T) {
	var m tea.Model = NewSchemaListModel(testItems(t))
	for range 5 {
		m = press(m, "j")
	}
	m = press(m, "enter")

	got := m.(SchemaListModel)
	if got.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped to the last item)", got.Cursor)
	}
	if got.Selected != nil {
		t.Errorf("missing schema was selected: %+v", got.Selected)
	}
}

func TestSchemaListModelScroll(t *testing.T) {
	var m tea.Model = NewSchemaListModel(testItems(t))
	m, _ = m.Update(tea.WindowSizeMsg{Height: 3})
	if h := m.(SchemaListModel).Height; h != 5 {
		t.Errorf("Height = %d, want the minimum of 5", h)
	}
	m = press(m, "down")
	m = press(m, "up")
	m = press(m, "up")
	if c := m.(SchemaListModel).Cursor; c != 0 {
		t.Errorf("Cursor = %d, want 0", c)
	}
}

func TestSchemaListModelView(t *testing.T) {
	view := NewSchemaListModel(testItems(t)).View()
	for _, want := range []string{"Select Schema", "a.json", "c.json", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestSchemaListModelQuit(t *testing.T) {
	_, cmd := NewSchemaListModel(testItems(t)).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
