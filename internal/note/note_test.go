package note

import (
	"os"
	"path/filepath"
	"testing"
)

const body = "- **09:00**\n    - *10:00*: VSCodium: main.go\n"

func readNote(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	return string(data)
}

func TestInsert_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal", "2025-03-14.md")

	action, err := Insert(path, Heading("2025-03-14"), body)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if action != ActionCreate {
		t.Errorf("action = %q, want %q", action, ActionCreate)
	}

	want := "## Activity 2025-03-14\n\n" + body
	if got := readNote(t, path); got != want {
		t.Errorf("note = %q, want %q", got, want)
	}
}

func TestInsert_Appends(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{
			name:     "trailing newline",
			existing: "# Journal\n",
			want:     "# Journal\n\n## Activity 2025-03-14\n\n" + body,
		},
		{
			name:     "no trailing newline",
			existing: "# Journal",
			want:     "# Journal\n\n## Activity 2025-03-14\n\n" + body,
		},
		{
			name:     "other day present",
			existing: "## Activity 2025-03-13\n\n- old\n",
			want:     "## Activity 2025-03-13\n\n- old\n\n## Activity 2025-03-14\n\n" + body,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "note.md")
			os.WriteFile(path, []byte(tt.existing), 0o644)

			action, err := Insert(path, Heading("2025-03-14"), body)
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}
			if action != ActionAppend {
				t.Errorf("action = %q, want %q", action, ActionAppend)
			}
			if got := readNote(t, path); got != tt.want {
				t.Errorf("note = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInsert_ReplacesSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	existing := "# Journal\n\n## Activity 2025-03-14\n\n- stale\n\n### Detail\nkept with section\n\n## Notes\nmine\n"
	os.WriteFile(path, []byte(existing), 0o644)

	action, err := Insert(path, Heading("2025-03-14"), body)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if action != ActionReplace {
		t.Errorf("action = %q, want %q", action, ActionReplace)
	}

	want := "# Journal\n\n## Activity 2025-03-14\n\n" + body + "\n## Notes\nmine\n"
	if got := readNote(t, path); got != want {
		t.Errorf("note = %q, want %q", got, want)
	}
}

func TestInsert_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	os.WriteFile(path, []byte("# Journal\n"), 0o644)

	if _, err := Insert(path, Heading("2025-03-14"), body); err != nil {
		t.Fatal(err)
	}
	first := readNote(t, path)
	if _, err := Insert(path, Heading("2025-03-14"), body); err != nil {
		t.Fatal(err)
	}
	if second := readNote(t, path); second != first {
		t.Errorf("second insert changed note:\n%q\n%q", first, second)
	}
}

func TestInsert_IgnoresHeadingInFence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	existing := "```\n## Activity 2025-03-14\n```\n"
	os.WriteFile(path, []byte(existing), 0o644)

	action, err := Insert(path, Heading("2025-03-14"), body)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if action != ActionAppend {
		t.Errorf("action = %q, want %q", action, ActionAppend)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"# Title", 1},
		{"## Activity", 2},
		{"###### deep", 6},
		{"####### too deep", 0},
		{"#hashtag", 0},
		{"##", 0},
		{"plain", 0},
	}
	for _, tt := range tests {
		if got := headingLevel(tt.line); got != tt.want {
			t.Errorf("headingLevel(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}
