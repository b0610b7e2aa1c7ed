package render

import (
	"io"
	"io/fs"
	"strings"
	"testing"
)

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if entry.Name() == "layout.html" {
			continue
		}
		if _, ok := r.pages[entry.Name()]; !ok {
			t.Errorf("page %s not registered", entry.Name())
		}
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Render(io.Discard, "nope.html", nil, nil); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}

func TestStatic_ServesStylesheet(t *testing.T) {
	data, err := fs.ReadFile(Static(), "style.css")
	if err != nil {
		t.Fatalf("style.css missing: %v", err)
	}
	if !strings.Contains(string(data), "body") {
		t.Error("stylesheet looks empty")
	}
}
