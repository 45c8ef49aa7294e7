package tree

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/Uday9909/ExplainMyRepo/internal/archive"
)

func sampleEntries() []archive.Entry {
	return []archive.Entry{
		{Path: "demo/", IsDir: true},
		{Path: "demo/package.json", Size: 120},
		{Path: "demo/src/App.tsx", Size: 300},
		{Path: "demo/src/index.ts", Size: 40},
		{Path: "demo/Dockerfile", Size: 80},
		{Path: "demo/.github/workflows/ci.yml", Size: 60},
	}
}

func TestBuild(t *testing.T) {
	root := Build(sampleEntries())

	if len(root.Children) != 1 {
		t.Fatalf("root children = %d, expected 1", len(root.Children))
	}
	demo := root.Children[0]
	if demo.Name != "demo" || !demo.IsDir || demo.Path != "demo" {
		t.Errorf("demo = %+v, expected directory demo", demo)
	}

	var names []string
	for _, c := range demo.Children {
		names = append(names, c.Name)
	}
	expected := []string{".github", "src", "Dockerfile", "package.json"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("children = %v, expected %v", names, expected)
	}

	// .github/workflows was never listed as an entry
	workflows := demo.Children[0].Children[0]
	if workflows.Path != "demo/.github/workflows" || !workflows.IsDir {
		t.Errorf("workflows = %+v, expected implicit directory", workflows)
	}
}

func TestBuildEmpty(t *testing.T) {
	root := Build(nil)
	if !root.IsDir || len(root.Children) != 0 {
		t.Errorf("root = %+v, expected empty directory", root)
	}
	if rows := Flatten(root, nil); len(rows) != 0 {
		t.Errorf("rows = %d, expected 0", len(rows))
	}
}

func TestFlatten(t *testing.T) {
	root := Build(sampleEntries())

	rows := Flatten(root, nil)
	if len(rows) != 1 || rows[0].Node.Path != "demo" {
		t.Fatalf("collapsed rows = %v, expected only demo", rows)
	}

	rows = Flatten(root, map[string]bool{"demo": true, "demo/src": true})
	var got []string
	for _, r := range rows {
		got = append(got, strings.Repeat(" ", r.Depth)+r.Node.Name)
	}
	expected := []string{
		"demo",
		" .github",
		" src",
		"  App.tsx",
		"  index.ts",
		" Dockerfile",
		" package.json",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("rows = %q, expected %q", got, expected)
	}
}

func TestFiles(t *testing.T) {
	files := Files(Build(sampleEntries()))
	expected := []string{
		"demo/.github/workflows/ci.yml",
		"demo/src/App.tsx",
		"demo/src/index.ts",
		"demo/Dockerfile",
		"demo/package.json",
	}
	if !reflect.DeepEqual(files, expected) {
		t.Errorf("Files = %v, expected %v", files, expected)
	}
}

func TestFilter(t *testing.T) {
	paths := []string{"demo/src/App.tsx", "demo/package.json", "demo/Dockerfile"}

	if got := Filter(paths, ""); !reflect.DeepEqual(got, paths) {
		t.Errorf("Filter(\"\") = %v, expected all paths", got)
	}

	got := Filter(paths, "Dckr")
	if len(got) != 1 || got[0] != "demo/Dockerfile" {
		t.Errorf("Filter(Dckr) = %v, expected [demo/Dockerfile]", got)
	}

	if got := Filter(paths, "zzz"); len(got) != 0 {
		t.Errorf("Filter(zzz) = %v, expected none", got)
	}
}

func TestRender(t *testing.T) {
	root := Build([]archive.Entry{
		{Path: "app/main.go"},
		{Path: "app/internal/run.go"},
		{Path: "README.md"},
	})

	var buf bytes.Buffer
	if err := Render(&buf, root); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := "" +
		"├── app/\n" +
		"│   ├── internal/\n" +
		"│   │   └── run.go\n" +
		"│   └── main.go\n" +
		"└── README.md\n"
	if buf.String() != expected {
		t.Errorf("Render =\n%s\nexpected\n%s", buf.String(), expected)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.expected {
			t.Errorf("FormatSize(%d) = %q, expected %q", tt.bytes, got, tt.expected)
		}
	}
}
