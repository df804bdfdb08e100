package diagfmt

import (
	"strings"
	"testing"

	"sift/internal/diag"
	"sift/internal/source"
)

func testBag(fs *source.FileSet) (*diag.Bag, source.FileID) {
	id := fs.AddVirtual("demo/a.txt", []byte("x := 1\n// TODO fix this\ny := 2\n"))

	bag := diag.NewBag(16)
	bag.Add(diag.New(diag.SevWarning, diag.CategoryPlugin, source.NewSpan(id, 10, 23), "unresolved TODO"))
	bag.Add(diag.NewVerbose(diag.CategoryPlugin, source.NewSpan(id, 10, 23), "no-todo logged: marker"))
	bag.Add(diag.NewError(diag.CategoryIO, source.Span{}, "failed to load file: gone"))
	return bag, id
}

func TestPrettyHeaderAndUnderline(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := testBag(fs)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	out := sb.String()

	if !strings.Contains(out, "demo/a.txt:2:4: WARNING plugin: unresolved TODO") {
		t.Errorf("missing header line in output:\n%s", out)
	}
	if !strings.Contains(out, "// TODO fix this") {
		t.Errorf("missing source line in output:\n%s", out)
	}
	// 13-byte span starting at column 4, indented by the source-line margin
	// plus three prefix characters.
	if !strings.Contains(out, "     ^~~~~~~~~~~~") {
		t.Errorf("missing underline in output:\n%s", out)
	}
}

func TestPrettyHidesVerboseByDefault(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := testBag(fs)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	if strings.Contains(sb.String(), "logged:") {
		t.Errorf("verbose diagnostic shown without ShowVerbose:\n%s", sb.String())
	}

	sb.Reset()
	Pretty(&sb, bag, fs, PrettyOpts{ShowVerbose: true})
	if !strings.Contains(sb.String(), "VERBOSE plugin: no-todo logged: marker") {
		t.Errorf("verbose diagnostic missing with ShowVerbose:\n%s", sb.String())
	}
}

func TestPrettyPositionlessDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	bag, _ := testBag(fs)

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{})
	if !strings.Contains(sb.String(), "ERROR io: failed to load file: gone") {
		t.Errorf("positionless diagnostic missing:\n%s", sb.String())
	}
	if strings.Contains(sb.String(), ":0:0") {
		t.Errorf("positionless diagnostic rendered a location:\n%s", sb.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("abc\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.CategoryPlugin, source.NewSpan(id, 0, 3), "main").
		WithNote(source.Span{}, "context here"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(sb.String(), "note: context here") {
		t.Errorf("note missing:\n%s", sb.String())
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.txt", []byte("one\ntwo\nthree\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.CategoryPlugin, source.NewSpan(id, 8, 13), "hit"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{Context: 2})
	out := sb.String()

	oneIdx := strings.Index(out, "one")
	twoIdx := strings.Index(out, "two")
	threeIdx := strings.Index(out, "three")
	if oneIdx < 0 || twoIdx < 0 || threeIdx < 0 {
		t.Fatalf("context lines missing:\n%s", out)
	}
	if !(oneIdx < twoIdx && twoIdx < threeIdx) {
		t.Errorf("context lines out of order:\n%s", out)
	}
}
