package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/erdgeo/pkg/emit"
	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/geometry"
	"github.com/matzehuels/erdgeo/pkg/mcd"
	"github.com/matzehuels/erdgeo/pkg/observability"
	"github.com/matzehuels/erdgeo/pkg/output"
	"github.com/matzehuels/erdgeo/pkg/relations"
)

const listing = `# two entities
size 400 300
row
box entity CLIENT 10 20 100 50 : id, name
leg PASSER,CLIENT,0 0.25 arrow
box phantom _1 120 20 0 0
leg DF,_1,0 3
row
box entity COMMANDE 10 100 81 41 : num
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.mcd")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateImageFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"nodebox", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateImageFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateImageFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateImageFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateTarget(t *testing.T) {
	if err := ValidateTarget("go"); err != nil {
		t.Errorf("go target should pass: %v", err)
	}
	if err := ValidateTarget("rust"); err == nil {
		t.Error("unknown target should fail")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "dir/diagram.mcd"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	want := Options{
		Input:       "dir/diagram.mcd",
		OutputBase:  "dir/diagram",
		ImageFormat: "svg",
		Target:      "python",
		Colors:      "bw",
		Shapes:      "copperplate",
		Encodings:   []string{"utf-8", "macroman"},
		validated:   true,
	}
	if diff := cmp.Diff(want, opts, cmp.AllowUnexported(Options{})); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidInput},
		{"directory base", Options{Input: "a.mcd", OutputBase: "out/"}, errors.ErrCodeInvalidPath},
		{"bad format", Options{Input: "a.mcd", ImageFormat: "gif"}, errors.ErrCodeInvalidFormat},
		{"bad target", Options{Input: "a.mcd", Target: "rust"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: "a.mcd", Target: "go"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	before := opts.OutputBase
	opts.Target = "rust" // not revalidated
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.OutputBase != before {
		t.Error("OutputBase changed on second call")
	}
}

func TestDefaultOutputBase(t *testing.T) {
	tests := map[string]string{
		"diagram.mcd":        "diagram",
		"dir/diagram.v2.mcd": "dir/diagram.v2",
		"noext":              "noext",
	}
	for in, want := range tests {
		if got := DefaultOutputBase(in); got != want {
			t.Errorf("DefaultOutputBase(%q) = %q, want %q", in, got, want)
		}
	}
}

type stageRecorder struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	starts []string
	ends   []string
}

func (h *stageRecorder) OnStageStart(_ context.Context, stage string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, stage)
}

func (h *stageRecorder) OnStageComplete(_ context.Context, stage string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, stage)
}

func TestExecute(t *testing.T) {
	hooks := &stageRecorder{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	in := writeInput(t, listing)
	rec := &output.Recorder{}
	r := NewRunner(nil, nil, rec, nil, nil)

	res, err := r.Execute(context.Background(), Options{Input: in, Relations: []string{"text", "missing"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	base := strings.TrimSuffix(in, ".mcd")
	if res.SourcePath != base+"_svg.py" {
		t.Errorf("SourcePath = %q", res.SourcePath)
	}
	if res.RunID == "" {
		t.Error("RunID not set")
	}
	if res.Encoding != "utf-8" {
		t.Errorf("Encoding = %q", res.Encoding)
	}
	if res.Stats.BoxCount != 3 || res.Stats.LegCount != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if v, _ := res.Record.CX.Get("CLIENT"); v != mcd.Int(60) {
		t.Errorf("cx[CLIENT] = %v, want 60", v)
	}

	src, err := os.ReadFile(res.SourcePath)
	if err != nil {
		t.Fatalf("generated source missing: %v", err)
	}
	if !strings.HasPrefix(string(src), "(width,height) = (400,300)\n") {
		t.Errorf("unexpected source:\n%s", src)
	}
	if string(src) != res.Source || res.Target != emit.TargetPython {
		t.Errorf("Result source/target do not match the written file (target %q)", res.Target)
	}

	if diff := cmp.Diff([]string{base + ".txt"}, res.SchemaPaths); diff != "" {
		t.Errorf("SchemaPaths mismatch (-want +got):\n%s", diff)
	}
	if rec.Count(output.LevelSuccess) != 2 || rec.Count(output.LevelWarning) != 1 {
		t.Errorf("notices = %+v", rec.Notices())
	}

	wantStages := []string{"style", "input", "parse", "geometry", "write", "relations"}
	if diff := cmp.Diff(wantStages, hooks.starts); diff != "" {
		t.Errorf("stage starts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantStages, hooks.ends); diff != "" {
		t.Errorf("stage ends mismatch (-want +got):\n%s", diff)
	}
	for _, s := range wantStages {
		if _, ok := res.Stats.Timings[s]; !ok {
			t.Errorf("no timing for stage %s", s)
		}
	}
}

func TestExecuteExtractGo(t *testing.T) {
	in := writeInput(t, listing)
	base := filepath.Join(filepath.Dir(in), "out")

	res, err := NewRunner(nil, nil, nil, nil, nil).Execute(context.Background(), Options{
		Input:       in,
		OutputBase:  base,
		Target:      "go",
		ImageFormat: "nodebox",
		Extract:     true,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.SourcePath != base+"_nodebox.go" {
		t.Errorf("SourcePath = %q", res.SourcePath)
	}
	got, err := geometry.Load(base + "_geo.json")
	if err != nil {
		t.Fatalf("geometry.Load() error: %v", err)
	}
	if diff := cmp.Diff(res.Record, got); diff != "" {
		t.Errorf("data file mismatch (-want +got):\n%s", diff)
	}
	if _, ok := got.Colors.Get("transparent_color"); !ok {
		t.Error("transparent_color missing from data file")
	}
}

func TestExecuteStyleFailureIsFatal(t *testing.T) {
	in := writeInput(t, listing)
	_, err := NewRunner(nil, nil, nil, nil, nil).Execute(context.Background(), Options{Input: in, Colors: "nope"})
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("Execute() = %v, want CONFIG", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(in, ".mcd") + "_svg.py"); !os.IsNotExist(err) {
		t.Error("source written despite style failure")
	}
}

func TestExecuteEncodingFailure(t *testing.T) {
	in := filepath.Join(t.TempDir(), "latin.mcd")
	if err := os.WriteFile(in, []byte("box entity \xe9 0 0 1 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewRunner(nil, nil, nil, nil, nil).Execute(context.Background(), Options{
		Input:     in,
		Encodings: []string{"utf-8", "ascii"},
	})
	if !errors.Is(err, errors.ErrCodeInputEncoding) {
		t.Fatalf("Execute() = %v, want INPUT_ENCODING", err)
	}
}

func TestExecuteSourceWriteFailureIsFatal(t *testing.T) {
	in := writeInput(t, listing)
	rec := &output.Recorder{}
	_, err := NewRunner(nil, nil, rec, nil, nil).Execute(context.Background(), Options{
		Input:      in,
		OutputBase: filepath.Join(filepath.Dir(in), "missing", "out"),
	})
	if !errors.Is(err, errors.ErrCodeOutputWrite) {
		t.Fatalf("Execute() = %v, want OUTPUT_WRITE", err)
	}
	if rec.Count(output.LevelFailure) != 1 {
		t.Errorf("notices = %+v", rec.Notices())
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil, nil, nil).Execute(ctx, Options{Input: writeInput(t, listing)})
	if err != context.Canceled {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestRelationsRenderFailure(t *testing.T) {
	in := writeInput(t, listing)
	failing := relations.RendererFunc(func(*mcd.Diagram, *relations.Template) (string, error) {
		return "", errors.New(errors.ErrCodeInternal, "boom")
	})
	res, err := NewRunner(nil, failing, nil, nil, nil).Relations(context.Background(), Options{
		Input:     in,
		Relations: []string{"markdown"},
	})
	if !errors.Is(err, errors.ErrCodeSchemaRender) {
		t.Fatalf("Relations() = %v, want SCHEMA_RENDER", err)
	}
	if res == nil {
		t.Fatal("Relations() returned no result")
	}
	if _, err := os.Stat(strings.TrimSuffix(in, ".mcd") + ".md"); err != nil {
		t.Errorf("placeholder missing: %v", err)
	}
	if _, err := os.Stat(strings.TrimSuffix(in, ".mcd") + "_svg.py"); !os.IsNotExist(err) {
		t.Error("relations-only run wrote drawing source")
	}
}

func TestExecuteCustomParser(t *testing.T) {
	in := writeInput(t, "anything")
	parser := mcd.ParserFunc(func(lines []string) (*mcd.Diagram, error) {
		return &mcd.Diagram{W: 1, H: 2}, nil
	})
	res, err := NewRunner(parser, nil, nil, nil, nil).Execute(context.Background(), Options{Input: in})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Record.Size != (geometry.Size{Width: 1, Height: 2}) {
		t.Errorf("Size = %+v", res.Record.Size)
	}
}
