// Package output writes generated files and reports the outcome to the user.
//
// File names follow fixed conventions derived from an output base:
//
//	<base>_<format><ext>   generated drawing source (GeneratedPath)
//	<base>_geo.json        standalone geometry data file (GeometryPath)
//	<base><ext>            relational schema (SchemaPath)
//
// Every notice goes through a [Reporter], already localized by the injected
// printer. The CLI reporter renders them with lipgloss; library callers can
// use [Discard] or collect them with a [Recorder].
package output

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/i18n"
	"github.com/matzehuels/erdgeo/pkg/observability"
)

// GeometrySuffix names the standalone geometry data file.
const GeometrySuffix = "_geo.json"

// GeneratedPath returns the path of the generated drawing source.
func GeneratedPath(base, format, ext string) string {
	return base + "_" + format + ext
}

// GeometryPath returns the path of the geometry data file.
func GeometryPath(base string) string {
	return base + GeometrySuffix
}

// SchemaPath returns the path of a relational schema file.
func SchemaPath(base, ext string) string {
	return base + ext
}

// Reporter is the user-facing channel.
type Reporter interface {
	Success(msg string)
	Warning(msg string)
	Failure(msg string)
}

// Discard drops every notice.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Warning(string) {}
func (discard) Failure(string) {}

// Level classifies a recorded notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelFailure Level = "failure"
)

// Notice is one recorded message.
type Notice struct {
	Level   Level
	Message string
}

// Recorder keeps every notice in order. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: l, Message: msg})
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Warning(msg string) { r.add(LevelWarning, msg) }
func (r *Recorder) Failure(msg string) { r.add(LevelFailure, msg) }

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Count returns how many notices of level were recorded.
func (r *Recorder) Count(l Level) int {
	n := 0
	for _, nt := range r.Notices() {
		if nt.Level == l {
			n++
		}
	}
	return n
}

// Writer writes UTF-8 text files.
type Writer struct {
	Reporter Reporter
	Printer  i18n.Printer
	Logger   *log.Logger
}

// NewWriter creates a writer. Nil arguments select Discard, an English
// printer and the default logger.
func NewWriter(r Reporter, p i18n.Printer, logger *log.Logger) *Writer {
	if r == nil {
		r = Discard
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Writer{Reporter: r, Printer: i18n.OrDefault(p), Logger: logger}
}

// Write replaces the file at path with text and reports the outcome. The
// returned error is an OUTPUT_WRITE error; it has already been reported, and
// the caller decides whether it is fatal.
func (w *Writer) Write(path, text string) error {
	p := i18n.OrDefault(w.Printer)
	if err := w.Save(path, text); err != nil {
		w.reporter().Failure(p.Sprintf(i18n.MsgOutputFailed, path))
		return err
	}
	w.reporter().Success(p.Sprintf(i18n.MsgOutputGenerated, path))
	return nil
}

// TryWrite is Write for optional files: a failure is reported as a warning
// instead of a failure. The error is still returned so callers can log it.
func (w *Writer) TryWrite(path, text string) error {
	p := i18n.OrDefault(w.Printer)
	if err := w.Save(path, text); err != nil {
		w.reporter().Warning(p.Sprintf(i18n.MsgOutputFailed, path))
		return err
	}
	w.reporter().Success(p.Sprintf(i18n.MsgOutputGenerated, path))
	return nil
}

// Save replaces the file at path with text without reporting.
func (w *Writer) Save(path, text string) error {
	err := os.WriteFile(path, []byte(text), 0o644)
	observability.Output().OnWrite(path, len(text), err)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Debug("write failed", "path", path, "err", err)
		}
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}
	if w.Logger != nil {
		w.Logger.Debug("wrote file", "path", path, "bytes", len(text))
	}
	return nil
}

// Warning reports the localized message key through the writer's reporter.
func (w *Writer) Warning(key string, args ...any) string {
	msg := i18n.OrDefault(w.Printer).Sprintf(key, args...)
	w.reporter().Warning(msg)
	return msg
}

// Failure reports the localized message key through the writer's reporter.
func (w *Writer) Failure(key string, args ...any) string {
	msg := i18n.OrDefault(w.Printer).Sprintf(key, args...)
	w.reporter().Failure(msg)
	return msg
}

func (w *Writer) reporter() Reporter {
	if w.Reporter == nil {
		return Discard
	}
	return w.Reporter
}
