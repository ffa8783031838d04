// Package input reads diagram source files whose character encoding is not
// known in advance.
//
// A [Loader] holds an ordered list of candidate encodings. The file is read
// once and decoded with each candidate in turn; the first decode that
// succeeds wins. Decoding is strict: UTF-8 and ASCII reject invalid bytes,
// and any other encoding fails if it produces the replacement character.
//
// Once decoded, every double quote is removed and the text is split on
// newlines.
package input

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/i18n"
)

// DefaultEncodings is tried when a Loader has no encodings configured.
var DefaultEncodings = []string{"utf-8", "macroman"}

// Result is a decoded input file.
type Result struct {
	Encoding string   // the encoding that succeeded, as configured
	Lines    []string // quote-stripped lines
}

// Loader decodes input files.
type Loader struct {
	Encodings []string
	Printer   i18n.Printer
	Logger    *log.Logger
}

// NewLoader creates a loader for the given encodings.
// An empty list selects DefaultEncodings.
func NewLoader(encodings []string, p i18n.Printer, logger *log.Logger) *Loader {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Encodings: encodings, Printer: i18n.OrDefault(p), Logger: logger}
}

// Load reads path and decodes it with the first encoding that succeeds.
// It returns an INPUT_ENCODING error naming the path and every attempted
// encoding when none does, and FILE_NOT_FOUND when the file cannot be read.
func (l *Loader) Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return l.Decode(path, data)
}

// Decode runs the encoding search over data already in memory.
// name only labels messages.
func (l *Loader) Decode(name string, data []byte) (*Result, error) {
	encodings := l.Encodings
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}

	for _, enc := range encodings {
		text, err := decode(enc, data)
		if err != nil {
			logger.Debug("decode attempt failed", "path", name, "encoding", enc, "err", err)
			continue
		}
		logger.Debug("decoded input", "path", name, "encoding", enc)
		return &Result{Encoding: enc, Lines: Split(text)}, nil
	}

	msg := i18n.OrDefault(l.Printer).Sprintf(i18n.MsgEncodingFailure, name, strings.Join(encodings, ", "))
	return nil, errors.New(errors.ErrCodeInputEncoding, "%s", msg)
}

// Split removes double quotes and splits on newline boundaries.
func Split(text string) []string {
	return strings.Split(strings.ReplaceAll(text, `"`, ""), "\n")
}

var aliases = map[string]encoding.Encoding{
	"latin-1":    charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"latin-9":    charmap.ISO8859_15,
	"macroman":   charmap.Macintosh,
	"mac-roman":  charmap.Macintosh,
	"mac_roman":  charmap.Macintosh,
	"cp1252":     charmap.Windows1252,
	"cp850":      charmap.CodePage850,
	"cp437":      charmap.CodePage437,
	"utf-16":     unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM),
	"utf-16le":   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":   unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

func decode(name string, data []byte) (string, error) {
	switch key := strings.ToLower(name); key {
	case "utf-8", "utf8", "utf-8-sig":
		data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
		if !utf8.Valid(data) {
			return "", errors.New(errors.ErrCodeInputEncoding, "invalid UTF-8")
		}
		return string(data), nil
	case "ascii", "us-ascii":
		for i, c := range data {
			if c >= utf8.RuneSelf {
				return "", errors.New(errors.ErrCodeInputEncoding, "non-ASCII byte at offset %d", i)
			}
		}
		return string(data), nil
	}

	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errors.New(errors.ErrCodeInputEncoding, "undecodable bytes for %s", name)
	}
	return string(out), nil
}

func lookup(name string) (encoding.Encoding, error) {
	if enc, ok := aliases[strings.ToLower(name)]; ok {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputEncoding, err, "unknown encoding %q", name)
	}
	if enc == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported encoding %q", name)
	}
	return enc, nil
}
