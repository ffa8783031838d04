package geometry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/erdgeo/pkg/mcd"
)

// Marshal encodes r as the geometry data file:
//
//	{"size": [w, h], "cx": {...}, "cy": {...}, "k": {...}, "t": {...}, "colors": {...}}
//
// Mappings are JSON objects whose keys keep the record order. Floats always
// carry a fractional part or exponent so that [Unmarshal] restores their kind.
// Non-ASCII text is written verbatim and HTML characters are not escaped.
func Marshal(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "{%q: [%d, %d]", EntrySize, r.Size.Width, r.Size.Height)
	for _, e := range r.Entries() {
		buf.WriteString(", ")
		if err := writeString(&buf, e.Name); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := writeMapping(&buf, e.Mapping); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func writeMapping(buf *bytes.Buffer, m Mapping) error {
	buf.WriteByte('{')
	for i, it := range m {
		if i > 0 {
			buf.WriteString(", ")
		}
		if err := writeString(buf, it.Key); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := writeValue(buf, it.Value); err != nil {
			return fmt.Errorf("key %q: %w", it.Key, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeValue(buf *bytes.Buffer, v mcd.Value) error {
	switch v.Kind() {
	case mcd.KindNull:
		buf.WriteString("null")
	case mcd.KindBool:
		buf.WriteString(strconv.FormatBool(v.AsBool()))
	case mcd.KindInt:
		buf.WriteString(strconv.Itoa(v.AsInt()))
	case mcd.KindFloat:
		s, err := formatFloat(v.AsFloat())
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case mcd.KindString:
		return writeString(buf, v.AsString())
	default:
		return fmt.Errorf("unknown value kind %s", v.Kind())
	}
	return nil
}

func formatFloat(f float64) (string, error) {
	// json.Marshal rejects NaN and infinities for us.
	if _, err := json.Marshal(f); err != nil {
		return "", err
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Unmarshal decodes a geometry data file. Unknown top-level keys are
// ignored; a missing entry decodes as an empty mapping.
func Unmarshal(data []byte) (*Record, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a geometry data file from rd.
func Decode(rd io.Reader) (*Record, error) {
	dec := json.NewDecoder(rd)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	r := &Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		switch key {
		case EntrySize:
			var size [2]int
			if err := dec.Decode(&size); err != nil {
				return nil, fmt.Errorf("size: %w", err)
			}
			r.Size = Size{Width: size[0], Height: size[1]}
		case EntryCX, EntryCY, EntryK, EntryT, EntryColors:
			m, err := decodeMapping(dec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			*r.entry(key) = m
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return r, nil
}

// Load reads the geometry data file at path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return r, nil
}

func (r *Record) entry(name string) *Mapping {
	switch name {
	case EntryCX:
		return &r.CX
	case EntryCY:
		return &r.CY
	case EntryK:
		return &r.K
	case EntryT:
		return &r.T
	default:
		return &r.Colors
	}
}

func decodeMapping(dec *json.Decoder) (Mapping, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var m Mapping
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected key, got %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		v, err := tokenValue(tok)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		m = append(m, Item{Key: key, Value: v})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return m, nil
}

func tokenValue(tok json.Token) (mcd.Value, error) {
	switch x := tok.(type) {
	case nil:
		return mcd.Null(), nil
	case bool:
		return mcd.Bool(x), nil
	case string:
		return mcd.String(x), nil
	case json.Number:
		if strings.ContainsAny(x.String(), ".eE") {
			f, err := x.Float64()
			return mcd.Float(f), err
		}
		i, err := strconv.Atoi(x.String())
		return mcd.Int(i), err
	default:
		return mcd.Value{}, fmt.Errorf("unexpected %v: values must be scalars", tok)
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
