package mcd

import (
	"strconv"
	"strings"

	"github.com/matzehuels/erdgeo/pkg/errors"
)

// ListingParser reads a placement listing: an already laid-out diagram,
// one directive per line.
//
//	# comment (also %)
//	size W H
//	row
//	box KIND NAME X Y W H [: attr, attr, ...]
//	leg ID VALUE [arrow]
//
// A leg attaches to the most recent box. A box before any "row" directive
// opens the first row implicitly. VALUE is parsed with [ParseValue].
type ListingParser struct{}

// Parse implements Parser.
func (ListingParser) Parse(lines []string) (*Diagram, error) {
	d := &Diagram{}
	var current *Box
	rowOpen := false

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "size":
			if len(fields) != 3 {
				return nil, syntaxError(lineNo, "size expects 2 integers")
			}
			w, h, err := atoi2(fields[1], fields[2])
			if err != nil {
				return nil, syntaxError(lineNo, "size: %v", err)
			}
			d.W, d.H = w, h

		case "row":
			d.Rows = append(d.Rows, nil)
			rowOpen = true

		case "box":
			b, err := parseBox(line)
			if err != nil {
				return nil, syntaxError(lineNo, "%s", errors.UserMessage(err))
			}
			if !rowOpen {
				d.Rows = append(d.Rows, nil)
				rowOpen = true
			}
			last := len(d.Rows) - 1
			d.Rows[last] = append(d.Rows[last], b)
			current = b

		case "leg":
			if current == nil {
				return nil, syntaxError(lineNo, "leg before any box")
			}
			leg, err := parseLeg(fields[1:])
			if err != nil {
				return nil, syntaxError(lineNo, "%s", errors.UserMessage(err))
			}
			current.Legs = append(current.Legs, leg)

		default:
			return nil, syntaxError(lineNo, "unknown directive %q", fields[0])
		}
	}

	return d, nil
}

func parseBox(line string) (*Box, error) {
	head, attrs, hasAttrs := strings.Cut(line, ":")
	fields := strings.Fields(head)
	if len(fields) != 7 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "box expects KIND NAME X Y W H")
	}

	nums := make([]int, 4)
	for i, f := range fields[3:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "box %s: %q is not an integer", fields[2], f)
		}
		nums[i] = n
	}

	b := &Box{
		Kind: fields[1],
		Name: fields[2],
		X:    nums[0],
		Y:    nums[1],
		W:    nums[2],
		H:    nums[3],
	}
	if hasAttrs {
		for _, a := range strings.Split(attrs, ",") {
			if a = strings.TrimSpace(a); a != "" {
				b.Attributes = append(b.Attributes, a)
			}
		}
	}
	return b, nil
}

func parseLeg(fields []string) (StaticLeg, error) {
	switch {
	case len(fields) == 2:
	case len(fields) == 3 && fields[2] == "arrow":
	default:
		return StaticLeg{}, errors.New(errors.ErrCodeInvalidInput, "leg expects ID VALUE [arrow]")
	}
	return StaticLeg{
		ID:       fields[0],
		Offset:   ParseValue(fields[1]),
		HasArrow: len(fields) == 3,
	}, nil
}

func atoi2(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func syntaxError(line int, format string, args ...any) error {
	e := errors.New(errors.ErrCodeInvalidInput, format, args...)
	e.Message = "line " + strconv.Itoa(line) + ": " + e.Message
	return e
}
