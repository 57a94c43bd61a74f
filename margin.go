package snippets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidMargin is returned by ParseMargin for malformed input.
var ErrInvalidMargin = errors.New("invalid margin")

// Length is a distance in pixels or a percentage of a reference size.
type Length struct {
	Value   float64
	Percent bool
}

// resolve converts the length to pixels against ref.
func (l Length) resolve(ref float64) float64 {
	if l.Percent {
		return ref * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return v + "%"
	}
	return v + "px"
}

// Margin grows (or, with negative values, shrinks) an observation root on
// each side. Percentages on Top and Bottom refer to the root height, on
// Left and Right to the root width.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// Px returns a uniform pixel margin.
func Px(v float64) Margin {
	l := Length{Value: v}
	return Margin{Top: l, Right: l, Bottom: l, Left: l}
}

// Apply returns root expanded by the margin.
func (m Margin) Apply(root Rect) Rect {
	return root.Expand(
		m.Top.resolve(root.Height),
		m.Right.resolve(root.Width),
		m.Bottom.resolve(root.Height),
		m.Left.resolve(root.Width),
	)
}

// String formats the margin in four-value shorthand.
func (m Margin) String() string {
	return strings.Join([]string{m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String()}, " ")
}

// ParseMargin parses root-margin shorthand: one to four space separated
// values, each "<n>px", "<n>%" or "0". Like CSS, one value applies to all
// sides, two are vertical then horizontal, three are top, horizontal,
// bottom, and four go clockwise from the top.
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("parse margin %q: %w: want 1 to 4 values", s, ErrInvalidMargin)
	}
	vals := make([]Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("parse margin %q: %w", s, err)
		}
		vals[i] = l
	}
	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

func parseLength(s string) (Length, error) {
	var l Length
	num := s
	switch {
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		num = strings.TrimSuffix(s, "%")
		l.Percent = true
	case s == "0":
	default:
		return Length{}, fmt.Errorf("%w: %q needs a px or %% unit", ErrInvalidMargin, s)
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("%w: %q: %v", ErrInvalidMargin, s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("%w: %q is not finite", ErrInvalidMargin, s)
	}
	l.Value = v
	return l, nil
}
