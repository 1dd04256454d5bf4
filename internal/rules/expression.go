package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Operator tags the shape of a parsed value expression.
type Operator int

const (
	OpRange Operator = iota
	OpEqual
	OpLess
	OpGreater
)

func (o Operator) String() string {
	switch o {
	case OpRange:
		return "range"
	case OpEqual:
		return "=="
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	default:
		return "unknown"
	}
}

var (
	// ErrBadRange indicates a range expression without exactly two numeric bounds.
	ErrBadRange = errors.New("bad range expression")

	// ErrUnrecognized indicates a value expression of none of the known forms.
	ErrUnrecognized = errors.New("unrecognized value expression")
)

// Expression is a parsed rule value: an inclusive range [Low, High], an
// equality test against Low, or a single comparison against Low.
type Expression struct {
	Op   Operator
	Low  float64
	High float64
}

// ParseExpression parses a value expression in rule units.
//
//	"90-120"  inclusive range
//	"1080"    equality
//	"<720"    comparison, also ">"
func ParseExpression(value string) (Expression, error) {
	switch {
	case strings.Contains(value, "-"):
		parts := strings.Split(value, "-")
		if len(parts) != 2 {
			return Expression{}, fmt.Errorf("%w: %q", ErrBadRange, value)
		}
		low, errLow := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		high, errHigh := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLow != nil || errHigh != nil {
			return Expression{}, fmt.Errorf("%w: %q", ErrBadRange, value)
		}
		return Expression{Op: OpRange, Low: low, High: high}, nil

	case isDigits(value):
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
		}
		return Expression{Op: OpEqual, Low: n}, nil

	case strings.HasPrefix(value, "<"), strings.HasPrefix(value, ">"):
		n, err := strconv.ParseFloat(strings.TrimSpace(value[1:]), 64)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
		}
		op := OpLess
		if value[0] == '>' {
			op = OpGreater
		}
		return Expression{Op: op, Low: n}, nil
	}

	return Expression{}, fmt.Errorf("%w: %q", ErrUnrecognized, value)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Scaled returns the expression with every bound multiplied by factor.
func (e Expression) Scaled(factor float64) Expression {
	return Expression{Op: e.Op, Low: e.Low * factor, High: e.High * factor}
}

// Matches evaluates the expression against v.
func (e Expression) Matches(v float64) bool {
	switch e.Op {
	case OpRange:
		return e.Low <= v && v <= e.High
	case OpEqual:
		return v == e.Low
	case OpLess:
		return v < e.Low
	case OpGreater:
		return v > e.Low
	default:
		return false
	}
}
