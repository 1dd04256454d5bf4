// Package rules evaluates rule criteria against parsed media: a closed set
// of numeric attributes tested with ranges, equality or a comparison.
package rules

import (
	"errors"
	"fmt"
	"strconv"

	coreerrors "github.com/five82/probemap/internal/errors"
	"github.com/five82/probemap/internal/media"
	"github.com/five82/probemap/internal/reporter"
)

// Evaluator tests rule criteria. The zero value is usable and silent.
type Evaluator struct {
	// Verbose reports each criterion that fails to match.
	Verbose bool
	Diag    reporter.Diagnostics
}

// NewEvaluator creates an evaluator reporting to diag.
func NewEvaluator(verbose bool, diag reporter.Diagnostics) Evaluator {
	return Evaluator{Verbose: verbose, Diag: diag}
}

func (e Evaluator) diag() reporter.Diagnostics {
	if e.Diag == nil {
		return reporter.NullReporter{}
	}
	return e.Diag
}

// Evaluate reports whether info's attribute satisfies value.
//
// An unknown attribute or a malformed range is a rule configuration error
// (errors.KindRuleConfig) naming the rule. A value of no recognized form
// only fails this criterion: a warning is emitted and false returned.
func (e Evaluator) Evaluate(rule, attribute, value string, info media.MediaInfo) (bool, error) {
	if !info.Valid {
		return false, coreerrors.NewInvalidMediaError(info.Path)
	}

	attr, ok := ParseAttribute(attribute)
	if !ok {
		return false, coreerrors.NewUnknownAttributeError(rule, attribute)
	}

	expr, err := ParseExpression(value)
	if err != nil {
		if errors.Is(err, ErrBadRange) {
			return false, coreerrors.NewBadRangeError(rule, attribute, value)
		}
		e.diag().Warning(fmt.Sprintf("rule %q: invalid value for %s: %q", rule, attribute, value))
		return false, nil
	}

	actual := attr.Value(info)
	if expr.Scaled(attr.scale()).Matches(actual) {
		return true, nil
	}

	if e.Verbose {
		e.diag().Verbose(fmt.Sprintf("  >> predicate %s (%q) did not match %s",
			attribute, value, strconv.FormatFloat(actual, 'f', -1, 64)))
	}
	return false, nil
}
