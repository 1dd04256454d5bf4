package profile

import (
	"fmt"

	coreerrors "github.com/five82/probemap/internal/errors"
	"github.com/five82/probemap/internal/media"
	"github.com/five82/probemap/internal/rules"
)

// Match is the outcome of a successful selection.
type Match struct {
	Rule    string
	Profile *Profile
}

// Select returns the profile of the first rule whose criteria all match
// info. Rules are tried in file order. A rule configuration error aborts
// selection and is returned as is.
func (s *Set) Select(info media.MediaInfo, evaluator rules.Evaluator) (Match, bool, error) {
	if !info.Valid {
		return Match{}, false, coreerrors.NewInvalidMediaError(info.Path)
	}
	for _, rule := range s.rules {
		ok, err := ruleMatches(rule, info, evaluator)
		if err != nil {
			return Match{}, false, err
		}
		if ok {
			return Match{Rule: rule.Name, Profile: s.profiles[rule.Profile]}, true, nil
		}
		if evaluator.Verbose && evaluator.Diag != nil {
			evaluator.Diag.Verbose(fmt.Sprintf("rule %q skipped", rule.Name))
		}
	}
	return Match{}, false, nil
}

func ruleMatches(rule Rule, info media.MediaInfo, evaluator rules.Evaluator) (bool, error) {
	for _, attr := range rule.Attributes() {
		ok, err := evaluator.Evaluate(rule.Name, attr, rule.Criteria[attr], info)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
