package settings

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Rule is a cross-field constraint evaluated against the parsed parameters.
type Rule struct {
	// Expr is an expr-lang boolean expression over parameter names.
	Expr string
	// Param names the parameter reported when the rule fails.
	Param string
	// Message explains the constraint.
	Message string
}

type ruleSet struct {
	rules    []Rule
	once     sync.Once
	programs []*vm.Program
	err      error
}

func newRuleSet(rules ...Rule) *ruleSet {
	return &ruleSet{rules: rules}
}

func (rs *ruleSet) compile() error {
	rs.once.Do(func() {
		rs.programs = make([]*vm.Program, len(rs.rules))
		for i, r := range rs.rules {
			program, err := expr.Compile(r.Expr, expr.AsBool(), expr.AllowUndefinedVariables())
			if err != nil {
				rs.err = fmt.Errorf("invalid rule %q: %w", r.Expr, err)
				return
			}
			rs.programs[i] = program
		}
	})
	return rs.err
}

// check evaluates every rule and reports all failing ones.
func (rs *ruleSet) check(settingsKind string, values map[string]any) error {
	if err := rs.compile(); err != nil {
		return err
	}

	var errs FieldErrors
	for i, program := range rs.programs {
		output, err := expr.Run(program, values)
		if err != nil {
			errs = append(errs, &FieldError{
				Kind:    settingsKind,
				Param:   rs.rules[i].Param,
				Reason:  ReasonRule,
				Message: fmt.Sprintf("evaluating %q: %v", rs.rules[i].Expr, err),
			})
			continue
		}
		if ok, _ := output.(bool); !ok {
			errs = append(errs, &FieldError{
				Kind:    settingsKind,
				Param:   rs.rules[i].Param,
				Reason:  ReasonRule,
				Message: rs.rules[i].Message,
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Rules returns the cross-field rules of a settings kind.
func Rules(settingsKind string) []Rule {
	def, ok := variants[settingsKind]
	if !ok || def.rules == nil {
		return nil
	}
	return append([]Rule(nil), def.rules.rules...)
}
