// Package validation checks records against per-type rule tables.
//
// A rule table lists, for each field, the go-playground/validator tags to
// enforce and the message reported for each tag. Records expose their
// values through accessor funcs, so no struct tags or reflection over the
// record itself are involved.
package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// LimitPlaceholder is replaced by the tag parameter in rule messages.
const LimitPlaceholder = "{{ limit }}"

var validate *validator.Validate

func init() {
	validate = validator.New()
	mustRegister("decimal_gt", decimalCompare(func(v, limit decimal.Decimal) bool { return v.GreaterThan(limit) }))
	mustRegister("decimal_lt", decimalCompare(func(v, limit decimal.Decimal) bool { return v.LessThan(limit) }))
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// decimalCompare validates a decimal string field against the tag param.
func decimalCompare(cmp func(v, limit decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		limit, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return cmp(v, limit)
	}
}

// Violation is one failed constraint on one field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations is the list of failed constraints for a record.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		parts = append(parts, violation.Field+": "+violation.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns v as an error, or nil when there is nothing to report.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Field reports the violation for field, if any.
func (v Violations) Field(field string) (Violation, bool) {
	for _, violation := range v {
		if violation.Field == field {
			return violation, true
		}
	}
	return Violation{}, false
}

// AsViolations extracts Violations from an error chain.
func AsViolations(err error) (Violations, bool) {
	var v Violations
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// Rule binds validator tags to one field of T.
type Rule[T any] struct {
	Field string
	Tags  string
	Value func(T) any
	// Other, when set, is the comparison value for cross-field tags
	// such as gtefield.
	Other func(T) any
	// Skip disables the rule for records where it does not apply.
	Skip func(T) bool
	// Limit overrides the tag parameter substituted into messages.
	Limit    func(T) string
	Messages map[string]string
}

// Rules is an ordered rule table. At most one violation is reported per
// rule: the first failing tag wins.
type Rules[T any] []Rule[T]

// Validate runs every rule against rec.
func (rs Rules[T]) Validate(rec T) Violations {
	var out Violations
	for _, rule := range rs {
		if rule.Skip != nil && rule.Skip(rec) {
			continue
		}

		var err error
		if rule.Other != nil {
			err = validate.VarWithValue(rule.Value(rec), rule.Other(rec), rule.Tags)
		} else {
			err = validate.Var(rule.Value(rec), rule.Tags)
		}
		if err == nil {
			continue
		}

		out = append(out, Violation{Field: rule.Field, Message: rule.message(rec, err)})
	}
	return out
}

func (r Rule[T]) message(rec T, err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return DefaultMessage
	}

	fe := fieldErrs[0]
	msg, ok := r.Messages[fe.Tag()]
	if !ok {
		return DefaultMessage
	}

	limit := fe.Param()
	if r.Limit != nil {
		limit = r.Limit(rec)
	}
	return strings.ReplaceAll(msg, LimitPlaceholder, limit)
}

// DefaultMessage is reported for tags without a declared message.
const DefaultMessage = "Cette valeur n'est pas valide."
