package records

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("reference", isReference); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("mailhost", hasDottedDomain); err != nil {
		panic(err)
	}
	return v
}

// isReference accepts 2-20 ASCII letters, digits, underscores or dashes.
func isReference(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 2 || len(s) > 20 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// hasDottedDomain requires local@domain.tld: the domain holds a dot that is
// neither its first nor last character.
func hasDottedDomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// outcomes maps a failed validator tag to the violation reported for it.
type outcomes map[string]Violation

// check validates the trimmed field against tag and records the first
// failure. It reports whether the field passed.
func check(v Violations, f models.Fields, field, tag string, on outcomes) bool {
	err := validate.Var(strings.TrimSpace(f.Get(field)), tag)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if violation, ok := on[fieldErrs[0].Tag()]; ok {
			v[field] = violation
			return false
		}
	}
	v.add(field, RuleInvalid, field+" is invalid")
	return false
}
