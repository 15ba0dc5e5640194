// Package records holds the validation, derived-value and aggregation rules
// for article and client records. Nothing in here performs I/O.
package records

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// Rule names the check a field failed.
type Rule string

const (
	RuleRequired      Rule = "required"
	RuleFormat        Rule = "format"
	RuleTooShort      Rule = "too_short"
	RuleInvalid       Rule = "invalid"
	RuleBusiness      Rule = "business_rule"
	RuleInvalidURL    Rule = "invalid_url"
	RuleInvalidFormat Rule = "invalid_format"
)

// Violation is one failed field.
type Violation struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Violations maps a field name to its failure.
type Violations map[string]Violation

// Empty reports whether no field failed.
func (v Violations) Empty() bool { return len(v) == 0 }

// Messages flattens the violations into field -> message.
func (v Violations) Messages() map[string]string {
	out := make(map[string]string, len(v))
	for field, violation := range v {
		out[field] = violation.Message
	}
	return out
}

func (v Violations) add(field string, rule Rule, message string) {
	v[field] = Violation{Rule: rule, Message: message}
}

// Result is the outcome of validating one candidate record.
type Result struct {
	Valid  bool       `json:"isValid"`
	Errors Violations `json:"errors"`
}

// Err returns a KindValidation error when the result is invalid, nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return models.NewValidationError(r.Errors.Messages())
}

func result(v Violations) Result {
	return Result{Valid: v.Empty(), Errors: v}
}

// ValidReference reports whether a reference matches the accepted format.
func ValidReference(reference string) bool {
	return validate.Var(strings.TrimSpace(reference), "reference") == nil
}

// ValidateArticle checks every article field and returns all failures at once.
// The only cross-field rule is that the selling price must exceed the
// purchase price; it is reported on prixDeVenteHT.
func ValidateArticle(f models.Fields) Result {
	v := Violations{}

	check(v, f, models.FieldReference, "required,reference", outcomes{
		"required":  {RuleRequired, "Reference is required"},
		"reference": {RuleFormat, "Reference must be 2-20 alphanumeric characters"},
	})
	check(v, f, models.FieldDesignation, "required,min=2", outcomes{
		"required": {RuleRequired, "Designation is required"},
		"min":      {RuleTooShort, "Designation must be at least 2 characters"},
	})
	check(v, f, models.FieldStockSecurite, "required,number", outcomes{
		"required": {RuleRequired, "Stock sécurité is required"},
		"number":   {RuleInvalid, "Stock sécurité must be a positive number"},
	})

	purchase, purchaseOK := checkPrice(v, f, models.FieldPrixDAchatHT, "Prix d'achat HT")
	selling, sellingOK := checkPrice(v, f, models.FieldPrixDeVenteHT, "Prix de vente HT")
	if purchaseOK && sellingOK && purchase.GreaterThanOrEqual(selling) {
		if _, failed := v[models.FieldPrixDeVenteHT]; !failed {
			v.add(models.FieldPrixDeVenteHT, RuleBusiness, "Prix de vente must be higher than prix d'achat")
		}
	}

	if check(v, f, models.FieldTVA, "required", outcomes{"required": {RuleRequired, "TVA is required"}}) {
		if rate, ok := parseDecimal(f.Get(models.FieldTVA)); !ok || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			v.add(models.FieldTVA, RuleInvalid, "TVA must be between 0 and 100")
		}
	}

	check(v, f, models.FieldImage, "omitempty,url", outcomes{
		"url": {RuleInvalidURL, "Image must be a valid URL"},
	})

	return result(v)
}

// checkPrice validates a required non-negative decimal. The returned flag is
// true when the value parsed, even if it was negative, so the price
// comparison still runs.
func checkPrice(v Violations, f models.Fields, field, label string) (decimal.Decimal, bool) {
	if !check(v, f, field, "required", outcomes{"required": {RuleRequired, label + " is required"}}) {
		return decimal.Zero, false
	}
	price, ok := parseDecimal(f.Get(field))
	if !ok {
		v.add(field, RuleInvalid, label+" must be a positive number")
		return decimal.Zero, false
	}
	if price.IsNegative() {
		v.add(field, RuleInvalid, label+" must be a positive number")
	}
	return price, true
}

// ValidateClient checks every client field and returns all failures at once.
func ValidateClient(f models.Fields) Result {
	v := Violations{}

	check(v, f, models.FieldLastName, "required", outcomes{"required": {RuleRequired, "Last name is required"}})
	check(v, f, models.FieldEmail, "required,email,mailhost", outcomes{
		"required": {RuleRequired, "Email is required"},
		"email":    {RuleInvalidFormat, "Email is invalid"},
		"mailhost": {RuleInvalidFormat, "Email is invalid"},
	})
	check(v, f, models.FieldPhone, "required", outcomes{"required": {RuleRequired, "Phone is required"}})
	check(v, f, models.FieldAddress, "required", outcomes{"required": {RuleRequired, "Address is required"}})
	check(v, f, models.FieldEtat, "required,numeric", outcomes{
		"required": {RuleRequired, "État is required"},
		"numeric":  {RuleInvalid, "État must be a number"},
	})
	check(v, f, models.FieldICE, "required", outcomes{"required": {RuleRequired, "ICE is required"}})

	return result(v)
}

func parseDecimal(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
