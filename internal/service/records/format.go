package records

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// FormatCurrency renders an amount in dirhams, e.g. "12.50 MAD".
func FormatCurrency(amount float64) string {
	if !finite(amount) {
		amount = 0
	}
	return fmt.Sprintf("%.2f MAD", Round2(amount))
}

// FormatPercentage renders a percentage, e.g. "12.50%".
func FormatPercentage(percentage float64) string {
	if !finite(percentage) {
		percentage = 0
	}
	return fmt.Sprintf("%.2f%%", Round2(percentage))
}

// SuggestReference proposes a reference from the designation's first three
// ASCII letters followed by a random four digit number.
func SuggestReference(designation string) string {
	if strings.TrimSpace(designation) == "" {
		return ""
	}
	var letters strings.Builder
	for _, r := range designation {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			letters.WriteRune(unicode.ToUpper(r))
			if letters.Len() == 3 {
				break
			}
		}
	}
	return fmt.Sprintf("%s%d", letters.String(), rand.Intn(9000)+1000)
}

// SanitizeArticle coerces form fields into an article. Strings are trimmed
// and unparseable numbers become 0; run ValidateArticle first.
func SanitizeArticle(f models.Fields) models.Article {
	stock, _ := parseInteger(f.Get(models.FieldStockSecurite))
	return models.Article{
		Reference:     strings.TrimSpace(f.Get(models.FieldReference)),
		Designation:   strings.TrimSpace(f.Get(models.FieldDesignation)),
		StockSecurite: models.Number(stock),
		PrixDAchatHT:  models.Number(models.ParseNumber(f.Get(models.FieldPrixDAchatHT))),
		PrixDeVenteHT: models.Number(models.ParseNumber(f.Get(models.FieldPrixDeVenteHT))),
		TVA:           models.Number(models.ParseNumber(f.Get(models.FieldTVA))),
		Image:         strings.TrimSpace(f.Get(models.FieldImage)),
	}
}

// SanitizeClient trims every client field.
func SanitizeClient(f models.Fields) models.Client {
	return models.Client{
		LastName: strings.TrimSpace(f.Get(models.FieldLastName)),
		Email:    strings.TrimSpace(f.Get(models.FieldEmail)),
		Phone:    strings.TrimSpace(f.Get(models.FieldPhone)),
		Address:  strings.TrimSpace(f.Get(models.FieldAddress)),
		Etat:     strings.TrimSpace(f.Get(models.FieldEtat)),
		ICE:      strings.TrimSpace(f.Get(models.FieldICE)),
	}
}

// BuildArticle validates and, when valid, sanitizes in one step.
func BuildArticle(f models.Fields) (models.Article, error) {
	if err := ValidateArticle(f).Err(); err != nil {
		return models.Article{}, err
	}
	return SanitizeArticle(f), nil
}

// BuildClient validates and, when valid, sanitizes in one step.
func BuildClient(f models.Fields) (models.Client, error) {
	if err := ValidateClient(f).Err(); err != nil {
		return models.Client{}, err
	}
	return SanitizeClient(f), nil
}
