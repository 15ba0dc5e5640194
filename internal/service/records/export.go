package records

import (
	"strconv"
	"strings"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// ArticleCSVHeader is the header row of the article export.
var ArticleCSVHeader = []string{
	"Reference",
	"Designation",
	"Stock Sécurité",
	"Prix d'Achat HT (MAD)",
	"Prix de Vente HT (MAD)",
	"TVA (%)",
	"Prix d'Achat TTC (MAD)",
	"Prix de Vente TTC (MAD)",
	"Marge Bénéficiaire (%)",
	"Image URL",
}

// ArticleRows renders one row per article. Text cells are strings and
// numeric cells float64, so the same rows feed both the CSV and the
// spreadsheet export.
func ArticleRows(articles []models.Article) [][]any {
	rows := make([][]any, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []any{
			a.Reference,
			a.Designation,
			float64(a.StockSecurite.Int()),
			a.PrixDAchatHT.Float(),
			a.PrixDeVenteHT.Float(),
			a.TVA.Float(),
			PriceWithTax(a.PrixDAchatHT.Float(), a.TVA.Float()),
			PriceWithTax(a.PrixDeVenteHT.Float(), a.TVA.Float()),
			ArticleProfitMargin(a),
			a.Image,
		})
	}
	return rows
}

// ArticlesCSV renders the header plus one line per article, quoting text
// cells. An empty collection yields "".
func ArticlesCSV(articles []models.Article) string {
	if len(articles) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(ArticleCSVHeader, ","))
	for _, row := range ArticleRows(articles) {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			switch v := cell.(type) {
			case string:
				b.WriteString(quote(v))
			case float64:
				b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
			}
		}
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
