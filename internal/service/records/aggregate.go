package records

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// Direction orders a sort.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts asc/ascending and desc/descending, defaulting to Ascending.
func ParseDirection(raw string) Direction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// Sort keys. Article and client keys share one namespace.
const (
	SortByReference     = "reference"
	SortByDesignation   = "designation"
	SortByStockSecurite = "stockSecurite"
	SortByPrixDAchatHT  = "prixDAchatHT"
	SortByPrixDeVenteHT = "prixDeVenteHT"
	SortByTVA           = "tva"
	SortByProfitMargin  = "profitMargin"

	SortByLastName = "lastName"
	SortByEmail    = "email"
	SortByPhone    = "phone"
	SortByAddress  = "address"
	SortByEtat     = "etat"
	SortByICE      = "ice"
)

type sortKey[T any] struct {
	text   func(T) string
	number func(T) float64
}

func (k sortKey[T]) compare(a, b T) int {
	if k.number != nil {
		return cmp.Compare(k.number(a), k.number(b))
	}
	return strings.Compare(strings.ToLower(k.text(a)), strings.ToLower(k.text(b)))
}

var articleSortKeys = map[string]sortKey[models.Article]{
	SortByReference:     {text: func(a models.Article) string { return a.Reference }},
	SortByDesignation:   {text: func(a models.Article) string { return a.Designation }},
	SortByStockSecurite: {number: func(a models.Article) float64 { return float64(a.StockSecurite.Int()) }},
	SortByPrixDAchatHT:  {number: func(a models.Article) float64 { return a.PrixDAchatHT.Float() }},
	SortByPrixDeVenteHT: {number: func(a models.Article) float64 { return a.PrixDeVenteHT.Float() }},
	SortByTVA:           {number: func(a models.Article) float64 { return a.TVA.Float() }},
	SortByProfitMargin:  {number: ArticleProfitMargin},
}

var clientSortKeys = map[string]sortKey[models.Client]{
	SortByLastName: {text: func(c models.Client) string { return c.LastName }},
	SortByEmail:    {text: func(c models.Client) string { return c.Email }},
	SortByPhone:    {text: func(c models.Client) string { return c.Phone }},
	SortByAddress:  {text: func(c models.Client) string { return c.Address }},
	SortByICE:      {text: func(c models.Client) string { return c.ICE }},
	SortByEtat:     {number: func(c models.Client) float64 { return models.ParseNumber(c.Etat) }},
}

// SortArticles returns a stably sorted copy. An unknown key keeps the input order.
func SortArticles(articles []models.Article, key string, dir Direction) []models.Article {
	return sortBy(articles, articleSortKeys, key, dir)
}

// SortClients returns a stably sorted copy. An unknown key keeps the input order.
func SortClients(clients []models.Client, key string, dir Direction) []models.Client {
	return sortBy(clients, clientSortKeys, key, dir)
}

func sortBy[T any](items []T, keys map[string]sortKey[T], key string, dir Direction) []T {
	if items == nil {
		return nil
	}
	out := slices.Clone(items)
	k, ok := keys[key]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		if dir == Descending {
			return k.compare(b, a)
		}
		return k.compare(a, b)
	})
	return out
}

// FilterArticles keeps articles whose reference or designation contains the
// term, case-insensitively. A blank term returns the input itself.
func FilterArticles(articles []models.Article, term string) []models.Article {
	return filterBy(articles, term, func(a models.Article) []string {
		return []string{a.Reference, a.Designation}
	})
}

// FilterClients matches against lastName, email, phone, address and ice.
func FilterClients(clients []models.Client, term string) []models.Client {
	return filterBy(clients, term, func(c models.Client) []string {
		return []string{c.LastName, c.Email, c.Phone, c.Address, c.ICE}
	})
}

func filterBy[T any](items []T, term string, fields func(T) []string) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// ArticleProfitMargin is the margin computed from the article's own prices.
func ArticleProfitMargin(a models.Article) float64 {
	return ProfitMarginPercent(a.PrixDeVenteHT.Float(), a.PrixDAchatHT.Float())
}

// Statistics aggregates an article collection. The schema carries no on-hand
// quantity distinct from stockSecurite, so LowStockCount stays 0 here; use
// StatisticsWithStock when current quantities are known.
func Statistics(articles []models.Article) models.ArticleStatistics {
	return statistics(articles, nil)
}

// StatisticsWithStock is Statistics with the low-stock count computed from
// the supplied on-hand quantities, keyed by article id. An article missing
// from onHand has unknown stock and counts as low.
func StatisticsWithStock(articles []models.Article, onHand map[string]int) models.ArticleStatistics {
	if onHand == nil {
		onHand = map[string]int{}
	}
	return statistics(articles, onHand)
}

func statistics(articles []models.Article, onHand map[string]int) models.ArticleStatistics {
	if len(articles) == 0 {
		return models.ArticleStatistics{}
	}

	var purchase, selling, margins, inventory float64
	lowStock := 0
	for _, a := range articles {
		purchase += a.PrixDAchatHT.Float()
		selling += a.PrixDeVenteHT.Float()
		margins += ArticleProfitMargin(a)
		inventory += a.PrixDAchatHT.Float() * float64(a.StockSecurite.Int())

		if onHand != nil {
			current := ""
			if qty, ok := onHand[a.Key()]; ok {
				current = strconv.Itoa(qty)
			}
			if IsLowStock(current, strconv.Itoa(a.StockSecurite.Int())) {
				lowStock++
			}
		}
	}

	count := float64(len(articles))
	return models.ArticleStatistics{
		TotalArticles:        len(articles),
		AveragePurchasePrice: Round2(purchase / count),
		AverageSellingPrice:  Round2(selling / count),
		AverageProfitMargin:  Round2(margins / count),
		LowStockCount:        lowStock,
		TotalInventoryValue:  Round2(inventory),
	}
}

// ClientStats aggregates the client collection's etat amounts.
func ClientStats(clients []models.Client) models.ClientStatistics {
	if len(clients) == 0 {
		return models.ClientStatistics{}
	}
	var total float64
	for _, c := range clients {
		total += models.ParseNumber(c.Etat)
	}
	return models.ClientStatistics{
		TotalClients: len(clients),
		TotalEtat:    Round2(total),
		AverageEtat:  Round2(total / float64(len(clients))),
	}
}

// IsLowStock reports whether the current stock is at or under the threshold.
// Unparseable current stock counts as low; an unparseable threshold never does.
func IsLowStock(currentStock, securityStock string) bool {
	current, ok := parseInteger(currentStock)
	if !ok {
		return true
	}
	threshold, ok := parseInteger(securityStock)
	if !ok {
		return false
	}
	return current <= threshold
}

// StockLevel describes where current stock stands against its threshold.
type StockLevel struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Stock level statuses.
const (
	StockUnknown = "unknown"
	StockOut     = "out"
	StockLow     = "low"
	StockGood    = "good"
)

// StockStatus classifies current stock against the security threshold.
func StockStatus(currentStock, securityStock string) StockLevel {
	current, ok := parseInteger(currentStock)
	if !ok {
		return StockLevel{Status: StockUnknown, Message: "Stock unknown"}
	}
	threshold, _ := parseInteger(securityStock)
	switch {
	case current == 0:
		return StockLevel{Status: StockOut, Message: "Out of stock"}
	case current <= threshold:
		return StockLevel{Status: StockLow, Message: "Low stock"}
	default:
		return StockLevel{Status: StockGood, Message: "In stock"}
	}
}

func parseInteger(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return int(v), true
}
