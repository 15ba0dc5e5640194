package models

// Article is an inventory item as exchanged with the REST backend.
type Article struct {
	ID            ID     `json:"id,omitempty" bson:"id,omitempty"`
	Reference     string `json:"reference" bson:"reference"`
	Designation   string `json:"designation" bson:"designation"`
	StockSecurite Number `json:"stockSecurite" bson:"stock_securite"`
	PrixDAchatHT  Number `json:"prixDAchatHT" bson:"prix_achat_ht"`
	PrixDeVenteHT Number `json:"prixDeVenteHT" bson:"prix_vente_ht"`
	TVA           Number `json:"tva" bson:"tva"`
	Image         string `json:"image,omitempty" bson:"image,omitempty"`
}

// Article form field names.
const (
	FieldReference     = "reference"
	FieldDesignation   = "designation"
	FieldStockSecurite = "stockSecurite"
	FieldPrixDAchatHT  = "prixDAchatHT"
	FieldPrixDeVenteHT = "prixDeVenteHT"
	FieldTVA           = "tva"
	FieldImage         = "image"
)

// Key returns the server identifier as a string.
func (a Article) Key() string { return string(a.ID) }
