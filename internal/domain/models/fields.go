package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Fields is a candidate record as typed into a form: every value is a string
// until it has been validated and coerced.
type Fields map[string]string

// Get returns the raw value of a field, empty when absent.
func (f Fields) Get(name string) string {
	if f == nil {
		return ""
	}
	return f[name]
}

// Has reports whether the field carries a non-blank value.
func (f Fields) Has(name string) bool {
	return strings.TrimSpace(f.Get(name)) != ""
}

// FieldsFromJSON flattens a decoded JSON object into form fields. Browsers
// send numbers for numeric inputs, so they are rendered back into their
// shortest decimal form. Nulls become empty strings.
func FieldsFromJSON(payload map[string]any) Fields {
	fields := make(Fields, len(payload))
	for key, value := range payload {
		switch v := value.(type) {
		case nil:
			fields[key] = ""
		case string:
			fields[key] = v
		case float64:
			fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			fields[key] = strconv.FormatBool(v)
		default:
			fields[key] = fmt.Sprint(v)
		}
	}
	return fields
}

// ArticleFields renders an article back into form fields, used to
// pre-populate edit forms.
func ArticleFields(a Article) Fields {
	return Fields{
		FieldReference:     a.Reference,
		FieldDesignation:   a.Designation,
		FieldStockSecurite: a.StockSecurite.String(),
		FieldPrixDAchatHT:  a.PrixDAchatHT.String(),
		FieldPrixDeVenteHT: a.PrixDeVenteHT.String(),
		FieldTVA:           a.TVA.String(),
		FieldImage:         a.Image,
	}
}

// ClientFields renders a client back into form fields.
func ClientFields(c Client) Fields {
	return Fields{
		FieldLastName: c.LastName,
		FieldEmail:    c.Email,
		FieldPhone:    c.Phone,
		FieldAddress:  c.Address,
		FieldEtat:     c.Etat,
		FieldICE:      c.ICE,
	}
}
