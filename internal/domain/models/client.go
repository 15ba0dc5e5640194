package models

// Client is a customer record. Etat stays a numeric string because the
// backend stores it that way.
type Client struct {
	ID       ID     `json:"id,omitempty" bson:"id,omitempty"`
	LastName string `json:"lastName" bson:"last_name"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Address  string `json:"address" bson:"address"`
	Etat     string `json:"etat" bson:"etat"`
	ICE      string `json:"ice" bson:"ice"`
}

// Client form field names.
const (
	FieldLastName = "lastName"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldAddress  = "address"
	FieldEtat     = "etat"
	FieldICE      = "ice"
)

// Key returns the server identifier as a string.
func (c Client) Key() string { return string(c.ID) }
