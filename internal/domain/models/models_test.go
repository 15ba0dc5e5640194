package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleUnmarshal_TolerantNumbers(t *testing.T) {
	raw := `{"id": 42, "reference": "ABC", "stockSecurite": "5", "prixDAchatHT": 10.5,
		"prixDeVenteHT": "abc", "tva": null}`

	var a Article
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.Equal(t, ID("42"), a.ID)
	assert.Equal(t, "42", a.Key())
	assert.Equal(t, 5, a.StockSecurite.Int())
	assert.Equal(t, 10.5, a.PrixDAchatHT.Float())
	assert.Zero(t, a.PrixDeVenteHT)
	assert.Zero(t, a.TVA)
}

func TestIDUnmarshal(t *testing.T) {
	var c Client
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c-7","lastName":"Alaoui"}`), &c))
	assert.Equal(t, "c-7", c.Key())

	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &c))
	assert.Empty(t, c.Key())
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 12.5, ParseNumber(" 12.5 "))
	assert.Zero(t, ParseNumber("NaN"))
	assert.Zero(t, ParseNumber("Inf"))
	assert.Zero(t, ParseNumber(""))
	assert.Equal(t, "0.1", Number(0.1).String())
}

func TestFieldsFromJSON(t *testing.T) {
	fields := FieldsFromJSON(map[string]any{
		"reference":     "ABC",
		"prixDAchatHT":  12.5,
		"stockSecurite": float64(3),
		"image":         nil,
		"active":        true,
	})

	assert.Equal(t, "ABC", fields.Get("reference"))
	assert.Equal(t, "12.5", fields.Get("prixDAchatHT"))
	assert.Equal(t, "3", fields.Get("stockSecurite"))
	assert.Equal(t, "true", fields.Get("active"))
	assert.False(t, fields.Has("image"))
	assert.False(t, Fields(nil).Has("reference"))
}

func TestArticleFieldsRoundTrip(t *testing.T) {
	a := Article{Reference: "ABC", Designation: "Stylo", StockSecurite: 5, PrixDAchatHT: 10, PrixDeVenteHT: 12.5, TVA: 20}
	fields := ArticleFields(a)

	assert.Equal(t, "5", fields.Get(FieldStockSecurite))
	assert.Equal(t, "12.5", fields.Get(FieldPrixDeVenteHT))
	assert.Equal(t, "Stylo", fields.Get(FieldDesignation))
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list articles: %w", NewError(KindNetwork, 0, "Network error. Please check your connection and try again.", cause))

	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrServer)
	assert.ErrorIs(t, err, cause)
	assert.True(t, AsError(err).Retryable())

	plain := AsError(errors.New("boom"))
	assert.Equal(t, KindServer, plain.Kind)
	assert.Nil(t, AsError(nil))

	assert.False(t, NewError(KindNotFound, http.StatusNotFound, "Article not found", nil).Retryable())
}

func TestFailedEnvelope(t *testing.T) {
	resp := Failed(NewValidationError(map[string]string{"email": "Email is invalid"}))

	assert.False(t, resp.Success)
	assert.Equal(t, KindValidation, resp.Kind)
	assert.Equal(t, "Email is invalid", resp.Errors["email"])

	ok := OK([]int{1}, "done")
	assert.True(t, ok.Success)
	assert.Equal(t, "done", ok.Message)
}
