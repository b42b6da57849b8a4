package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

func TestMatchesProductQuery(t *testing.T) {
	product := models.Product{
		Name:        "Whole milk",
		LongName:    strPtr("Fresh whole milk, 1L"),
		Size:        strPtr("1L"),
		Temperature: strPtr("Chilled"),
		Country:     strPtr("New Zealand"),
		Keywords:    strPtr("dairy breakfast"),
	}

	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty", query: "", want: true},
		{name: "whitespace", query: "   ", want: true},
		{name: "upper case", query: "MILK", want: true},
		{name: "country", query: "zealand", want: true},
		{name: "keywords", query: "Breakfast", want: true},
		{name: "temperature", query: "chilled", want: true},
		{name: "padded query", query: "  dairy ", want: true},
		{name: "no match", query: "cheese", want: false},
		{name: "not tokenized", query: "milk dairy", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchesProductQuery(product, tc.query))
		})
	}
}

func TestMatchesProductQuerySeparatorJoinsFields(t *testing.T) {
	product := models.Product{Name: "Salmon", Size: strPtr("500g")}

	assert.True(t, MatchesProductQuery(product, "salmon | 500g"))
	assert.False(t, MatchesProductQuery(product, "salmon500g"))
}

func TestMatchesProductQueryEmptyProduct(t *testing.T) {
	assert.True(t, MatchesProductQuery(models.Product{}, ""))
	assert.False(t, MatchesProductQuery(models.Product{}, "x"))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "active", string(NormalizeStatus(" ACTIVE ")))
	assert.Equal(t, "archived", string(NormalizeStatus("Archived")))
}
