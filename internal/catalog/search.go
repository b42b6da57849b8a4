package catalog

import (
	"strings"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

const searchSeparator = " | "

// MatchesProductQuery reports whether query is a case-insensitive substring of the product's
// searchable text. A blank query matches every product.
func MatchesProductQuery(product models.Product, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	haystack := strings.ToLower(searchText(product))
	if haystack == "" {
		return false
	}
	return strings.Contains(haystack, needle)
}

func searchText(product models.Product) string {
	fields := []string{product.Name}
	for _, value := range []*string{
		product.LongName,
		product.Size,
		product.Temperature,
		product.Country,
		product.Keywords,
	} {
		if value != nil {
			fields = append(fields, *value)
		}
	}

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field) != "" {
			parts = append(parts, field)
		}
	}
	return strings.Join(parts, searchSeparator)
}
