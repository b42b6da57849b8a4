package enums

import (
	"fmt"
	"strings"
)

// ProductStatus is the catalog lifecycle tag for a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDisabled ProductStatus = "disabled"
	ProductStatusArchived ProductStatus = "archived"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusDisabled,
	ProductStatusArchived,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActive matches the active status regardless of case.
func (s ProductStatus) IsActive() bool {
	return NormalizeProductStatus(string(s)) == ProductStatusActive
}

// NormalizeProductStatus lowercases and trims a stored status value.
func NormalizeProductStatus(value string) ProductStatus {
	return ProductStatus(strings.ToLower(strings.TrimSpace(value)))
}

// ParseProductStatus converts raw input into a ProductStatus. Case variants are accepted.
func ParseProductStatus(value string) (ProductStatus, error) {
	normalized := NormalizeProductStatus(value)
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
