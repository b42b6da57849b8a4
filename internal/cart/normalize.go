package cart

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type field int

const (
	fieldProductID field = iota
	fieldName
	fieldCountry
	fieldType
	fieldSize
	fieldTemperature
	fieldThumbnailURL
	fieldUnlimitedStock
	fieldQtyAvailable
	fieldOutOfStock
	fieldUnavailable
	fieldPrice
	fieldQty
	fieldLineTotal
)

// sourceKeys lists the accepted row keys per field, highest priority first.
var sourceKeys = map[field][]string{
	fieldProductID:      {"product_id", "productId"},
	fieldName:           {"name", "product_name", "productName"},
	fieldCountry:        {"country"},
	fieldType:           {"type"},
	fieldSize:           {"size"},
	fieldTemperature:    {"temperature"},
	fieldThumbnailURL:   {"thumbnail_url", "thumbnailUrl"},
	fieldUnlimitedStock: {"unlimited_stock", "unlimitedStock"},
	fieldQtyAvailable:   {"qty_available", "qtyAvailable"},
	fieldOutOfStock:     {"out_of_stock", "outOfStock"},
	fieldUnavailable:    {"unavailable"},
	fieldPrice:          {"price", "selling_price", "sellingPrice"},
	fieldQty:            {"qty", "quantity"},
	fieldLineTotal:      {"line_total", "lineTotal"},
}

func normalizeRow(row map[string]any) CartItem {
	price := toDecimal(lookup(row, fieldPrice))
	if price.IsNegative() {
		price = decimal.Zero
	}
	return CartItem{
		ProductID:      strings.TrimSpace(toString(lookup(row, fieldProductID))),
		Name:           toString(lookup(row, fieldName)),
		Country:        toString(lookup(row, fieldCountry)),
		Type:           toString(lookup(row, fieldType)),
		Size:           toString(lookup(row, fieldSize)),
		Temperature:    toString(lookup(row, fieldTemperature)),
		ThumbnailURL:   toString(lookup(row, fieldThumbnailURL)),
		UnlimitedStock: toBool(lookup(row, fieldUnlimitedStock)),
		QtyAvailable:   toInt(lookup(row, fieldQtyAvailable)),
		OutOfStock:     toBool(lookup(row, fieldOutOfStock)),
		Unavailable:    toBool(lookup(row, fieldUnavailable)),
		Price:          price,
		Qty:            toInt(lookup(row, fieldQty)),
		LineTotal:      toDecimal(lookup(row, fieldLineTotal)),
	}
}

func lookup(row map[string]any, f field) any {
	for _, key := range sourceKeys[f] {
		if v, ok := row[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case decimal.NullDecimal:
		if !val.Valid {
			return decimal.Zero
		}
		return val.Decimal
	case int:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt32(val)
	case int64:
		return decimal.NewFromInt(val)
	case uint:
		return decimal.NewFromInt(int64(val))
	case float32:
		return floatDecimal(float64(val))
	case float64:
		return floatDecimal(val)
	case json.Number:
		return parseDecimal(val.String())
	case string:
		return parseDecimal(val)
	case []byte:
		return parseDecimal(string(val))
	default:
		return decimal.Zero
	}
}

func floatDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toInt(v any) int {
	switch val := v.(type) {
	case int:
		return clampInt(int64(val))
	case int32:
		return int(val)
	case int64:
		return clampInt(val)
	case uint:
		if uint64(val) > math.MaxInt32 {
			return math.MaxInt32
		}
		return int(val)
	case float32:
		return floatInt(float64(val))
	case float64:
		return floatInt(val)
	case decimal.Decimal:
		return decimalInt(val)
	case json.Number:
		return parseInt(val.String())
	case string:
		return parseInt(val)
	case []byte:
		return parseInt(string(val))
	default:
		return 0
	}
}

// Integers are clamped to the int32 range so results do not depend on the platform.
func clampInt(n int64) int {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	default:
		return int(n)
	}
}

func floatInt(f float64) int {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	default:
		return int(f)
	}
}

func decimalInt(d decimal.Decimal) int {
	switch {
	case d.GreaterThanOrEqual(decimal.NewFromInt(math.MaxInt32)):
		return math.MaxInt32
	case d.LessThanOrEqual(decimal.NewFromInt(math.MinInt32)):
		return math.MinInt32
	default:
		return int(d.IntPart())
	}
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return clampInt(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatInt(f)
	}
	return 0
}

func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	case []byte:
		b, err := strconv.ParseBool(strings.TrimSpace(string(val)))
		return err == nil && b
	default:
		return false
	}
}
