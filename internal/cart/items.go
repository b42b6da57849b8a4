package cart

import "github.com/shopspring/decimal"

// CartItem is one priced line of the cart projection.
type CartItem struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Country        string          `json:"country"`
	Type           string          `json:"type"`
	Size           string          `json:"size"`
	Temperature    string          `json:"temperature"`
	ThumbnailURL   string          `json:"thumbnail_url"`
	UnlimitedStock bool            `json:"unlimited_stock"`
	QtyAvailable   int             `json:"qty_available"`
	OutOfStock     bool            `json:"out_of_stock"`
	Unavailable    bool            `json:"unavailable"`
	Price          decimal.Decimal `json:"price"`
	Qty            int             `json:"qty"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// UnavailableProducts returns the ids of lines whose product can no longer be sold.
func UnavailableProducts(items []CartItem) []string {
	var ids []string
	for _, item := range items {
		if item.Unavailable {
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

// Totals summarizes a cart.
type Totals struct {
	TotalUnits int             `json:"total_units"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// BuildCartItems projects loosely shaped rows into cart items. Input that is not a sequence
// of maps is treated as empty. Rows without a product id or with a non-positive quantity
// are dropped. Line totals are taken as given.
func BuildCartItems(raw any) []CartItem {
	rows := asRows(raw)
	items := make([]CartItem, 0, len(rows))
	for _, row := range rows {
		item := normalizeRow(row)
		if item.ProductID == "" || item.Qty <= 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}

// CartTotals sums units and line totals. Decimal addition keeps the result independent of
// item order.
func CartTotals(items []CartItem) Totals {
	totals := Totals{Subtotal: decimal.Zero}
	for _, item := range items {
		totals.TotalUnits += item.Qty
		totals.Subtotal = totals.Subtotal.Add(item.LineTotal)
	}
	return totals
}

func asRows(raw any) []map[string]any {
	switch v := raw.(type) {
	case []map[string]any:
		return v
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for _, entry := range v {
			if row, ok := entry.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
		return rows
	default:
		return nil
	}
}
