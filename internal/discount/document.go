package discount

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RulesDocument is the decoded discount rule file.
type RulesDocument struct {
	Discount DiscountDocument `json:"discount"`
}

// DiscountDocument groups the three campaign blocks.
type DiscountDocument struct {
	Coupon   CouponDocument    `json:"coupon"`
	OnTop    OnTopEntries      `json:"on_top"`
	Seasonal *SeasonalDocument `json:"seasonal"`
	// Older rule files spell the seasonal block "seasonnal".
	LegacySeasonal *SeasonalDocument `json:"seasonnal"`
}

// SeasonalBlock returns the seasonal block, preferring the current key.
func (d DiscountDocument) SeasonalBlock() SeasonalDocument {
	if d.Seasonal != nil {
		return *d.Seasonal
	}
	if d.LegacySeasonal != nil {
		return *d.LegacySeasonal
	}
	return SeasonalDocument{}
}

// CouponDocument carries both coupon variants; the mode picks one at computation time.
type CouponDocument struct {
	Amount     *float64 `json:"amount"`
	Percentage *float64 `json:"percentage"`
}

// SeasonalDocument describes the every-X-get-Y campaign.
type SeasonalDocument struct {
	Every    *float64 `json:"every"`
	Discount *float64 `json:"discount"`
}

// CategoryDocument is one category percentage inside an on-top category entry.
type CategoryDocument struct {
	Name       *string  `json:"name"`
	Percentage *float64 `json:"percentage"`
}

// OnTopEntry is one element of the heterogeneous on_top list.
type OnTopEntry interface {
	onTopEntry()
}

// CustomerPointEntry spends the customer's point balance.
type CustomerPointEntry struct {
	Points *float64
}

// CategoryEntry lists per-category percentages.
type CategoryEntry struct {
	Categories []CategoryDocument
}

func (CustomerPointEntry) onTopEntry() {}
func (CategoryEntry) onTopEntry()      {}

// OnTopEntries decodes the on_top list into tagged entries.
type OnTopEntries []OnTopEntry

// UnmarshalJSON inspects each element for a customer_point or category key.
// Elements carrying neither key are dropped.
func (o *OnTopEntries) UnmarshalJSON(data []byte) error {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode on_top: %w", err)
	}
	entries := make(OnTopEntries, 0, len(raw))
	for i, element := range raw {
		if points, ok := element["customer_point"]; ok {
			var p *float64
			if err := json.Unmarshal(points, &p); err != nil {
				return fmt.Errorf("decode on_top[%d].customer_point: %w", i, err)
			}
			entries = append(entries, CustomerPointEntry{Points: p})
			continue
		}
		if categories, ok := element["category"]; ok {
			var list []CategoryDocument
			if err := json.Unmarshal(categories, &list); err != nil {
				return fmt.Errorf("decode on_top[%d].category: %w", i, err)
			}
			entries = append(entries, CategoryEntry{Categories: list})
		}
	}
	*o = entries
	return nil
}

// MarshalJSON writes the entries back in their document shape.
func (o OnTopEntries) MarshalJSON() ([]byte, error) {
	out := make([]map[string]any, 0, len(o))
	for _, entry := range o {
		switch e := entry.(type) {
		case CustomerPointEntry:
			out = append(out, map[string]any{"customer_point": e.Points})
		case CategoryEntry:
			out = append(out, map[string]any{"category": e.Categories})
		}
	}
	return json.Marshal(out)
}

// CartDocument is the decoded cart file.
type CartDocument struct {
	Items []ItemDocument `json:"items"`
}

// ItemDocument is one cart line as it appears in the cart file.
type ItemDocument struct {
	ID       *ItemID  `json:"id"`
	Name     *string  `json:"name"`
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
}

// ItemID accepts either a JSON string or a JSON number.
type ItemID string

// UnmarshalJSON keeps numeric ids as their literal text.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("item id must be a string or number: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

// MarshalJSON writes numeric-looking ids back as numbers.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(id), 64); err == nil && json.Valid([]byte(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// ParseRules decodes a rule document.
func ParseRules(data []byte) (RulesDocument, error) {
	var doc RulesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return RulesDocument{}, fmt.Errorf("parse rules: %w", err)
	}
	return doc, nil
}

// ParseCart decodes a cart document.
func ParseCart(data []byte) (CartDocument, error) {
	var doc CartDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return CartDocument{}, fmt.Errorf("parse cart: %w", err)
	}
	return doc, nil
}
