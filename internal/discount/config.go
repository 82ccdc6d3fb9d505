package discount

import "maps"

// Config is the active discount rule set. It is immutable after construction.
type Config struct {
	CouponAmount       Optional[float64]
	CouponPercentage   Optional[float64]
	OnTopCustomerPoint Optional[float64]
	SeasonalEvery      Optional[float64]
	SeasonalDiscount   Optional[float64]

	categories map[string]float64
}

// NewConfig extracts the optional fields from a rule document.
func NewConfig(doc RulesDocument) Config {
	d := doc.Discount
	seasonal := d.SeasonalBlock()
	cfg := Config{
		CouponAmount:     FromPtr(d.Coupon.Amount),
		CouponPercentage: FromPtr(d.Coupon.Percentage),
		SeasonalEvery:    FromPtr(seasonal.Every),
		SeasonalDiscount: FromPtr(seasonal.Discount),
		categories:       map[string]float64{},
	}
	for _, entry := range d.OnTop {
		switch e := entry.(type) {
		case CustomerPointEntry:
			cfg.OnTopCustomerPoint = FromPtr(e.Points)
		case CategoryEntry:
			for _, c := range e.Categories {
				if c.Name == nil || *c.Name == "" || c.Percentage == nil {
					continue
				}
				cfg.categories[*c.Name] = *c.Percentage
			}
		}
	}
	return cfg
}

// ParseConfig decodes rule data into a Config. On failure it returns the
// all-unset Config alongside the error so callers can log and carry on.
func ParseConfig(data []byte) (Config, error) {
	doc, err := ParseRules(data)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(doc), nil
}

// CategoryDiscount looks up the on-top fraction configured for a category.
func (c Config) CategoryDiscount(category string) (float64, bool) {
	v, ok := c.categories[category]
	return v, ok
}

// OnTopCategoryDiscounts returns a copy of the category discount mapping.
func (c Config) OnTopCategoryDiscounts() map[string]float64 {
	out := make(map[string]float64, len(c.categories))
	maps.Copy(out, c.categories)
	return out
}
