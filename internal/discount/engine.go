package discount

import (
	"fmt"
	"math"
	"slices"
)

// CouponMode selects which coupon variant is applied.
type CouponMode int

const (
	// CouponFixedAmount deducts coupon.amount.
	CouponFixedAmount CouponMode = 0
	// CouponPercentage deducts coupon.percentage of the total.
	CouponPercentage CouponMode = 1
)

func (m CouponMode) String() string {
	switch m {
	case CouponFixedAmount:
		return "fixed_amount"
	case CouponPercentage:
		return "percentage"
	default:
		return fmt.Sprintf("coupon_mode(%d)", int(m))
	}
}

// OnTopMode selects which on-top variant is applied.
type OnTopMode int

const (
	// OnTopCategory sums per-item category percentages.
	OnTopCategory OnTopMode = 0
	// OnTopCustomerPoint spends customer points, capped at CustomerPointCap of the total.
	OnTopCustomerPoint OnTopMode = 1
)

func (m OnTopMode) String() string {
	switch m {
	case OnTopCategory:
		return "category"
	case OnTopCustomerPoint:
		return "customer_point"
	default:
		return fmt.Sprintf("ontop_mode(%d)", int(m))
	}
}

// CustomerPointCap is the largest share of the total that points may cover.
const CustomerPointCap = 0.20

// LineItem is one cart entry. Fields missing from the cart data stay unset.
type LineItem struct {
	ID       Optional[string]
	Name     Optional[string]
	Amount   Optional[float64]
	Category Optional[string]
}

// Breakdown itemises a discount computation. Every component is derived from Total.
type Breakdown struct {
	CouponMode         CouponMode
	OnTopMode          OnTopMode
	Total              float64
	Coupon             float64
	OnTop              float64
	Seasonal           float64
	SeasonalMultiplier int64
	Discounted         float64
}

// Engine computes cart totals against a rule set. It is not safe for
// concurrent use; callers serialise LoadCart against computations.
type Engine struct {
	cfg    Config
	cart   []LineItem
	loaded bool
}

// NewEngine returns an engine with no cart loaded.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the rule set the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// LoadCart replaces the current cart with the items in doc.
func (e *Engine) LoadCart(doc CartDocument) {
	items := make([]LineItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		item := LineItem{
			Name:     FromPtr(it.Name),
			Amount:   FromPtr(it.Amount),
			Category: FromPtr(it.Category),
		}
		if it.ID != nil {
			item.ID = Some(string(*it.ID))
		}
		items = append(items, item)
	}
	e.cart = items
	e.loaded = true
}

// LoadCartJSON parses data and loads it. A parse failure leaves the previous cart in place.
func (e *Engine) LoadCartJSON(data []byte) error {
	doc, err := ParseCart(data)
	if err != nil {
		return err
	}
	e.LoadCart(doc)
	return nil
}

// Loaded reports whether a cart has been loaded.
func (e *Engine) Loaded() bool { return e.loaded }

// Cart returns a copy of the loaded items.
func (e *Engine) Cart() []LineItem {
	return slices.Clone(e.cart)
}

// TotalSum returns the sum of item amounts.
func (e *Engine) TotalSum() (float64, error) {
	items, err := e.snapshot()
	if err != nil {
		return 0, err
	}
	return totalOf(items)
}

// DiscountedSum returns the total minus coupon, on-top and seasonal discounts.
// The result is not clamped and may be negative.
func (e *Engine) DiscountedSum(coupon CouponMode, onTop OnTopMode) (float64, error) {
	b, err := e.Quote(coupon, onTop)
	if err != nil {
		return 0, err
	}
	return b.Discounted, nil
}

// Quote computes the itemised discount for the selected modes.
func (e *Engine) Quote(coupon CouponMode, onTop OnTopMode) (Breakdown, error) {
	if coupon != CouponFixedAmount && coupon != CouponPercentage {
		return Breakdown{}, fmt.Errorf("%w: coupon mode %d", ErrInvalidMode, int(coupon))
	}
	if onTop != OnTopCategory && onTop != OnTopCustomerPoint {
		return Breakdown{}, fmt.Errorf("%w: on-top mode %d", ErrInvalidMode, int(onTop))
	}
	items, err := e.snapshot()
	if err != nil {
		return Breakdown{}, err
	}
	total, err := totalOf(items)
	if err != nil {
		return Breakdown{}, err
	}
	b := Breakdown{CouponMode: coupon, OnTopMode: onTop, Total: total}

	if b.Coupon, err = e.couponDiscount(coupon, total); err != nil {
		return Breakdown{}, err
	}
	if b.OnTop, err = e.onTopDiscount(onTop, total, items); err != nil {
		return Breakdown{}, err
	}
	if b.Seasonal, b.SeasonalMultiplier, err = e.seasonalDiscount(total); err != nil {
		return Breakdown{}, err
	}
	b.Discounted = total - (b.Coupon + b.OnTop + b.Seasonal)
	return b, nil
}

func (e *Engine) snapshot() ([]LineItem, error) {
	if !e.loaded {
		return nil, ErrNoCart
	}
	return slices.Clone(e.cart), nil
}

func totalOf(items []LineItem) (float64, error) {
	var total float64
	for i, it := range items {
		amount, ok := it.Amount.Get()
		if !ok {
			return 0, unset(fmt.Sprintf("items[%d].amount", i))
		}
		total += amount
	}
	return total, nil
}

func (e *Engine) couponDiscount(mode CouponMode, total float64) (float64, error) {
	if mode == CouponFixedAmount {
		amount, ok := e.cfg.CouponAmount.Get()
		if !ok {
			return 0, unset("coupon.amount")
		}
		return amount, nil
	}
	pct, ok := e.cfg.CouponPercentage.Get()
	if !ok {
		return 0, unset("coupon.percentage")
	}
	return total * pct, nil
}

func (e *Engine) onTopDiscount(mode OnTopMode, total float64, items []LineItem) (float64, error) {
	if mode == OnTopCustomerPoint {
		points, ok := e.cfg.OnTopCustomerPoint.Get()
		if !ok {
			return 0, unset("on_top.customer_point")
		}
		return math.Min(points, total*CustomerPointCap), nil
	}
	var discount float64
	for i, it := range items {
		category, ok := it.Category.Get()
		if !ok {
			return 0, unset(fmt.Sprintf("items[%d].category", i))
		}
		pct, ok := e.cfg.CategoryDiscount(category)
		if !ok {
			return 0, &CategoryError{Category: category, ItemID: it.ID.OrElse("")}
		}
		// totalOf has already rejected items without an amount.
		amount, _ := it.Amount.Get()
		discount += amount * pct
	}
	return discount, nil
}

func (e *Engine) seasonalDiscount(total float64) (float64, int64, error) {
	every, ok := e.cfg.SeasonalEvery.Get()
	if !ok {
		return 0, 0, unset("seasonal.every")
	}
	rate, ok := e.cfg.SeasonalDiscount.Get()
	if !ok {
		return 0, 0, unset("seasonal.discount")
	}
	if every <= 0 {
		return 0, 0, fmt.Errorf("%w: got %v", ErrInvalidSeasonalInterval, every)
	}
	multiplier := math.Floor(total / every)
	// 2^63 is the first float64 that int64 cannot hold.
	if math.IsNaN(multiplier) || math.Abs(multiplier) >= 1<<63 {
		return 0, 0, fmt.Errorf("%w: %v / %v", ErrSeasonalOverflow, total, every)
	}
	amount := rate * multiplier
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, 0, fmt.Errorf("%w: %v * %v", ErrSeasonalOverflow, rate, multiplier)
	}
	return amount, int64(multiplier), nil
}
