package discount

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfigExtractsAllFields(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
	  "discount": {
	    "coupon": {"amount": 50, "percentage": 0.15},
	    "on_top": [
	      {"category": [
	        {"name": "Clothing", "percentage": 0.15},
	        {"name": "Accessories", "percentage": 0.05}
	      ]},
	      {"customer_point": 68}
	    ],
	    "seasonal": {"every": 300, "discount": 40}
	  }
	}`))
	require.NoError(t, err)

	amount, ok := cfg.CouponAmount.Get()
	require.True(t, ok)
	require.Equal(t, 50.0, amount)
	require.Equal(t, 0.15, cfg.CouponPercentage.OrElse(-1))
	require.Equal(t, 68.0, cfg.OnTopCustomerPoint.OrElse(-1))
	require.Equal(t, 300.0, cfg.SeasonalEvery.OrElse(-1))
	require.Equal(t, 40.0, cfg.SeasonalDiscount.OrElse(-1))
	require.Equal(t, map[string]float64{"Clothing": 0.15, "Accessories": 0.05}, cfg.OnTopCategoryDiscounts())
}

func TestParseConfigAbsentFieldsStayUnset(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"discount": {"coupon": {"amount": 0}}}`))
	require.NoError(t, err)

	require.True(t, cfg.CouponAmount.IsSet())
	require.False(t, cfg.CouponPercentage.IsSet())
	require.False(t, cfg.OnTopCustomerPoint.IsSet())
	require.False(t, cfg.SeasonalEvery.IsSet())
	require.False(t, cfg.SeasonalDiscount.IsSet())
	require.Empty(t, cfg.OnTopCategoryDiscounts())
}

func TestParseConfigSkipsIncompleteCategories(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"discount": {"on_top": [
	  {"category": [
	    {"name": "A", "percentage": 0.1},
	    {"percentage": 0.2},
	    {"name": "", "percentage": 0.3},
	    {"name": "B", "percentage": null},
	    {"name": "C"},
	    {"name": "Zero", "percentage": 0}
	  ]},
	  {"category": [{"name": "A", "percentage": 0.25}]},
	  {"unrelated": true}
	]}}`))
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"A": 0.25, "Zero": 0}, cfg.OnTopCategoryDiscounts())
	_, ok := cfg.CategoryDiscount("B")
	require.False(t, ok)
}

func TestParseConfigCustomerPointWinsOverCategoryInSameEntry(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"discount": {"on_top": [
	  {"customer_point": 12, "category": [{"name": "A", "percentage": 0.1}]}
	]}}`))
	require.NoError(t, err)
	require.Equal(t, 12.0, cfg.OnTopCustomerPoint.OrElse(0))
	require.Empty(t, cfg.OnTopCategoryDiscounts())
}

func TestParseConfigNullCustomerPointIsUnset(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"discount": {"on_top": [{"customer_point": null}]}}`))
	require.NoError(t, err)
	require.False(t, cfg.OnTopCustomerPoint.IsSet())
}

func TestParseConfigAcceptsLegacySeasonalKey(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"discount": {"seasonnal": {"every": 300, "discount": 40}}}`))
	require.NoError(t, err)
	require.Equal(t, 300.0, cfg.SeasonalEvery.OrElse(0))
	require.Equal(t, 40.0, cfg.SeasonalDiscount.OrElse(0))

	cfg, err = ParseConfig([]byte(`{"discount": {"seasonal": {"every": 100}, "seasonnal": {"every": 300, "discount": 40}}}`))
	require.NoError(t, err)
	require.Equal(t, 100.0, cfg.SeasonalEvery.OrElse(0))
	require.False(t, cfg.SeasonalDiscount.IsSet())
}

func TestParseConfigFailureLeavesFieldsUnset(t *testing.T) {
	for _, input := range []string{
		`not json`,
		`{"discount": {"coupon": {"amount": "thirty"}}}`,
		`{"discount": {"on_top": [{"customer_point": "lots"}]}}`,
		`{"discount": {"on_top": [42]}}`,
	} {
		cfg, err := ParseConfig([]byte(input))
		require.Error(t, err, input)
		require.False(t, cfg.CouponAmount.IsSet())
		require.False(t, cfg.OnTopCustomerPoint.IsSet())
		require.Empty(t, cfg.OnTopCategoryDiscounts())
	}
}

func TestOnTopEntriesRoundTripShape(t *testing.T) {
	points := 5.0
	name := "A"
	pct := 0.1
	entries := OnTopEntries{
		CustomerPointEntry{Points: &points},
		CategoryEntry{Categories: []CategoryDocument{{Name: &name, Percentage: &pct}}},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.JSONEq(t, `[{"customer_point":5},{"category":[{"name":"A","percentage":0.1}]}]`, string(data))
}

func TestItemIDAcceptsStringsAndNumbers(t *testing.T) {
	doc, err := ParseCart([]byte(`{"items":[{"id":"abc"},{"id":42},{"id":1.5},{}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Items, 4)
	require.Equal(t, ItemID("abc"), *doc.Items[0].ID)
	require.Equal(t, ItemID("42"), *doc.Items[1].ID)
	require.Equal(t, ItemID("1.5"), *doc.Items[2].ID)
	require.Nil(t, doc.Items[3].ID)

	_, err = ParseCart([]byte(`{"items":[{"id":true}]}`))
	require.Error(t, err)

	out, err := json.Marshal([]ItemID{"42", "abc", "007"})
	require.NoError(t, err)
	require.JSONEq(t, `[42,"abc","007"]`, string(out))
}
