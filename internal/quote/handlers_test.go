package quote_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cart-discount/internal/quote"
)

const rulesJSON = `{"discount":{"coupon":{"amount":30,"percentage":0.1},"on_top":[{"category":[{"name":"X","percentage":0.1}]},{"customer_point":1000}],"seasonal":{"every":100,"discount":5}}}`

type quoteResponse struct {
	Data quote.Result `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func postQuote(t *testing.T, h *quote.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateQuote(t *testing.T) {
	h := &quote.Handler{Svc: quote.NewService(nil, nil, zerolog.Nop())}

	t.Run("computes breakdown", func(t *testing.T) {
		rec := postQuote(t, h, `{"rules":`+rulesJSON+`,"cart":{"items":[{"id":1,"amount":100,"category":"X"},{"id":2,"amount":200,"category":"X"}]},"couponMode":1,"onTopMode":1}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var out quoteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Equal(t, "percentage", out.Data.CouponMode)
		require.Equal(t, "customer_point", out.Data.OnTopMode)
		require.InDelta(t, 30, out.Data.CouponDiscount, 1e-9)
		require.InDelta(t, 60, out.Data.OnTopDiscount, 1e-9)
		require.InDelta(t, 15, out.Data.SeasonalDiscount, 1e-9)
		require.InDelta(t, 195, out.Data.DiscountedTotal, 1e-9)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := postQuote(t, h, `{"rules":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "BAD_REQUEST", decodeError(t, rec).Error.Code)
	})

	t.Run("missing mode", func(t *testing.T) {
		rec := postQuote(t, h, `{"rules":`+rulesJSON+`,"cart":{"items":[]},"onTopMode":0}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "VALIDATION_FAILED", decodeError(t, rec).Error.Code)
	})

	t.Run("undecodable cart", func(t *testing.T) {
		rec := postQuote(t, h, `{"rules":`+rulesJSON+`,"cart":{"items":{}},"couponMode":0,"onTopMode":0}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "INVALID_CART", decodeError(t, rec).Error.Code)
	})

	t.Run("no cart", func(t *testing.T) {
		rec := postQuote(t, h, `{"rules":`+rulesJSON+`,"couponMode":0,"onTopMode":0}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Equal(t, "NO_CART", decodeError(t, rec).Error.Code)
	})

	t.Run("unset field", func(t *testing.T) {
		rec := postQuote(t, h, `{"rules":{"discount":{}},"cart":{"items":[{"amount":10,"category":"X"}]},"couponMode":0,"onTopMode":0}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		out := decodeError(t, rec)
		require.Equal(t, "UNSET_FIELD", out.Error.Code)
		require.Equal(t, "coupon.amount", out.Error.Details["field"])
	})

	t.Run("unmapped category", func(t *testing.T) {
		rec := postQuote(t, h, `{"rules":`+rulesJSON+`,"cart":{"items":[{"amount":10,"category":"Y"}]},"couponMode":0,"onTopMode":0}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		out := decodeError(t, rec)
		require.Equal(t, "UNMAPPED_CATEGORY", out.Error.Code)
		require.Equal(t, "Y", out.Error.Details["category"])
	})

	t.Run("seasonal interval", func(t *testing.T) {
		rules := `{"discount":{"coupon":{"amount":1},"on_top":[{"category":[{"name":"X","percentage":0}]}],"seasonal":{"every":0,"discount":5}}}`
		rec := postQuote(t, h, `{"rules":`+rules+`,"cart":{"items":[{"amount":10,"category":"X"}]},"couponMode":0,"onTopMode":0}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Equal(t, "INVALID_RULES", decodeError(t, rec).Error.Code)
	})

	t.Run("seasonal interval too small", func(t *testing.T) {
		for _, seasonal := range []string{`{"every":1e-300,"discount":5}`, `{"every":1e-320,"discount":0}`} {
			rules := `{"discount":{"coupon":{"amount":1},"on_top":[{"customer_point":0}],"seasonal":` + seasonal + `}}`
			rec := postQuote(t, h, `{"rules":`+rules+`,"cart":{"items":[{"amount":10}]},"couponMode":0,"onTopMode":1}`)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, seasonal)
			require.Equal(t, "INVALID_RULES", decodeError(t, rec).Error.Code)
		}
	})

	t.Run("unconfigured handler", func(t *testing.T) {
		rec := postQuote(t, &quote.Handler{}, `{}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
