package quote

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/cart-discount/internal/common"
	"github.com/noah-isme/cart-discount/internal/obs"
)

// Handler exposes the quote endpoint.
type Handler struct {
	Svc *Service
}

// Create computes a quote for the posted rules and cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	res, err := h.Svc.Quote(r.Context(), req)
	if err != nil {
		appErr := AppError(err)
		obs.Annotate(r.Context(), "quote_result", appErr.Code)
		common.WriteError(w, appErr)
		return
	}
	obs.Annotate(r.Context(), "quote_coupon_mode", res.CouponMode)
	obs.Annotate(r.Context(), "quote_ontop_mode", res.OnTopMode)
	obs.Annotate(r.Context(), "quote_result", resultLabel(res))
	common.Data(w, http.StatusOK, res)
}

func resultLabel(res Result) string {
	if res.Cached {
		return "cached"
	}
	return "ok"
}
