package quote

import (
	"errors"
	"net/http"

	"github.com/noah-isme/cart-discount/internal/common"
	"github.com/noah-isme/cart-discount/internal/discount"
)

var (
	// ErrInvalidRequest indicates the quote request failed validation.
	ErrInvalidRequest = errors.New("quote: invalid request")
	// ErrInvalidCart indicates the cart document could not be decoded.
	ErrInvalidCart = errors.New("quote: invalid cart")
)

// AppError maps a quote failure onto the API error shape.
func AppError(err error) *common.AppError {
	var fieldErr *discount.FieldError
	var catErr *discount.CategoryError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return common.NewAppError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrInvalidCart):
		return common.NewAppError("INVALID_CART", "cart could not be decoded", http.StatusBadRequest, err)
	case errors.Is(err, discount.ErrNoCart):
		return common.NewAppError("NO_CART", "no cart loaded", http.StatusUnprocessableEntity, err)
	case errors.As(err, &fieldErr):
		return common.NewAppError("UNSET_FIELD", "required discount field is not configured", http.StatusUnprocessableEntity, err).
			WithDetails(map[string]string{"field": fieldErr.Field})
	case errors.As(err, &catErr):
		return common.NewAppError("UNMAPPED_CATEGORY", "cart category has no on-top discount", http.StatusUnprocessableEntity, err).
			WithDetails(map[string]string{"category": catErr.Category})
	case errors.Is(err, discount.ErrInvalidMode), errors.Is(err, discount.ErrInvalidSeasonalInterval),
		errors.Is(err, discount.ErrSeasonalOverflow):
		return common.NewAppError("INVALID_RULES", err.Error(), http.StatusUnprocessableEntity, err)
	default:
		return common.NewAppError("INTERNAL", "failed to compute quote", http.StatusInternalServerError, err)
	}
}
