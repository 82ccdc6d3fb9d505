package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/cart-discount/internal/common"
	"github.com/noah-isme/cart-discount/internal/discount"
	"github.com/noah-isme/cart-discount/internal/obs"
)

// Request asks for a quote of Cart under Rules with the given modes.
type Request struct {
	Rules      json.RawMessage `json:"rules"`
	Cart       json.RawMessage `json:"cart"`
	CouponMode *int            `json:"couponMode" validate:"required,oneof=0 1"`
	OnTopMode  *int            `json:"onTopMode" validate:"required,oneof=0 1"`
}

// Result is the itemised quote returned to callers.
type Result struct {
	CouponMode         string  `json:"couponMode"`
	OnTopMode          string  `json:"onTopMode"`
	Total              float64 `json:"total"`
	CouponDiscount     float64 `json:"couponDiscount"`
	OnTopDiscount      float64 `json:"onTopDiscount"`
	SeasonalDiscount   float64 `json:"seasonalDiscount"`
	SeasonalMultiplier int64   `json:"seasonalMultiplier"`
	DiscountedTotal    float64 `json:"discountedTotal"`
	Cached             bool    `json:"cached"`
}

// validate is shared; validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Service computes quotes. Each call builds its own engine, so a Service,
// including the zero value, is safe for concurrent use.
type Service struct {
	Cache   *Cache
	Metrics *obs.QuoteMetrics
	Logger  zerolog.Logger
}

// NewService wires a quote service. cache and metrics may be nil.
func NewService(cache *Cache, metrics *obs.QuoteMetrics, logger zerolog.Logger) *Service {
	return &Service{Cache: cache, Metrics: metrics, Logger: logger}
}

// Quote validates req and computes its discount breakdown.
func (s *Service) Quote(ctx context.Context, req Request) (Result, error) {
	if err := validate.Struct(req); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidRequest, describeValidation(err))
	}
	couponMode := discount.CouponMode(*req.CouponMode)
	onTopMode := discount.OnTopMode(*req.OnTopMode)

	ctx, span := otel.Tracer("quote").Start(ctx, "quote.compute")
	defer span.End()
	span.SetAttributes(
		attribute.String("quote.coupon_mode", couponMode.String()),
		attribute.String("quote.ontop_mode", onTopMode.String()),
	)

	key := cacheKey(req)
	if cached, ok, err := s.Cache.Get(ctx, key); err != nil {
		s.Logger.Warn().Err(err).Msg("quote cache get")
	} else if ok {
		cached.Cached = true
		span.SetAttributes(attribute.Bool("quote.cached", true))
		s.Metrics.ObserveResult(couponMode.String(), onTopMode.String(), "cached")
		return cached, nil
	}

	res, err := s.compute(req, couponMode, onTopMode)
	if err != nil {
		code := AppError(err).Code
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		s.Metrics.ObserveResult(couponMode.String(), onTopMode.String(), strings.ToLower(code))
		s.Logger.Debug().Err(err).Str("code", code).Msg("quote rejected")
		return Result{}, err
	}

	s.Metrics.ObserveResult(couponMode.String(), onTopMode.String(), "ok")
	s.Metrics.ObserveDiscount("coupon", res.CouponDiscount)
	s.Metrics.ObserveDiscount("ontop", res.OnTopDiscount)
	s.Metrics.ObserveDiscount("seasonal", res.SeasonalDiscount)

	if err := s.Cache.Set(ctx, key, res); err != nil {
		s.Logger.Warn().Err(err).Msg("quote cache set")
	}
	return res, nil
}

func (s *Service) compute(req Request, couponMode discount.CouponMode, onTopMode discount.OnTopMode) (Result, error) {
	var cfg discount.Config
	if len(req.Rules) > 0 && !isNull(req.Rules) {
		parsed, err := discount.ParseConfig(req.Rules)
		if err != nil {
			// Rules that fail to parse leave every field unset; the active
			// mode then reports which field it could not read.
			s.Logger.Warn().Err(err).Msg("parse quote rules")
		}
		cfg = parsed
	}

	engine := discount.NewEngine(cfg)
	if len(req.Cart) > 0 && !isNull(req.Cart) {
		if err := engine.LoadCartJSON(req.Cart); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidCart, err)
		}
	}

	b, err := engine.Quote(couponMode, onTopMode)
	if err != nil {
		return Result{}, err
	}
	return Result{
		CouponMode:         b.CouponMode.String(),
		OnTopMode:          b.OnTopMode.String(),
		Total:              b.Total,
		CouponDiscount:     b.Coupon,
		OnTopDiscount:      b.OnTop,
		SeasonalDiscount:   b.Seasonal,
		SeasonalMultiplier: b.SeasonalMultiplier,
		DiscountedTotal:    b.Discounted,
	}, nil
}

func cacheKey(req Request) string {
	return common.Sha256HexParts(
		compact(req.Rules),
		compact(req.Cart),
		[]byte(strconv.Itoa(*req.CouponMode)),
		[]byte(strconv.Itoa(*req.OnTopMode)),
	)
}

func compact(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, field+" must be one of "+fe.Param())
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
