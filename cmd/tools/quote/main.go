package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/cart-discount/internal/config"
	"github.com/noah-isme/cart-discount/internal/discount"
	"github.com/noah-isme/cart-discount/internal/ingest"
	"github.com/noah-isme/cart-discount/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rulesPath := flag.String("rules", cfg.DiscountRulesFile, "discount rules file (.json, .yaml)")
	cartPath := flag.String("cart", cfg.CartFile, "cart file (.json, .yaml)")
	couponMode := flag.Int("coupon-mode", 0, "coupon mode: 0 fixed amount, 1 percentage")
	onTopMode := flag.Int("ontop-mode", 0, "on-top mode: 0 category, 1 customer points")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	logger := obs.NewLoggerTo(os.Stderr, "console", level)

	loader := ingest.Loader{Logger: logger}
	engine := discount.NewEngine(loader.Config(*rulesPath))
	loader.Cart(engine, *cartPath)

	os.Exit(run(engine, discount.CouponMode(*couponMode), discount.OnTopMode(*onTopMode), logger))
}

func run(engine *discount.Engine, coupon discount.CouponMode, onTop discount.OnTopMode, logger zerolog.Logger) int {
	total, err := engine.TotalSum()
	if err != nil {
		logger.Error().Err(err).Msg("compute total")
		return 1
	}
	discounted, err := engine.DiscountedSum(coupon, onTop)
	if err != nil {
		logger.Error().Err(err).Int("coupon_mode", int(coupon)).Int("ontop_mode", int(onTop)).Msg("compute discounted price")
		return 1
	}
	fmt.Println("Full price: " + formatPrice(total))
	fmt.Println("Discounted price: " + formatPrice(discounted))
	return 0
}

// formatPrice renders v the way the legacy price script did: shortest
// round-trip digits, a trailing ".0" on whole numbers, and exponent form
// outside [1e-4, 1e16).
func formatPrice(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
