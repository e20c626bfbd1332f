package services

import (
	"strconv"

	"github.com/Kiko4ko1/magnetsbg-store/config"
)

// Pricing converts and formats amounts for display. BGN is the primary
// currency; EUR is shown alongside at a fixed rate captured at startup.
type Pricing struct {
	rate float64
}

// NewPricing fixes the conversion rate from config.
func NewPricing() *Pricing {
	return &Pricing{rate: config.EURRate()}
}

// Rate returns the fixed BGN to EUR rate.
func (p *Pricing) Rate() float64 {
	return p.rate
}

// ToEUR converts a BGN amount.
func (p *Pricing) ToEUR(bgn float64) float64 {
	return bgn / p.rate
}

// FormatBGN renders an amount like "9.99 лв.".
func (p *Pricing) FormatBGN(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64) + " лв."
}

// FormatEUR renders the converted amount like "(5.11 €)".
func (p *Pricing) FormatEUR(bgn float64) string {
	return "(" + strconv.FormatFloat(p.ToEUR(bgn), 'f', 2, 64) + " €)"
}
