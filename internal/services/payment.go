package services

import (
	"errors"
	"math/rand"
	"time"

	"github.com/rindra/farm-market-api/internal/models"
)

// ErrPaymentDeclined is returned when a charge is not authorized.
var ErrPaymentDeclined = errors.New("payment processing failed")

// PaymentProcessor authorizes the charge for an order before it is
// committed. Checkout aborts with no state change when authorization fails.
type PaymentProcessor interface {
	Authorize(order models.Order, total float64) error
}

// CardProcessor simulates a card gateway with a fixed authorization rate.
// It stands in for a real integration, which is out of scope.
type CardProcessor struct {
	successRate float64
	rng         *rand.Rand
}

func NewCardProcessor() *CardProcessor {
	return &CardProcessor{
		successRate: 0.9,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *CardProcessor) Authorize(_ models.Order, _ float64) error {
	if p.rng.Float64() < p.successRate {
		return nil
	}
	return ErrPaymentDeclined
}
