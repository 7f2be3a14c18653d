// Package billing sells the premium plan upgrade through Mercado Pago
// checkout. The flow is preference → hosted checkout → payment webhook.
package billing

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/pocketsalon/salon-manager/internal/config"
)

type Checkout struct {
	preferences preference.Client
	payments    payment.Client
	price       float64
}

func NewCheckout(cfg *config.Config) (*Checkout, error) {
	mpCfg, err := mpconfig.New(cfg.MercadoPagoToken)
	if err != nil {
		return nil, err
	}

	return &Checkout{
		preferences: preference.NewClient(mpCfg),
		payments:    payment.NewClient(mpCfg),
		price:       cfg.PremiumPrice,
	}, nil
}

// CreateUpgradePreference opens a checkout for the premium plan. The
// buying user's id travels in the external reference so the webhook can
// tie the payment back to the account.
func (c *Checkout) CreateUpgradePreference(ctx context.Context, userID uint) (*preference.Response, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     "Salon Manager Premium",
				Quantity:  1,
				UnitPrice: c.price,
			},
		},
		ExternalReference: fmt.Sprintf("user:%d", userID),
	}

	return c.preferences.Create(ctx, req)
}

// PaymentApproved fetches a payment and, when approved, returns the
// external reference carried from the preference.
func (c *Checkout) PaymentApproved(ctx context.Context, paymentID int) (string, bool, error) {
	p, err := c.payments.Get(ctx, paymentID)
	if err != nil {
		return "", false, err
	}
	return p.ExternalReference, p.Status == "approved", nil
}

// ParseUserReference inverts the external reference format.
func ParseUserReference(ref string) (uint, bool) {
	var userID uint
	if _, err := fmt.Sscanf(ref, "user:%d", &userID); err != nil {
		return 0, false
	}
	return userID, true
}
