package quotes

import (
	"context"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/ports/rates"
)

// FrankfurterName identifies the Frankfurter provider in logs, metrics and rate sources.
const FrankfurterName = "frankfurter"

// Frankfurter reads the ECB reference USD/BRL rate from api.frankfurter.app.
type Frankfurter struct {
	client  *Client
	baseURL string
}

var _ rates.Provider = (*Frankfurter)(nil)

func NewFrankfurter(client *Client, baseURL string) *Frankfurter {
	return &Frankfurter{client: client, baseURL: baseURL}
}

func (p *Frankfurter) Name() string { return FrankfurterName }

type frankfurterResponse struct {
	Rates *struct {
		BRL *rateValue `json:"BRL"`
	} `json:"rates"`
}

func (p *Frankfurter) FetchUSDBRL(ctx context.Context) (float64, error) {
	var body frankfurterResponse
	if err := p.client.GetJSON(ctx, p.baseURL+"/latest?from=USD&to=BRL", &body); err != nil {
		return 0, apperrors.NewProviderError(FrankfurterName, err)
	}
	if body.Rates == nil {
		return 0, apperrors.NewProviderError(FrankfurterName, errMissingRate)
	}
	rate, err := body.Rates.BRL.positive()
	if err != nil {
		return 0, apperrors.NewProviderError(FrankfurterName, err)
	}
	return rate, nil
}
