package quotes

import (
	"context"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/ports/rates"
)

// AwesomeAPIName identifies the AwesomeAPI provider in logs, metrics and rate sources.
const AwesomeAPIName = "awesomeapi"

// AwesomeAPI reads the USD/BRL bid from economia.awesomeapi.com.br.
type AwesomeAPI struct {
	client  *Client
	baseURL string
}

var _ rates.Provider = (*AwesomeAPI)(nil)

func NewAwesomeAPI(client *Client, baseURL string) *AwesomeAPI {
	return &AwesomeAPI{client: client, baseURL: baseURL}
}

func (p *AwesomeAPI) Name() string { return AwesomeAPIName }

type awesomeAPIResponse struct {
	USDBRL *struct {
		Bid *rateValue `json:"bid"`
	} `json:"USDBRL"`
}

func (p *AwesomeAPI) FetchUSDBRL(ctx context.Context) (float64, error) {
	var body awesomeAPIResponse
	if err := p.client.GetJSON(ctx, p.baseURL+"/json/last/USD-BRL", &body); err != nil {
		return 0, apperrors.NewProviderError(AwesomeAPIName, err)
	}
	if body.USDBRL == nil {
		return 0, apperrors.NewProviderError(AwesomeAPIName, errMissingRate)
	}
	rate, err := body.USDBRL.Bid.positive()
	if err != nil {
		return 0, apperrors.NewProviderError(AwesomeAPIName, err)
	}
	return rate, nil
}
