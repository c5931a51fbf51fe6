// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fx resolves foreign exchange rates from stored currency-pair
// quotes.
package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/penny-vault/finq/currency"
	"github.com/penny-vault/finq/quote"
)

// fx sources are synthetic; one source label marks all pair tickers
const fxSource = "fx"

// AssetName is the stored asset name for a currency pair. The quoted rate
// is the number of domestic units per one foreign unit.
func AssetName(foreign currency.Currency, domestic currency.Currency) string {
	return fmt.Sprintf("%s/%s", foreign, domestic)
}

// InsertFXQuote stores an exchange rate observation, creating the pair's
// asset and ticker on first use
func InsertFXQuote(ctx context.Context, store quote.Store, rate float64, foreign currency.Currency, domestic currency.Currency, t time.Time) error {
	name := AssetName(foreign, domestic)
	assetID, err := store.InsertIfNewAsset(ctx, name)
	if err != nil {
		return err
	}

	tickerID, err := store.InsertIfNewTicker(ctx, &quote.Ticker{
		Name:     name,
		Asset:    assetID,
		Source:   fxSource,
		Priority: 10,
		Currency: domestic,
		Factor:   1.0,
	})
	if err != nil {
		return err
	}

	_, err = store.InsertQuote(ctx, &quote.Quote{
		Ticker: tickerID,
		Price:  rate,
		Time:   t,
	})
	return err
}

// Rates implements currency.RateSource over a quote store. Lookups try the
// requested pair first and fall back to the reciprocal of the reverse pair.
type Rates struct {
	store quote.Store
}

func NewRates(store quote.Store) *Rates {
	return &Rates{store: store}
}

func (r *Rates) FXRate(ctx context.Context, foreign currency.Currency, domestic currency.Currency, t time.Time) (float64, error) {
	if foreign.Equal(domestic) {
		return 1.0, nil
	}

	q, _, err := r.store.LastQuoteBefore(ctx, AssetName(foreign, domestic), t)
	if err == nil {
		return q.Price, nil
	}

	q, _, err = r.store.LastQuoteBefore(ctx, AssetName(domestic, foreign), t)
	if err == nil {
		return 1.0 / q.Price, nil
	}

	log.Debug().Str("Foreign", foreign.String()).Str("Domestic", domestic.String()).Time("Time", t).Msg("no fx quote for pair in either direction")
	return 0, fmt.Errorf("%w: no fx rate for %s", currency.ErrConversionFailed, AssetName(foreign, domestic))
}

func (r *Rates) RoundingDigits(ctx context.Context, c currency.Currency) int {
	return int(r.store.RoundingDigits(ctx, c))
}
