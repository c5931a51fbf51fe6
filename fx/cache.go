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

package fx

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"github.com/penny-vault/finq/currency"
)

// CachedRates wraps a RateSource with an LRU cache keyed by pair and day.
// Rates are stable within a day, so repeated valuations of the same cash
// flows hit the cache instead of the store.
type CachedRates struct {
	source currency.RateSource
	rates  *lru.Cache
	digits *lru.Cache
}

func NewCachedRates(source currency.RateSource, size int) *CachedRates {
	rates, err := lru.New(size)
	if err != nil {
		log.Panic().Err(err).Int("Size", size).Msg("could not create fx rate cache")
	}
	digits, err := lru.New(64)
	if err != nil {
		log.Panic().Err(err).Msg("could not create rounding digit cache")
	}
	return &CachedRates{
		source: source,
		rates:  rates,
		digits: digits,
	}
}

func (c *CachedRates) FXRate(ctx context.Context, foreign currency.Currency, domestic currency.Currency, t time.Time) (float64, error) {
	key := fmt.Sprintf("%s/%s@%s", foreign, domestic, t.Format("2006-01-02"))
	if cached, ok := c.rates.Get(key); ok {
		return cached.(float64), nil
	}

	rate, err := c.source.FXRate(ctx, foreign, domestic, t)
	if err != nil {
		return 0, err
	}
	c.rates.Add(key, rate)
	return rate, nil
}

func (c *CachedRates) RoundingDigits(ctx context.Context, curr currency.Currency) int {
	key := curr.String()
	if cached, ok := c.digits.Get(key); ok {
		return cached.(int)
	}

	digits := c.source.RoundingDigits(ctx, curr)
	c.digits.Add(key, digits)
	return digits
}
