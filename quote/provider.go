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

package quote

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrFetchFailed indicates a market data request could not be completed
	ErrFetchFailed = errors.New("could not fetch quote")
)

// Provider fetches quotes from an external market data source
type Provider interface {
	FetchLatestQuote(ctx context.Context, ticker *Ticker) (*Quote, error)
	FetchQuoteHistory(ctx context.Context, ticker *Ticker, start time.Time, end time.Time) ([]*Quote, error)
}

// UpdateQuoteHistory fetches the quote history for a ticker from the
// provider and persists every returned quote
func UpdateQuoteHistory(ctx context.Context, store Store, provider Provider, ticker *Ticker, start time.Time, end time.Time) (int, error) {
	quotes, err := provider.FetchQuoteHistory(ctx, ticker, start, end)
	if err != nil {
		return 0, err
	}
	for _, q := range quotes {
		if _, err := store.InsertQuote(ctx, q); err != nil {
			return 0, err
		}
	}
	return len(quotes), nil
}
