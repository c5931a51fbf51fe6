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

	"github.com/penny-vault/finq/currency"
)

var (
	ErrTickerNotFound = errors.New("ticker not found")
	ErrQuoteNotFound  = errors.New("quote not found")
	ErrAssetNotFound  = errors.New("asset not found")
	ErrNotStored      = errors.New("record has not been stored to the database")
)

// Store persists assets, tickers, and their quotes
type Store interface {
	// assets
	InsertIfNewAsset(ctx context.Context, name string) (int64, error)
	AssetID(ctx context.Context, name string) (int64, error)

	// tickers
	InsertTicker(ctx context.Context, ticker *Ticker) (int64, error)
	InsertIfNewTicker(ctx context.Context, ticker *Ticker) (int64, error)
	TickerID(ctx context.Context, name string) (int64, error)
	TickerByID(ctx context.Context, id int64) (*Ticker, error)
	AllTickers(ctx context.Context) ([]*Ticker, error)
	TickersForSource(ctx context.Context, source string) ([]*Ticker, error)
	TickersForAsset(ctx context.Context, assetID int64) ([]*Ticker, error)
	UpdateTicker(ctx context.Context, ticker *Ticker) error
	DeleteTicker(ctx context.Context, id int64) error

	// quotes
	InsertQuote(ctx context.Context, quote *Quote) (int64, error)
	LastQuoteBefore(ctx context.Context, assetName string, t time.Time) (*Quote, currency.Currency, error)
	LastQuoteBeforeByID(ctx context.Context, assetID int64, t time.Time) (*Quote, currency.Currency, error)
	QuotesForTicker(ctx context.Context, tickerID int64) ([]*Quote, error)
	UpdateQuote(ctx context.Context, quote *Quote) error
	DeleteQuote(ctx context.Context, id int64) error
	RemoveDuplicates(ctx context.Context) error

	// rounding digits
	RoundingDigits(ctx context.Context, c currency.Currency) int32
	SetRoundingDigits(ctx context.Context, c currency.Currency, digits int32) error
}
