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

// Package quote stores market quotes and the tickers that produce them.
package quote

import (
	"time"

	"github.com/penny-vault/finq/currency"
)

// Ticker identifies an asset at a single market data source. Multiple
// tickers may reference the same asset; Priority breaks ties between them,
// lower values winning.
type Ticker struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Asset    int64             `json:"asset"`
	Source   string            `json:"source"`
	Priority int32             `json:"priority"`
	Currency currency.Currency `json:"currency"`
	Factor   float64           `json:"factor"`
	TZ       string            `json:"tz,omitempty"`
	Cal      string            `json:"cal,omitempty"`
}

// Quote is a single observed price for a ticker. Volume is nil when the
// source does not report one.
type Quote struct {
	ID     int64     `json:"id"`
	Ticker int64     `json:"ticker"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
	Volume *float64  `json:"volume,omitempty"`
}
