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

package cashflow

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/penny-vault/finq/currency"
)

// CashAmount is an amount of money in some currency
type CashAmount struct {
	Amount   float64           `json:"amount"`
	Currency currency.Currency `json:"currency"`
}

// RoundDigits rounds x to the given number of decimal digits. Halves round
// away from zero (math.Round semantics).
func RoundDigits(x float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(x*pow) / pow
}

// Add combines another cash amount into this one. When currencies match the
// addition is direct; otherwise the exchange rate for 1 unit of
// other.Currency in terms of ca.Currency at time t is requested from src and
// the converted amount is added. The result currency is always the
// receiver's. With withRounding set, the result is rounded to the digit
// count src reports for the receiver's currency.
func (ca *CashAmount) Add(ctx context.Context, other CashAmount, t time.Time, src currency.RateSource, withRounding bool) error {
	if ca.Currency.Equal(other.Currency) {
		ca.Amount += other.Amount
		return nil
	}
	fxRate, err := src.FXRate(ctx, other.Currency, ca.Currency, t)
	if err != nil {
		return err
	}
	ca.Amount += fxRate * other.Amount
	if withRounding {
		ca.Amount = RoundDigits(ca.Amount, src.RoundingDigits(ctx, ca.Currency))
	}
	return nil
}

// AddOpt is like Add but treats a nil operand as a no-op
func (ca *CashAmount) AddOpt(ctx context.Context, other *CashAmount, t time.Time, src currency.RateSource, withRounding bool) error {
	if other == nil {
		return nil
	}
	return ca.Add(ctx, *other, t, src, withRounding)
}

// Sub removes another cash amount from this one; conversion rules match Add
func (ca *CashAmount) Sub(ctx context.Context, other CashAmount, t time.Time, src currency.RateSource, withRounding bool) error {
	if ca.Currency.Equal(other.Currency) {
		ca.Amount -= other.Amount
		return nil
	}
	fxRate, err := src.FXRate(ctx, other.Currency, ca.Currency, t)
	if err != nil {
		return err
	}
	ca.Amount -= fxRate * other.Amount
	if withRounding {
		ca.Amount = RoundDigits(ca.Amount, src.RoundingDigits(ctx, ca.Currency))
	}
	return nil
}

// SubOpt is like Sub but treats a nil operand as a no-op
func (ca *CashAmount) SubOpt(ctx context.Context, other *CashAmount, t time.Time, src currency.RateSource, withRounding bool) error {
	if other == nil {
		return nil
	}
	return ca.Sub(ctx, *other, t, src, withRounding)
}

// Round returns a copy rounded to the given number of decimal digits
func (ca CashAmount) Round(digits int) CashAmount {
	return CashAmount{
		Amount:   RoundDigits(ca.Amount, digits),
		Currency: ca.Currency,
	}
}

// RoundByConvention rounds to the digit count found for the currency in the
// given convention table, defaulting to 2 digits when the currency is absent
func (ca CashAmount) RoundByConvention(conventions map[string]int) CashAmount {
	if digits, ok := conventions[ca.Currency.String()]; ok {
		return ca.Round(digits)
	}
	return ca.Round(2)
}

// Neg returns the amount with its sign flipped
func (ca CashAmount) Neg() CashAmount {
	return CashAmount{
		Amount:   -ca.Amount,
		Currency: ca.Currency,
	}
}

func (ca CashAmount) String() string {
	return fmt.Sprintf("%16.4f %s", ca.Amount, ca.Currency)
}
