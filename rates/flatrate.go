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

package rates

import (
	"errors"
	"math"
	"time"

	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/currency"
)

var (
	ErrCurrencyMismatch = errors.New("cash flow currency differs from discount rate currency")
	ErrDiscountFailed   = errors.New("discounting failed")
)

// Discounter computes the present value of a single cash flow with respect
// to a valuation date. Implementations never convert currencies; flows must
// be converted before discounting.
type Discounter interface {
	DiscountCashFlow(cf cashflow.CashFlow, valuationDate time.Time) (cashflow.CashAmount, error)
}

// FlatRate discounts with a single constant annual rate
type FlatRate struct {
	Rate        float64
	DayCount    DayCount
	Compounding Compounding
	Currency    currency.Currency
}

// NewFlatRate constructs a flat discount rate
func NewFlatRate(rate float64, dayCount DayCount, compounding Compounding, curr currency.Currency) FlatRate {
	return FlatRate{
		Rate:        rate,
		DayCount:    dayCount,
		Compounding: compounding,
		Currency:    curr,
	}
}

// DiscountCashFlow computes the present value of cf as of valuationDate. The
// flow must be denominated in the rate's currency; no FX conversion happens
// here.
func (fr FlatRate) DiscountCashFlow(cf cashflow.CashFlow, valuationDate time.Time) (cashflow.CashAmount, error) {
	if !cf.Amount.Currency.Equal(fr.Currency) {
		return cashflow.CashAmount{}, ErrCurrencyMismatch
	}
	yearFraction := fr.DayCount.YearFraction(valuationDate, cf.Date)
	pv := cf.Amount.Amount * fr.Compounding.DiscountFactor(fr.Rate, yearFraction)
	if math.IsNaN(pv) || math.IsInf(pv, 0) {
		return cashflow.CashAmount{}, ErrDiscountFailed
	}
	return cashflow.CashAmount{
		Amount:   pv,
		Currency: fr.Currency,
	}, nil
}

// DiscountSum computes the aggregate present value of a stream of cash
// flows. Flows dated on or before the valuation date contribute zero.
func (fr FlatRate) DiscountSum(flows []cashflow.CashFlow, valuationDate time.Time) (cashflow.CashAmount, error) {
	sum := cashflow.CashAmount{
		Amount:   0,
		Currency: fr.Currency,
	}
	for _, cf := range flows {
		if !cf.Date.After(valuationDate) || cashflow.SameDate(cf.Date, valuationDate) {
			continue
		}
		pv, err := fr.DiscountCashFlow(cf, valuationDate)
		if err != nil {
			return cashflow.CashAmount{}, err
		}
		sum.Amount += pv.Amount
	}
	return sum, nil
}
