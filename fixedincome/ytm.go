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

package fixedincome

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/penny-vault/finq/calendar"
	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/rates"
)

var (
	ErrMixedCurrencies = errors.New("cash flows span multiple currencies")
	ErrYieldNotFound   = errors.New("yield not found")
)

// yield search interval: 0% to 50% annual yield
const (
	ytmLowerBound = 0.0
	ytmUpperBound = 0.5
)

// Market supplies instrument-independent context needed to roll out cash
// flows, such as business-day calendars
type Market interface {
	Calendar(name string) (*calendar.Calendar, error)
}

// FixedIncome is implemented by instruments that can be decomposed into a
// deterministic stream of cash flows
type FixedIncome interface {
	// RolloutCashFlows transforms the instrument into the ordered list of
	// cash flows paid on a position of the given size
	RolloutCashFlows(position float64, market Market) ([]cashflow.CashFlow, error)

	// AccruedInterest computes the interest accrued in the current coupon
	// period per unit notional
	AccruedInterest(today time.Time) (float64, error)
}

// CalculateYTM computes the yield to maturity of an instrument given the
// purchase cash flow (the signed investment; negative for a purchase)
func CalculateYTM(instrument FixedIncome, purchase cashflow.CashFlow, market Market) (float64, error) {
	flows, err := instrument.RolloutCashFlows(1.0, market)
	if err != nil {
		return 0, err
	}
	return CashFlowsYTM(flows, purchase)
}

// CashFlowsYTM computes the internal rate of return of a stream of cash
// flows. It finds the flat annual rate that gives zero aggregate value of
// all cash flows, discounted to the payment date of the initial cash flow.
// All cash flows must share one currency.
func CashFlowsYTM(flows []cashflow.CashFlow, initial cashflow.CashFlow) (float64, error) {
	return CashFlowsYTMWith(NewBrent(), flows, initial)
}

// CashFlowsYTMWith is CashFlowsYTM with a caller-chosen root finder
func CashFlowsYTMWith(solver RootFinder, flows []cashflow.CashFlow, initial cashflow.CashFlow) (float64, error) {
	curr := initial.Amount.Currency
	for _, cf := range flows {
		if !cf.Amount.Currency.Equal(curr) {
			return 0, ErrMixedCurrencies
		}
	}

	flatRate := rates.NewFlatRate(0.05, rates.Act365, rates.Annual, curr)
	today := initial.Date

	objective := func(rate float64) float64 {
		discountRate := flatRate
		discountRate.Rate = rate
		sum, err := discountRate.DiscountSum(flows, today)
		if err != nil {
			return math.NaN()
		}
		return initial.Amount.Amount + sum.Amount
	}

	root, err := solver.Solve(objective, ytmLowerBound, ytmUpperBound)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrYieldNotFound, err)
	}
	return root, nil
}
