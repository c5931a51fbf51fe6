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
	"fmt"
	"math"
	"time"

	"github.com/penny-vault/finq/currency"
)

// CashFlow is a single dated payment. Dates have calendar-day resolution;
// two flows on the same calendar day compare equal in date regardless of the
// time-of-day carried by the time value.
type CashFlow struct {
	Amount CashAmount `json:"amount"`
	Date   time.Time  `json:"date"`
}

// New constructs a cash flow of the given amount and currency on date
func New(amount float64, curr currency.Currency, date time.Time) CashFlow {
	return CashFlow{
		Amount: CashAmount{
			Amount:   amount,
			Currency: curr,
		},
		Date: date,
	}
}

// SameDate reports whether two time values fall on the same calendar day
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Aggregatable reports whether two cash flows could be combined into one,
// i.e. they share both currency and date
func (cf CashFlow) Aggregatable(other CashFlow) bool {
	if !cf.Amount.Currency.Equal(other.Amount.Currency) {
		return false
	}
	return SameDate(cf.Date, other.Date)
}

// FuzzyEqual compares two cash flows for equality within an absolute
// tolerance. Flows with different currencies or dates are never equal, nor
// are flows whose amount is NaN.
func (cf CashFlow) FuzzyEqual(other CashFlow, tol float64) bool {
	if !cf.Aggregatable(other) {
		return false
	}
	if math.IsNaN(cf.Amount.Amount) || math.IsNaN(other.Amount.Amount) {
		return false
	}
	return math.Abs(cf.Amount.Amount-other.Amount.Amount) <= tol
}

// Neg returns the cash flow with its sign flipped
func (cf CashFlow) Neg() CashFlow {
	return CashFlow{
		Amount: cf.Amount.Neg(),
		Date:   cf.Date,
	}
}

func (cf CashFlow) String() string {
	return fmt.Sprintf("%s %s", cf.Date.Format("2006-01-02"), cf.Amount)
}

// FlowsAfter returns all cash flows strictly after the given date
func FlowsAfter(flows []CashFlow, date time.Time) []CashFlow {
	after := make([]CashFlow, 0, len(flows))
	for _, cf := range flows {
		if cf.Date.After(date) && !SameDate(cf.Date, date) {
			after = append(after, cf)
		}
	}
	return after
}
