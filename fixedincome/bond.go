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
	"time"

	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/currency"
)

var (
	ErrInvalidCouponFrequency = errors.New("coupon frequency must divide 12 months")
	ErrInvalidSchedule        = errors.New("maturity must be after the issue date")
)

// Bond is a fixed-coupon bullet bond. Coupon dates are generated backwards
// from maturity and rolled to the next business day of the bond's calendar.
type Bond struct {
	ISIN            string            `json:"isin"`
	Currency        currency.Currency `json:"currency"`
	FaceValue       float64           `json:"faceValue"`
	CouponRate      float64           `json:"couponRate"`
	CouponFrequency int               `json:"couponFrequency"`
	IssueDate       time.Time         `json:"issueDate"`
	MaturityDate    time.Time         `json:"maturityDate"`
	CalendarName    string            `json:"calendar"`
}

// couponDates returns the unadjusted coupon schedule in ascending order,
// maturity included
func (b *Bond) couponDates() []time.Time {
	months := 12 / b.CouponFrequency
	dates := make([]time.Time, 0, 2*b.CouponFrequency)
	for d := b.MaturityDate; d.After(b.IssueDate); d = d.AddDate(0, -months, 0) {
		dates = append(dates, d)
	}
	// reverse into ascending order
	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}

func (b *Bond) validate() error {
	if b.CouponFrequency <= 0 || 12%b.CouponFrequency != 0 {
		return ErrInvalidCouponFrequency
	}
	if !b.MaturityDate.After(b.IssueDate) {
		return ErrInvalidSchedule
	}
	return nil
}

// RolloutCashFlows transforms the bond into its coupon and principal
// payments for a position of the given size
func (b *Bond) RolloutCashFlows(position float64, market Market) ([]cashflow.CashFlow, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	cal, err := market.Calendar(b.CalendarName)
	if err != nil {
		return nil, err
	}

	coupon := position * b.FaceValue * b.CouponRate / float64(b.CouponFrequency)
	dates := b.couponDates()

	flows := make([]cashflow.CashFlow, 0, len(dates))
	for i, d := range dates {
		amount := coupon
		if i == len(dates)-1 {
			amount += position * b.FaceValue
		}
		flows = append(flows, cashflow.New(amount, b.Currency, cal.NextBusinessDay(d)))
	}
	return flows, nil
}

// AccruedInterest computes the coupon interest accrued from the last coupon
// date through today, per unit notional, using linear accrual within the
// period
func (b *Bond) AccruedInterest(today time.Time) (float64, error) {
	if err := b.validate(); err != nil {
		return 0, err
	}
	if today.Before(b.IssueDate) || !b.MaturityDate.After(today) {
		return 0, nil
	}

	// walk back from maturity to the coupon period containing today
	months := 12 / b.CouponFrequency
	next := b.MaturityDate
	for {
		prev := next.AddDate(0, -months, 0)
		if !prev.After(today) {
			periodDays := next.Sub(prev).Hours() / 24.0
			accruedDays := today.Sub(prev).Hours() / 24.0
			return b.FaceValue * b.CouponRate / float64(b.CouponFrequency) * accruedDays / periodDays, nil
		}
		next = prev
	}
}
