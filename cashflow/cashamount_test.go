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

package cashflow_test

import (
	"context"
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/currency"
)

// fixedRates serves a single stored pair and its inverse, the way a quote
// store would
type fixedRates struct {
	foreign  currency.Currency
	domestic currency.Currency
	rate     float64
	digits   map[string]int
}

func (r *fixedRates) FXRate(_ context.Context, foreign, domestic currency.Currency, _ time.Time) (float64, error) {
	if foreign.Equal(domestic) {
		return 1.0, nil
	}
	if foreign.Equal(r.foreign) && domestic.Equal(r.domestic) {
		return r.rate, nil
	}
	if foreign.Equal(r.domestic) && domestic.Equal(r.foreign) {
		return 1.0 / r.rate, nil
	}
	return 0, currency.ErrConversionFailed
}

func (r *fixedRates) RoundingDigits(_ context.Context, curr currency.Currency) int {
	if digits, ok := r.digits[curr.String()]; ok {
		return digits
	}
	return 2
}

var _ = Describe("CashAmount", func() {
	var (
		ctx  context.Context
		eur  currency.Currency
		jpy  currency.Currency
		src  *fixedRates
		when time.Time
	)

	const (
		tol    = 1e-11
		fxRate = 81.2345
	)

	BeforeEach(func() {
		ctx = context.Background()
		eur = currency.MustParse("EUR")
		jpy = currency.MustParse("JPY")
		when = time.Date(2020, 4, 6, 18, 0, 0, 0, time.UTC)
		src = &fixedRates{
			foreign:  eur,
			domestic: jpy,
			rate:     fxRate,
			digits:   map[string]int{"JPY": 0},
		}
	})

	Context("when combining amounts of the same currency", func() {
		It("adds directly", func() {
			tmp := cashflow.CashAmount{Amount: 0, Currency: eur}
			Expect(tmp.Add(ctx, cashflow.CashAmount{Amount: 100, Currency: eur}, when, src, false)).To(Succeed())
			Expect(tmp.Amount).To(BeNumerically("~", 100.0, tol))
		})

		It("skips nil optional operands", func() {
			tmp := cashflow.CashAmount{Amount: 300, Currency: eur}
			Expect(tmp.AddOpt(ctx, nil, when, src, false)).To(Succeed())
			Expect(tmp.Amount).To(BeNumerically("~", 300.0, tol))
			Expect(tmp.SubOpt(ctx, nil, when, src, false)).To(Succeed())
			Expect(tmp.Amount).To(BeNumerically("~", 300.0, tol))
		})

		It("adds optional operands that are present", func() {
			tmp := cashflow.CashAmount{Amount: 100, Currency: eur}
			other := &cashflow.CashAmount{Amount: 200, Currency: eur}
			Expect(tmp.AddOpt(ctx, other, when, src, false)).To(Succeed())
			Expect(tmp.Amount).To(BeNumerically("~", 300.0, tol))
		})
	})

	Context("when combining amounts across currencies", func() {
		It("converts the foreign amount before adding", func() {
			tmp := cashflow.CashAmount{Amount: 300, Currency: eur}
			Expect(tmp.Add(ctx, cashflow.CashAmount{Amount: 7500, Currency: jpy}, when, src, false)).To(Succeed())
			Expect(tmp.Amount).To(BeNumerically("~", 300.0+7500.0/fxRate, tol))
			Expect(tmp.Currency.String()).To(Equal("EUR"))
		})

		It("converts the foreign amount before subtracting", func() {
			tmp := cashflow.CashAmount{Amount: 300 + 7500.0/fxRate, Currency: eur}
			Expect(tmp.Sub(ctx, cashflow.CashAmount{Amount: 7500, Currency: jpy}, when, src, false)).To(Succeed())
			Expect(tmp.Amount).To(BeNumerically("~", 300.0, tol))
		})

		It("keeps the receiver's currency in both directions", func() {
			a := cashflow.CashAmount{Amount: 100, Currency: eur}
			Expect(a.Add(ctx, cashflow.CashAmount{Amount: 7500, Currency: jpy}, when, src, false)).To(Succeed())
			Expect(a.Currency.String()).To(Equal("EUR"))
			Expect(a.Amount).To(BeNumerically("~", 100.0+7500.0/fxRate, tol))

			b := cashflow.CashAmount{Amount: 7500, Currency: jpy}
			Expect(b.Add(ctx, cashflow.CashAmount{Amount: 100, Currency: eur}, when, src, false)).To(Succeed())
			Expect(b.Currency.String()).To(Equal("JPY"))
			Expect(b.Amount).To(BeNumerically("~", 7500.0+100.0*fxRate, tol))
		})

		It("rounds the result by convention when requested", func() {
			a := cashflow.CashAmount{Amount: 100, Currency: eur}
			Expect(a.Add(ctx, cashflow.CashAmount{Amount: 7500, Currency: jpy}, when, src, true)).To(Succeed())
			Expect(a.Amount).To(BeNumerically("~", math.Round((100.0+7500.0/fxRate)*100.0)/100.0, tol))

			b := cashflow.CashAmount{Amount: 7500, Currency: jpy}
			Expect(b.Add(ctx, cashflow.CashAmount{Amount: 100, Currency: eur}, when, src, true)).To(Succeed())
			Expect(b.Amount).To(BeNumerically("~", math.Round(7500.0+100.0*fxRate), tol))
		})

		It("propagates conversion failures without modifying the receiver", func() {
			chf := currency.MustParse("CHF")
			tmp := cashflow.CashAmount{Amount: 100, Currency: chf}
			err := tmp.Add(ctx, cashflow.CashAmount{Amount: 7500, Currency: jpy}, when, src, false)
			Expect(errors.Is(err, currency.ErrConversionFailed)).To(BeTrue())
			Expect(tmp.Amount).To(BeNumerically("~", 100.0, tol))
		})
	})

	Context("when rounding by convention", func() {
		It("uses the digit count from the convention table", func() {
			conventions := map[string]int{"JPY": 0}
			amt := cashflow.CashAmount{Amount: 7511.4, Currency: jpy}
			Expect(amt.RoundByConvention(conventions).Amount).To(BeNumerically("~", 7511.0, tol))
		})

		It("defaults to 2 digits with an empty table", func() {
			amt := cashflow.CashAmount{Amount: 101.2345, Currency: eur}
			Expect(amt.RoundByConvention(map[string]int{}).Amount).To(BeNumerically("~", 101.23, tol))

			jpyAmt := cashflow.CashAmount{Amount: 7511.449, Currency: jpy}
			Expect(jpyAmt.RoundByConvention(map[string]int{}).Amount).To(BeNumerically("~", 7511.45, tol))
		})
	})

	Context("when negating", func() {
		It("flips the sign and keeps the currency", func() {
			amt := cashflow.CashAmount{Amount: 42.5, Currency: eur}
			neg := amt.Neg()
			Expect(neg.Amount).To(Equal(-42.5))
			Expect(neg.Currency.Equal(eur)).To(BeTrue())
		})
	})
})
