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

package fixedincome_test

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/currency"
	"github.com/penny-vault/finq/fixedincome"
)

var _ = Describe("Yield to maturity", func() {
	var (
		eur currency.Currency
		jpy currency.Currency
	)

	const tol = 1e-11

	BeforeEach(func() {
		eur = currency.MustParse("EUR")
		jpy = currency.MustParse("JPY")
	})

	Context("when solving for the internal rate of return", func() {
		It("recovers a 5% yield from a single flow one year out", func() {
			flows := []cashflow.CashFlow{
				cashflow.New(1050, eur, time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC)),
			}
			initial := cashflow.New(-1000, eur, time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC))

			ytm, err := fixedincome.CashFlowsYTM(flows, initial)
			Expect(err).To(BeNil())
			Expect(ytm).To(BeNumerically("~", 0.05, tol))
		})

		It("recovers the coupon rate of a par-priced coupon stream", func() {
			start := time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC)
			flows := []cashflow.CashFlow{
				cashflow.New(30, eur, start.AddDate(1, 0, 0)),
				cashflow.New(30, eur, start.AddDate(2, 0, 0)),
				cashflow.New(1030, eur, start.AddDate(3, 0, 0)),
			}
			initial := cashflow.New(-1000, eur, start)

			ytm, err := fixedincome.CashFlowsYTM(flows, initial)
			Expect(err).To(BeNil())
			Expect(ytm).To(BeNumerically("~", 0.03, tol))
		})

		It("fails on mixed currencies", func() {
			flows := []cashflow.CashFlow{
				cashflow.New(1050, jpy, time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC)),
			}
			initial := cashflow.New(-1000, eur, time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC))

			_, err := fixedincome.CashFlowsYTM(flows, initial)
			Expect(errors.Is(err, fixedincome.ErrMixedCurrencies)).To(BeTrue())
		})

		It("fails with yield-not-found when every cash flow is zero", func() {
			flows := []cashflow.CashFlow{
				cashflow.New(0, eur, time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC)),
			}
			initial := cashflow.New(0, eur, time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC))

			_, err := fixedincome.CashFlowsYTM(flows, initial)
			Expect(errors.Is(err, fixedincome.ErrYieldNotFound)).To(BeTrue())
		})

		It("fails with yield-not-found when the yield lies outside the bracket", func() {
			// a doubling over one year implies a 100% yield, far above the
			// 50% upper search bound
			flows := []cashflow.CashFlow{
				cashflow.New(2000, eur, time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC)),
			}
			initial := cashflow.New(-1000, eur, time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC))

			_, err := fixedincome.CashFlowsYTM(flows, initial)
			Expect(errors.Is(err, fixedincome.ErrYieldNotFound)).To(BeTrue())
		})
	})

	Context("when using the root finder directly", func() {
		It("finds the root of a smooth function", func() {
			brent := fixedincome.NewBrent()
			root, err := brent.Solve(func(x float64) float64 {
				return x*x - 0.25
			}, 0, 1)
			Expect(err).To(BeNil())
			Expect(root).To(BeNumerically("~", 0.5, 1e-10))
		})

		It("returns roots found exactly at a bracket endpoint", func() {
			brent := fixedincome.NewBrent()
			root, err := brent.Solve(func(x float64) float64 {
				return x
			}, 0, 1)
			Expect(err).To(BeNil())
			Expect(root).To(Equal(0.0))
		})

		It("errors when the bracket has no sign change", func() {
			brent := fixedincome.NewBrent()
			_, err := brent.Solve(func(x float64) float64 {
				return 1.0 + x
			}, 0, 1)
			Expect(errors.Is(err, fixedincome.ErrNoBracket)).To(BeTrue())
		})

		It("errors on NaN objectives instead of reporting a rate", func() {
			brent := fixedincome.NewBrent()
			_, err := brent.Solve(func(_ float64) float64 {
				return math.NaN()
			}, 0, 1)
			Expect(errors.Is(err, fixedincome.ErrNoBracket)).To(BeTrue())
		})
	})
})
