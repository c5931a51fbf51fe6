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
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/currency"
)

var _ = Describe("CashFlow", func() {
	var (
		eur  currency.Currency
		jpy  currency.Currency
		date time.Time
	)

	BeforeEach(func() {
		eur = currency.MustParse("EUR")
		jpy = currency.MustParse("JPY")
		date = time.Date(2021, 10, 1, 0, 0, 0, 0, time.UTC)
	})

	Context("when checking aggregatability", func() {
		It("accepts flows with the same currency and date", func() {
			a := cashflow.New(100, eur, date)
			b := cashflow.New(-55, eur, date)
			Expect(a.Aggregatable(b)).To(BeTrue())
		})

		It("ignores time-of-day differences on the same calendar day", func() {
			a := cashflow.New(100, eur, date)
			b := cashflow.New(200, eur, date.Add(18*time.Hour))
			Expect(a.Aggregatable(b)).To(BeTrue())
		})

		It("rejects flows with different currencies", func() {
			a := cashflow.New(100, eur, date)
			b := cashflow.New(100, jpy, date)
			Expect(a.Aggregatable(b)).To(BeFalse())
		})

		It("rejects flows with different dates", func() {
			a := cashflow.New(100, eur, date)
			b := cashflow.New(100, eur, date.AddDate(0, 0, 1))
			Expect(a.Aggregatable(b)).To(BeFalse())
		})
	})

	Context("when comparing with tolerance", func() {
		It("accepts amounts within tolerance", func() {
			a := cashflow.New(100.0, eur, date)
			b := cashflow.New(100.0+1e-13, eur, date)
			Expect(a.FuzzyEqual(b, 1e-11)).To(BeTrue())
		})

		It("rejects amounts outside tolerance", func() {
			a := cashflow.New(100.0, eur, date)
			b := cashflow.New(100.1, eur, date)
			Expect(a.FuzzyEqual(b, 1e-11)).To(BeFalse())
		})

		It("rejects flows with different currencies regardless of tolerance", func() {
			a := cashflow.New(100.0, eur, date)
			b := cashflow.New(100.0, jpy, date)
			Expect(a.FuzzyEqual(b, math.Inf(1))).To(BeFalse())
		})

		It("rejects flows with different dates regardless of tolerance", func() {
			a := cashflow.New(100.0, eur, date)
			b := cashflow.New(100.0, eur, date.AddDate(0, 0, 3))
			Expect(a.FuzzyEqual(b, math.Inf(1))).To(BeFalse())
		})

		It("rejects NaN amounts", func() {
			a := cashflow.New(math.NaN(), eur, date)
			b := cashflow.New(math.NaN(), eur, date)
			Expect(a.FuzzyEqual(b, 1e-11)).To(BeFalse())
		})
	})

	Context("when filtering future flows", func() {
		It("keeps only flows strictly after the cutoff", func() {
			flows := []cashflow.CashFlow{
				cashflow.New(1, eur, date.AddDate(0, 0, -1)),
				cashflow.New(2, eur, date),
				cashflow.New(3, eur, date.AddDate(0, 0, 1)),
				cashflow.New(4, eur, date.AddDate(0, 1, 0)),
			}
			after := cashflow.FlowsAfter(flows, date)
			Expect(after).To(HaveLen(2))
			Expect(after[0].Amount.Amount).To(Equal(3.0))
			Expect(after[1].Amount.Amount).To(Equal(4.0))
		})
	})
})
