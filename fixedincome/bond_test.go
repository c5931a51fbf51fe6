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
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/finq/calendar"
	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/currency"
	"github.com/penny-vault/finq/fixedincome"
)

// testMarket serves a single weekends-only calendar under any name
type testMarket struct {
	cal *calendar.Calendar
}

func (m *testMarket) Calendar(name string) (*calendar.Calendar, error) {
	if m.cal == nil {
		return nil, fmt.Errorf("unknown calendar %q", name)
	}
	return m.cal, nil
}

var _ = Describe("Bond", func() {
	var (
		eur    currency.Currency
		bond   *fixedincome.Bond
		market *testMarket
	)

	BeforeEach(func() {
		eur = currency.MustParse("EUR")
		bond = &fixedincome.Bond{
			ISIN:            "DE0001102333",
			Currency:        eur,
			FaceValue:       1000,
			CouponRate:      0.05,
			CouponFrequency: 1,
			IssueDate:       calendar.Date(2020, 10, 1),
			MaturityDate:    calendar.Date(2023, 10, 1),
			CalendarName:    "TARGET",
		}
		market = &testMarket{cal: calendar.WeekendsOnly(2020, 2024)}
	})

	Context("when rolling out cash flows", func() {
		It("produces one coupon per period plus principal at maturity", func() {
			flows, err := bond.RolloutCashFlows(1.0, market)
			Expect(err).To(BeNil())
			Expect(flows).To(HaveLen(3))
			Expect(flows[0].Amount.Amount).To(Equal(50.0))
			Expect(flows[1].Amount.Amount).To(Equal(50.0))
			Expect(flows[2].Amount.Amount).To(Equal(1050.0))
			Expect(flows[2].Amount.Currency.Equal(eur)).To(BeTrue())
		})

		It("scales with the position size", func() {
			flows, err := bond.RolloutCashFlows(10, market)
			Expect(err).To(BeNil())
			Expect(flows[0].Amount.Amount).To(Equal(500.0))
			Expect(flows[2].Amount.Amount).To(Equal(10500.0))
		})

		It("rolls payment dates forward to business days", func() {
			// 2021-10-01 falls on a Friday but 2022-10-01 on a Saturday,
			// so the 2022 coupon pays on Monday the 3rd
			flows, err := bond.RolloutCashFlows(1.0, market)
			Expect(err).To(BeNil())
			Expect(flows[0].Date).To(Equal(calendar.Date(2021, 10, 1)))
			Expect(flows[1].Date).To(Equal(calendar.Date(2022, 10, 3)))
		})

		It("rejects coupon frequencies that do not divide the year", func() {
			bond.CouponFrequency = 5
			_, err := bond.RolloutCashFlows(1.0, market)
			Expect(errors.Is(err, fixedincome.ErrInvalidCouponFrequency)).To(BeTrue())
		})

		It("rejects maturity on or before issue", func() {
			bond.MaturityDate = bond.IssueDate
			_, err := bond.RolloutCashFlows(1.0, market)
			Expect(errors.Is(err, fixedincome.ErrInvalidSchedule)).To(BeTrue())
		})
	})

	Context("when computing accrued interest", func() {
		It("is zero at a coupon date", func() {
			accrued, err := bond.AccruedInterest(calendar.Date(2021, 10, 1))
			Expect(err).To(BeNil())
			Expect(accrued).To(BeNumerically("~", 0.0, 1e-11))
		})

		It("accrues linearly through the coupon period", func() {
			// half of the 365-day period from 2021-10-01 to 2022-10-01
			halfway := calendar.Date(2021, 10, 1).AddDate(0, 0, 182)
			accrued, err := bond.AccruedInterest(halfway)
			Expect(err).To(BeNil())
			Expect(accrued).To(BeNumerically("~", 1000*0.05*182.0/365.0, 1e-9))
		})

		It("is zero outside the bond's life", func() {
			accrued, err := bond.AccruedInterest(calendar.Date(2019, 1, 1))
			Expect(err).To(BeNil())
			Expect(accrued).To(Equal(0.0))
		})
	})

	Context("when computing yield to maturity through the facade", func() {
		It("recovers the coupon rate for a par purchase", func() {
			purchase := cashflow.New(-1000, eur, calendar.Date(2020, 10, 1))
			ytm, err := fixedincome.CalculateYTM(bond, purchase, market)
			Expect(err).To(BeNil())
			// payment dates rolled off weekends pull the yield a hair
			// below the coupon rate
			Expect(ytm).To(BeNumerically("~", 0.05, 5e-4))
		})
	})
})
