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

package quote_test

import (
	"context"
	"errors"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/finq/currency"
	"github.com/penny-vault/finq/quote"
)

var _ = Describe("EODHistData", func() {
	var (
		ctx    context.Context
		eod    *quote.EODHistData
		ticker *quote.Ticker
	)

	BeforeEach(func() {
		ctx = context.Background()
		httpmock.Activate()
		eod = quote.NewEODHistData("TEST")
		ticker = &quote.Ticker{
			ID:       42,
			Name:     "AAPL",
			Asset:    7,
			Source:   "eodhistdata",
			Priority: 1,
			Currency: currency.MustParse("USD"),
			Factor:   1.0,
		}
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Context("when fetching the latest quote", func() {
		It("maps the real-time response to a quote", func() {
			httpmock.RegisterResponder("GET",
				"https://eodhistoricaldata.com/api/real-time/AAPL?api_token=TEST&fmt=json",
				httpmock.NewStringResponder(200,
					`{"timestamp": 1635795000, "close": 149.8, "volume": 69907100}`))

			q, err := eod.FetchLatestQuote(ctx, ticker)
			Expect(err).To(BeNil())
			Expect(q.Ticker).To(Equal(int64(42)))
			Expect(q.Price).To(Equal(149.8))
			Expect(q.Time).To(Equal(time.Unix(1635795000, 0).UTC()))
			Expect(q.Volume).NotTo(BeNil())
			Expect(*q.Volume).To(Equal(69907100.0))
		})

		It("wraps transport errors", func() {
			httpmock.RegisterResponder("GET",
				"https://eodhistoricaldata.com/api/real-time/AAPL?api_token=TEST&fmt=json",
				httpmock.NewErrorResponder(errors.New("connection refused")))

			_, err := eod.FetchLatestQuote(ctx, ticker)
			Expect(errors.Is(err, quote.ErrFetchFailed)).To(BeTrue())
		})

		It("wraps error status codes", func() {
			httpmock.RegisterResponder("GET",
				"https://eodhistoricaldata.com/api/real-time/AAPL?api_token=TEST&fmt=json",
				httpmock.NewStringResponder(403, `{"error": "invalid token"}`))

			_, err := eod.FetchLatestQuote(ctx, ticker)
			Expect(errors.Is(err, quote.ErrFetchFailed)).To(BeTrue())
		})
	})

	Context("when fetching quote history", func() {
		It("stamps daily closes at 18:00 UTC and skips null closes", func() {
			httpmock.RegisterResponder("GET",
				"https://eodhistoricaldata.com/api/eod/AAPL?api_token=TEST&fmt=json&from=2021-11-01&to=2021-11-03",
				httpmock.NewStringResponder(200, `[
					{"date": "2021-11-01", "close": 148.96, "volume": 74588300},
					{"date": "2021-11-02", "close": null, "volume": null},
					{"date": "2021-11-03", "close": 151.49, "volume": 54511500}
				]`))

			quotes, err := eod.FetchQuoteHistory(ctx, ticker,
				time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 11, 3, 0, 0, 0, 0, time.UTC))
			Expect(err).To(BeNil())
			Expect(quotes).To(HaveLen(2))
			Expect(quotes[0].Price).To(Equal(148.96))
			Expect(quotes[0].Time).To(Equal(time.Date(2021, 11, 1, 18, 0, 0, 0, time.UTC)))
			Expect(quotes[1].Price).To(Equal(151.49))
		})

		It("wraps malformed responses", func() {
			httpmock.RegisterResponder("GET",
				"https://eodhistoricaldata.com/api/eod/AAPL?api_token=TEST&fmt=json&from=2021-11-01&to=2021-11-03",
				httpmock.NewStringResponder(200, "not json"))

			_, err := eod.FetchQuoteHistory(ctx, ticker,
				time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 11, 3, 0, 0, 0, 0, time.UTC))
			Expect(errors.Is(err, quote.ErrFetchFailed)).To(BeTrue())
		})
	})
})
