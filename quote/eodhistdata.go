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

package quote

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/penny-vault/finq/observability/opentelemetry"
)

var eodHistDataAPI = "https://eodhistoricaldata.com"

// EODHistData fetches quotes from the EOD Historical Data REST API
type EODHistData struct {
	token   string
	baseURL string
}

type eodRealTimeResponse struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type eodHistoryResponse struct {
	Date   string   `json:"date"`
	Close  *float64 `json:"close"`
	Volume *float64 `json:"volume"`
}

// NewEODHistData creates a provider using the public API endpoint
func NewEODHistData(token string) *EODHistData {
	return &EODHistData{
		token:   token,
		baseURL: eodHistDataAPI,
	}
}

func (eod *EODHistData) fetch(ctx context.Context, url string, out interface{}) error {
	subLog := log.With().Str("Url", url).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("eodhistoricaldata http request failed")
		return fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg("eodhistoricaldata returned invalid response code")
		return fmt.Errorf("%w: HTTP request returned invalid status code: %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read eodhistoricaldata body")
		return fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		subLog.Error().Err(err).Bytes("Body", body).Msg("could not unmarshal json")
		return fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	return nil
}

// FetchLatestQuote returns the most recent real-time quote for a ticker
func (eod *EODHistData) FetchLatestQuote(ctx context.Context, ticker *Ticker) (*Quote, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "eodhistdata.FetchLatestQuote")
	defer span.End()
	span.SetAttributes(attribute.String("Ticker", ticker.Name))

	url := fmt.Sprintf("%s/api/real-time/%s?api_token=%s&fmt=json", eod.baseURL, ticker.Name, eod.token)
	var resp eodRealTimeResponse
	if err := eod.fetch(ctx, url, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "real-time request failed")
		return nil, err
	}

	volume := resp.Volume
	return &Quote{
		Ticker: ticker.ID,
		Price:  resp.Close,
		Time:   time.Unix(resp.Timestamp, 0).UTC(),
		Volume: &volume,
	}, nil
}

// FetchQuoteHistory returns daily closing quotes between start and end.
// Quotes are stamped at 18:00 UTC, after the major exchanges close.
func (eod *EODHistData) FetchQuoteHistory(ctx context.Context, ticker *Ticker, start time.Time, end time.Time) ([]*Quote, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "eodhistdata.FetchQuoteHistory")
	defer span.End()
	span.SetAttributes(attribute.String("Ticker", ticker.Name))

	url := fmt.Sprintf("%s/api/eod/%s?api_token=%s&fmt=json&from=%s&to=%s",
		eod.baseURL, ticker.Name, eod.token, start.Format("2006-01-02"), end.Format("2006-01-02"))
	resp := []eodHistoryResponse{}
	if err := eod.fetch(ctx, url, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "history request failed")
		return nil, err
	}

	quotes := make([]*Quote, 0, len(resp))
	for _, row := range resp {
		if row.Close == nil {
			continue
		}
		day, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			log.Warn().Str("Date", row.Date).Str("Ticker", ticker.Name).Msg("skipping quote with unparseable date")
			continue
		}
		quotes = append(quotes, &Quote{
			Ticker: ticker.ID,
			Price:  *row.Close,
			Time:   time.Date(day.Year(), day.Month(), day.Day(), 18, 0, 0, 0, time.UTC),
			Volume: row.Volume,
		})
	}
	return quotes, nil
}
