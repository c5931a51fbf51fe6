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

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/finq/calendar"
	"github.com/penny-vault/finq/common"
	"github.com/penny-vault/finq/database"
	"github.com/penny-vault/finq/quote"
	"github.com/penny-vault/finq/timeseries"
)

var gapsToday string

func init() {
	gapsCmd.Flags().StringVar(&gapsToday, "today", "", "Treat this date (YYYY-MM-dd) as today when looking for trailing gaps")
	rootCmd.AddCommand(gapsCmd)
}

var gapsCmd = &cobra.Command{
	Use:   "gaps [ticker]",
	Args:  cobra.ExactArgs(1),
	Short: "List business days with no stored quote for a ticker",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		store := quote.NewPostgresStore(database.Pool())

		tickerName := args[0]
		tickerID, err := store.TickerID(ctx, tickerName)
		if err != nil {
			log.Fatal().Err(err).Str("TickerName", tickerName).Msg("unknown ticker")
		}
		quotes, err := store.QuotesForTicker(ctx, tickerID)
		if err != nil {
			log.Fatal().Err(err).Str("TickerName", tickerName).Msg("could not load quotes")
		}

		ts := &timeseries.TimeSeries{Title: tickerName}
		for _, q := range quotes {
			ts.Series = append(ts.Series, timeseries.TimeValue{Time: q.Time, Value: q.Price})
		}

		today := time.Now().UTC()
		if gapsToday != "" {
			today, err = time.Parse("2006-01-02", gapsToday)
			if err != nil {
				log.Fatal().Err(err).Str("InputStr", gapsToday).Msg("could not parse today - expected format 2006-01-02")
			}
		}

		first, _, err := ts.Span()
		if err != nil {
			log.Fatal().Err(err).Str("TickerName", tickerName).Msg("ticker has no stored quotes")
		}

		cal := calendar.WeekendsOnly(first.Year(), today.Year())
		gaps, err := ts.FindGaps(cal, today)
		if err != nil {
			log.Fatal().Err(err).Str("TickerName", tickerName).Msg("could not compute gaps")
		}

		if len(gaps) == 0 {
			fmt.Printf("%s: no gaps\n", tickerName)
			return
		}
		for _, gap := range gaps {
			fmt.Printf("%s: missing %s - %s\n", tickerName,
				gap.Begin.Format("2006-01-02"), gap.End.Format("2006-01-02"))
		}
	},
}
