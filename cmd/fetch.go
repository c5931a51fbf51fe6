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
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/finq/common"
	"github.com/penny-vault/finq/database"
	"github.com/penny-vault/finq/observability/opentelemetry"
	"github.com/penny-vault/finq/quote"
)

var (
	fetchFrom string
	fetchTo   string
)

func init() {
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "First date to fetch as YYYY-MM-dd")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "Last date to fetch as YYYY-MM-dd, defaults to today")
	fetchCmd.MarkFlagRequired("from")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [ticker]",
	Args:  cobra.ExactArgs(1),
	Short: "Fetch quote history from EOD Historical Data and store it",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		ctx := context.Background()

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Error().Err(err).Msg("could not setup tracing")
			} else {
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Error().Err(err).Msg("could not shutdown tracing")
					}
				}()
			}
		}

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		store := quote.NewPostgresStore(database.Pool())

		tickerName := args[0]
		tickerID, err := store.TickerID(ctx, tickerName)
		if err != nil {
			log.Fatal().Err(err).Str("TickerName", tickerName).Msg("unknown ticker")
		}
		ticker, err := store.TickerByID(ctx, tickerID)
		if err != nil {
			log.Fatal().Err(err).Str("TickerName", tickerName).Msg("could not load ticker")
		}

		start, err := time.Parse("2006-01-02", fetchFrom)
		if err != nil {
			log.Fatal().Err(err).Str("InputStr", fetchFrom).Msg("could not parse from date - expected format 2006-01-02")
		}
		end := time.Now().UTC()
		if fetchTo != "" {
			end, err = time.Parse("2006-01-02", fetchTo)
			if err != nil {
				log.Fatal().Err(err).Str("InputStr", fetchTo).Msg("could not parse to date - expected format 2006-01-02")
			}
		}

		provider := quote.NewEODHistData(viper.GetString("eodhistdata.token"))
		n, err := quote.UpdateQuoteHistory(ctx, store, provider, ticker, start, end)
		if err != nil {
			log.Fatal().Err(err).Str("TickerName", tickerName).Msg("could not update quote history")
		}
		log.Info().Str("TickerName", tickerName).Int("NumQuotes", n).Msg("stored quote history")
	},
}
