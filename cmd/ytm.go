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
	"fmt"
	"io/ioutil"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/finq/calendar"
	"github.com/penny-vault/finq/cashflow"
	"github.com/penny-vault/finq/common"
	"github.com/penny-vault/finq/fixedincome"
)

var (
	ytmBondFile      string
	ytmPurchasePrice float64
	ytmPurchaseDate  string
)

func init() {
	ytmCmd.Flags().StringVar(&ytmBondFile, "bond", "", "JSON file describing the bond")
	ytmCmd.Flags().Float64Var(&ytmPurchasePrice, "price", 0, "Purchase price in the bond's currency")
	ytmCmd.Flags().StringVar(&ytmPurchaseDate, "date", "", "Purchase date as YYYY-MM-dd, defaults to today")
	ytmCmd.MarkFlagRequired("bond")
	ytmCmd.MarkFlagRequired("price")
	rootCmd.AddCommand(ytmCmd)
}

var ytmCmd = &cobra.Command{
	Use:   "ytm",
	Short: "Compute the yield-to-maturity of a bond purchased at a given price",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		raw, err := ioutil.ReadFile(ytmBondFile)
		if err != nil {
			log.Fatal().Err(err).Str("BondFile", ytmBondFile).Msg("could not read bond file")
		}

		bond := &fixedincome.Bond{}
		if err := json.Unmarshal(raw, bond); err != nil {
			log.Fatal().Err(err).Str("BondFile", ytmBondFile).Msg("could not parse bond file")
		}

		purchaseDate := time.Now().UTC()
		if ytmPurchaseDate != "" {
			purchaseDate, err = time.Parse("2006-01-02", ytmPurchaseDate)
			if err != nil {
				log.Fatal().Err(err).Str("InputStr", ytmPurchaseDate).Msg("could not parse purchase date - expected format 2006-01-02")
			}
		}

		// calendars are built wide enough to cover the bond's full life
		market := fixedincome.NewStaticMarket(nil,
			calendar.WeekendsOnly(bond.IssueDate.Year(), bond.MaturityDate.Year()+1))

		purchase := cashflow.New(-ytmPurchasePrice, bond.Currency, purchaseDate)
		ytm, err := fixedincome.CalculateYTM(bond, purchase, market)
		if err != nil {
			log.Fatal().Err(err).Msg("could not compute yield-to-maturity")
		}

		fmt.Printf("%s  ytm: %.6f%%\n", bond.ISIN, ytm*100)
	},
}
