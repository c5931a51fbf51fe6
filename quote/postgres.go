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
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/penny-vault/finq/currency"
	"github.com/penny-vault/finq/observability/opentelemetry"
)

// PgxIface is the slice of the pgx pool API the store needs; pgxmock
// satisfies it in tests
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PostgresStore implements Store against a postgresql database
type PostgresStore struct {
	db PgxIface
}

func NewPostgresStore(db PgxIface) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertIfNewAsset(ctx context.Context, name string) (int64, error) {
	id, err := s.AssetID(ctx, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrAssetNotFound) {
		return 0, err
	}

	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.InsertIfNewAsset")
	defer span.End()

	err = s.db.QueryRow(ctx, "INSERT INTO assets (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "asset insert failed")
		log.Error().Stack().Err(err).Str("AssetName", name).Msg("could not insert asset")
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) AssetID(ctx context.Context, name string) (int64, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.AssetID")
	defer span.End()

	var id int64
	err := s.db.QueryRow(ctx, "SELECT id FROM assets WHERE name=$1", name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrAssetNotFound, name)
	}
	return id, nil
}

func (s *PostgresStore) InsertTicker(ctx context.Context, ticker *Ticker) (int64, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.InsertTicker")
	defer span.End()

	subLog := log.With().Str("TickerName", ticker.Name).Str("Source", ticker.Source).Logger()

	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO ticker (name, asset_id, source, priority, currency, factor, tz, cal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		ticker.Name, ticker.Asset, ticker.Source, ticker.Priority,
		ticker.Currency.String(), ticker.Factor, ticker.TZ, ticker.Cal).Scan(&id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticker insert failed")
		subLog.Error().Stack().Err(err).Msg("could not insert ticker")
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) InsertIfNewTicker(ctx context.Context, ticker *Ticker) (int64, error) {
	id, err := s.TickerID(ctx, ticker.Name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrTickerNotFound) {
		return 0, err
	}
	return s.InsertTicker(ctx, ticker)
}

func (s *PostgresStore) TickerID(ctx context.Context, name string) (int64, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.TickerID")
	defer span.End()

	var id int64
	err := s.db.QueryRow(ctx, "SELECT id FROM ticker WHERE name=$1", name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrTickerNotFound, name)
	}
	return id, nil
}

func (s *PostgresStore) TickerByID(ctx context.Context, id int64) (*Ticker, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.TickerByID")
	defer span.End()

	ticker := &Ticker{ID: id}
	var curr string
	err := s.db.QueryRow(ctx,
		"SELECT name, asset_id, source, priority, currency, factor, tz, cal FROM ticker WHERE id=$1", id).
		Scan(&ticker.Name, &ticker.Asset, &ticker.Source, &ticker.Priority, &curr, &ticker.Factor, &ticker.TZ, &ticker.Cal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticker lookup failed")
		return nil, fmt.Errorf("%w: id %d", ErrTickerNotFound, id)
	}
	if ticker.Currency, err = currency.Parse(curr); err != nil {
		log.Error().Stack().Err(err).Int64("TickerID", id).Str("Currency", curr).Msg("stored ticker has invalid currency")
		return nil, err
	}
	return ticker, nil
}

func (s *PostgresStore) AllTickers(ctx context.Context) ([]*Ticker, error) {
	return s.queryTickers(ctx, "quote.AllTickers",
		"SELECT id, name, asset_id, source, priority, currency, factor, tz, cal FROM ticker")
}

func (s *PostgresStore) TickersForSource(ctx context.Context, source string) ([]*Ticker, error) {
	return s.queryTickers(ctx, "quote.TickersForSource",
		"SELECT id, name, asset_id, source, priority, currency, factor, tz, cal FROM ticker WHERE source=$1", source)
}

func (s *PostgresStore) TickersForAsset(ctx context.Context, assetID int64) ([]*Ticker, error) {
	return s.queryTickers(ctx, "quote.TickersForAsset",
		"SELECT id, name, asset_id, source, priority, currency, factor, tz, cal FROM ticker WHERE asset_id=$1", assetID)
}

func (s *PostgresStore) queryTickers(ctx context.Context, spanName string, sql string, args ...interface{}) ([]*Ticker, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, spanName)
	defer span.End()

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticker query failed")
		log.Error().Stack().Err(err).Str("Query", sql).Msg("could not query tickers")
		return nil, err
	}
	defer rows.Close()

	tickers := make([]*Ticker, 0, 16)
	for rows.Next() {
		ticker := &Ticker{}
		var curr string
		if err := rows.Scan(&ticker.ID, &ticker.Name, &ticker.Asset, &ticker.Source,
			&ticker.Priority, &curr, &ticker.Factor, &ticker.TZ, &ticker.Cal); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "ticker scan failed")
			log.Error().Stack().Err(err).Msg("could not scan ticker row")
			return nil, err
		}
		if ticker.Currency, err = currency.Parse(curr); err != nil {
			log.Error().Stack().Err(err).Int64("TickerID", ticker.ID).Str("Currency", curr).Msg("stored ticker has invalid currency")
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}

func (s *PostgresStore) UpdateTicker(ctx context.Context, ticker *Ticker) error {
	if ticker.ID == 0 {
		return ErrNotStored
	}

	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.UpdateTicker")
	defer span.End()

	_, err := s.db.Exec(ctx,
		`UPDATE ticker SET name=$2, asset_id=$3, source=$4, priority=$5, currency=$6, factor=$7, tz=$8, cal=$9
		WHERE id=$1`,
		ticker.ID, ticker.Name, ticker.Asset, ticker.Source, ticker.Priority,
		ticker.Currency.String(), ticker.Factor, ticker.TZ, ticker.Cal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticker update failed")
		log.Error().Stack().Err(err).Int64("TickerID", ticker.ID).Msg("could not update ticker")
	}
	return err
}

func (s *PostgresStore) DeleteTicker(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.DeleteTicker")
	defer span.End()

	_, err := s.db.Exec(ctx, "DELETE FROM ticker WHERE id=$1", id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ticker delete failed")
		log.Error().Stack().Err(err).Int64("TickerID", id).Msg("could not delete ticker")
	}
	return err
}

func (s *PostgresStore) InsertQuote(ctx context.Context, quote *Quote) (int64, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.InsertQuote")
	defer span.End()

	var id int64
	err := s.db.QueryRow(ctx,
		"INSERT INTO quotes (ticker_id, price, time, volume) VALUES ($1, $2, $3, $4) RETURNING id",
		quote.Ticker, quote.Price, quote.Time, quote.Volume).Scan(&id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote insert failed")
		log.Error().Stack().Err(err).Int64("TickerID", quote.Ticker).Time("QuoteTime", quote.Time).Msg("could not insert quote")
		return 0, err
	}
	return id, nil
}

// LastQuoteBefore returns the most recent quote on or before t for the named
// asset. When several tickers quote at the same instant the one with the
// lowest priority value wins.
func (s *PostgresStore) LastQuoteBefore(ctx context.Context, assetName string, t time.Time) (*Quote, currency.Currency, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.LastQuoteBefore")
	defer span.End()

	row := s.db.QueryRow(ctx,
		`SELECT q.id, q.ticker_id, q.price, q.time, q.volume, t.currency
		FROM quotes q, ticker t, assets a
		WHERE a.name=$1 AND t.asset_id=a.id AND t.id=q.ticker_id AND q.time<=$2
		ORDER BY q.time DESC, t.priority ASC LIMIT 1`, assetName, t)
	return s.scanQuoteRow(row, span, assetName)
}

// LastQuoteBeforeByID is LastQuoteBefore keyed by asset id instead of name
func (s *PostgresStore) LastQuoteBeforeByID(ctx context.Context, assetID int64, t time.Time) (*Quote, currency.Currency, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.LastQuoteBeforeByID")
	defer span.End()

	row := s.db.QueryRow(ctx,
		`SELECT q.id, q.ticker_id, q.price, q.time, q.volume, t.currency
		FROM quotes q, ticker t
		WHERE t.asset_id=$1 AND t.id=q.ticker_id AND q.time<=$2
		ORDER BY q.time DESC, t.priority ASC LIMIT 1`, assetID, t)
	return s.scanQuoteRow(row, span, fmt.Sprintf("asset id %d", assetID))
}

func (s *PostgresStore) scanQuoteRow(row pgx.Row, span trace.Span, subject string) (*Quote, currency.Currency, error) {
	quote := &Quote{}
	var curr string
	if err := row.Scan(&quote.ID, &quote.Ticker, &quote.Price, &quote.Time, &quote.Volume, &curr); err != nil {
		span.SetStatus(codes.Error, "no quote found")
		return nil, currency.Currency{}, fmt.Errorf("%w: %s", ErrQuoteNotFound, subject)
	}
	c, err := currency.Parse(curr)
	if err != nil {
		log.Error().Stack().Err(err).Str("Currency", curr).Msg("stored quote has invalid ticker currency")
		return nil, currency.Currency{}, err
	}
	return quote, c, nil
}

func (s *PostgresStore) QuotesForTicker(ctx context.Context, tickerID int64) ([]*Quote, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.QuotesForTicker")
	defer span.End()

	rows, err := s.db.Query(ctx,
		"SELECT id, price, time, volume FROM quotes WHERE ticker_id=$1 ORDER BY time ASC", tickerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote query failed")
		log.Error().Stack().Err(err).Int64("TickerID", tickerID).Msg("could not query quotes")
		return nil, err
	}
	defer rows.Close()

	quotes := make([]*Quote, 0, 252)
	for rows.Next() {
		quote := &Quote{Ticker: tickerID}
		if err := rows.Scan(&quote.ID, &quote.Price, &quote.Time, &quote.Volume); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "quote scan failed")
			log.Error().Stack().Err(err).Int64("TickerID", tickerID).Msg("could not scan quote row")
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

func (s *PostgresStore) UpdateQuote(ctx context.Context, quote *Quote) error {
	if quote.ID == 0 {
		return ErrNotStored
	}

	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.UpdateQuote")
	defer span.End()

	_, err := s.db.Exec(ctx,
		"UPDATE quotes SET ticker_id=$2, price=$3, time=$4, volume=$5 WHERE id=$1",
		quote.ID, quote.Ticker, quote.Price, quote.Time, quote.Volume)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote update failed")
		log.Error().Stack().Err(err).Int64("QuoteID", quote.ID).Msg("could not update quote")
	}
	return err
}

func (s *PostgresStore) DeleteQuote(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.DeleteQuote")
	defer span.End()

	_, err := s.db.Exec(ctx, "DELETE FROM quotes WHERE id=$1", id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "quote delete failed")
		log.Error().Stack().Err(err).Int64("QuoteID", id).Msg("could not delete quote")
	}
	return err
}

// RemoveDuplicates deletes quotes that repeat an earlier quote's ticker,
// time, and price, keeping the oldest row
func (s *PostgresStore) RemoveDuplicates(ctx context.Context) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.RemoveDuplicates")
	defer span.End()

	_, err := s.db.Exec(ctx,
		`DELETE FROM quotes q WHERE q.id IN
		(SELECT q2.id FROM quotes q1, quotes q2
		WHERE q1.id < q2.id AND q1.ticker_id = q2.ticker_id
		AND q1.time = q2.time AND q1.price = q2.price)`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate removal failed")
		log.Error().Stack().Err(err).Msg("could not remove duplicate quotes")
	}
	return err
}

// RoundingDigits returns the stored rounding digits for a currency, falling
// back to 2 when the currency has no row or the query fails
func (s *PostgresStore) RoundingDigits(ctx context.Context, c currency.Currency) int32 {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.RoundingDigits")
	defer span.End()

	var digits int32
	err := s.db.QueryRow(ctx, "SELECT digits FROM rounding_digits WHERE currency=$1", c.String()).Scan(&digits)
	if err != nil {
		return 2
	}
	return digits
}

func (s *PostgresStore) SetRoundingDigits(ctx context.Context, c currency.Currency, digits int32) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "quote.SetRoundingDigits")
	defer span.End()

	_, err := s.db.Exec(ctx,
		"INSERT INTO rounding_digits (currency, digits) VALUES ($1, $2)", c.String(), digits)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rounding digits insert failed")
		log.Error().Stack().Err(err).Str("Currency", c.String()).Msg("could not store rounding digits")
	}
	return err
}
