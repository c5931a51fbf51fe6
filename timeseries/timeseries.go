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

// Package timeseries holds dated observation series and detects calendar
// gaps in their coverage.
package timeseries

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/penny-vault/finq/calendar"
)

var (
	// ErrEmptySeries indicates an operation that needs at least one
	// observation was called on an empty series
	ErrEmptySeries = errors.New("time series has no observations")
)

// TimeValue is a single dated observation
type TimeValue struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// TimeSeries is an ordered sequence of dated observations. Observations are
// expected in ascending time order
type TimeSeries struct {
	Title  string      `json:"title"`
	Series []TimeValue `json:"series"`
}

// Interval is a closed range of calendar days
type Interval struct {
	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`
}

// MinMaxValue scans the series for its smallest and largest observation
func (ts *TimeSeries) MinMaxValue() (min float64, max float64, err error) {
	if len(ts.Series) == 0 {
		return 0, 0, ErrEmptySeries
	}
	min = ts.Series[0].Value
	max = ts.Series[0].Value
	for _, tv := range ts.Series[1:] {
		if tv.Value < min {
			min = tv.Value
		}
		if tv.Value > max {
			max = tv.Value
		}
	}
	return min, max, nil
}

// Span returns the first and last observation times
func (ts *TimeSeries) Span() (first time.Time, last time.Time, err error) {
	if len(ts.Series) == 0 {
		return time.Time{}, time.Time{}, ErrEmptySeries
	}
	return ts.Series[0].Time, ts.Series[len(ts.Series)-1].Time, nil
}

// MeanStdDev computes the sample mean and standard deviation of the
// observation values
func (ts *TimeSeries) MeanStdDev() (mean float64, stdDev float64, err error) {
	if len(ts.Series) == 0 {
		return 0, 0, ErrEmptySeries
	}
	values := make([]float64, len(ts.Series))
	for i, tv := range ts.Series {
		values[i] = tv.Value
	}
	mean, stdDev = stat.MeanStdDev(values, nil)
	return mean, stdDev, nil
}

// FindGaps walks every business day of cal from the first observation
// through today and collects the closed intervals of business days with no
// observation. Weekends and holidays never open or extend a gap. A series
// whose last observation lies before today produces a trailing gap ending
// at today itself.
func (ts *TimeSeries) FindGaps(cal *calendar.Calendar, today time.Time) ([]Interval, error) {
	if len(ts.Series) == 0 {
		return nil, ErrEmptySeries
	}

	// observations are not required to be sorted; dedupe into a date set
	// and track the earliest day directly
	earliest := ts.Series[0].Time
	present := make(map[string]struct{}, len(ts.Series))
	for _, tv := range ts.Series {
		present[tv.Time.Format("2006-01-02")] = struct{}{}
		if tv.Time.Before(earliest) {
			earliest = tv.Time
		}
	}

	gaps := make([]Interval, 0)
	var gapBegin *time.Time

	// walk whole days; observation timestamps may carry a time of day
	date := cal.NextBusinessDay(calendar.Date(earliest.Year(), earliest.Month(), earliest.Day()))
	for !date.After(today) {
		_, covered := present[date.Format("2006-01-02")]
		switch {
		case covered && gapBegin != nil:
			gaps = append(gaps, Interval{
				Begin: *gapBegin,
				End:   cal.PrevBusinessDay(date.AddDate(0, 0, -1)),
			})
			gapBegin = nil
		case !covered && gapBegin == nil:
			d := date
			gapBegin = &d
		}
		date = cal.NextBusinessDay(date.AddDate(0, 0, 1))
	}

	if gapBegin != nil {
		gaps = append(gaps, Interval{
			Begin: *gapBegin,
			End:   today,
		})
	}

	return gaps, nil
}
