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

package rates

import (
	"errors"
	"strings"
	"time"
)

var ErrUnknownDayCount = errors.New("unknown day count convention")

// DayCount converts a date span into a fractional-year number for
// discounting
type DayCount int

const (
	// Act365 divides the actual day difference by 365
	Act365 DayCount = iota
	// Act360 divides the actual day difference by 360
	Act360
	// ActAct splits the span at year boundaries and divides each piece by
	// the actual length of its calendar year (365 or 366)
	ActAct
	// Thirty360 is the 30E/360 Eurobond basis: day-of-month capped at 30
	Thirty360
)

// ParseDayCount reads conventions in their usual market spelling, e.g.
// "ACT/365", "ACT/360", "30/360" or "30E/360"
func ParseDayCount(s string) (DayCount, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACT/365", "ACT/365F":
		return Act365, nil
	case "ACT/360":
		return Act360, nil
	case "ACT/ACT":
		return ActAct, nil
	case "30/360", "30E/360":
		return Thirty360, nil
	}
	return 0, ErrUnknownDayCount
}

func (dc DayCount) String() string {
	switch dc {
	case Act360:
		return "ACT/360"
	case ActAct:
		return "ACT/ACT"
	case Thirty360:
		return "30E/360"
	default:
		return "ACT/365"
	}
}

// YearFraction computes the fractional-year span between start and end under
// this convention. The result is negative when end precedes start.
func (dc DayCount) YearFraction(start, end time.Time) float64 {
	switch dc {
	case Act360:
		return actualDays(start, end) / 360.0
	case ActAct:
		return actActFraction(start, end)
	case Thirty360:
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
	default:
		return actualDays(start, end) / 365.0
	}
}

func actualDays(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24.0
}

func actActFraction(start, end time.Time) float64 {
	if end.Before(start) {
		return -actActFraction(end, start)
	}
	frac := 0.0
	for y := start.Year(); y <= end.Year(); y++ {
		lo := start
		if y > start.Year() {
			lo = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		hi := end
		if y < end.Year() {
			hi = time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		frac += actualDays(lo, hi) / yearLength(y)
	}
	return frac
}

func yearLength(year int) float64 {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366.0
	}
	return 365.0
}
