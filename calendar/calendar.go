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

// Package calendar provides business-day calendars built from holiday rules.
//
// A calendar materializes its dated holidays over an explicit year span.
// Recurring weekday rules are year-independent and apply to every query;
// dated holidays outside the construction span are not visible. Callers
// should therefore construct calendars over a range wide enough to cover
// every date they intend to query.
package calendar

import (
	"time"

	"github.com/rs/zerolog/log"
)

const dateFormat = "2006-01-02"

// Calendar answers business-day queries. It is immutable after construction
// and safe for concurrent readers.
type Calendar struct {
	weekdays  [7]bool
	holidays  map[string]struct{}
	startYear int
	endYear   int
}

// Date builds a calendar date (midnight UTC)
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// New builds a calendar from holiday rules, materializing dated holidays
// falling within [startYear, endYear]
func New(holidays []Holiday, startYear, endYear int) *Calendar {
	cal := &Calendar{
		holidays:  make(map[string]struct{}),
		startYear: startYear,
		endYear:   endYear,
	}
	for _, h := range holidays {
		switch h.kind {
		case weekDay:
			cal.weekdays[h.weekday] = true
		case singularDay:
			if h.day.Year() >= startYear && h.day.Year() <= endYear {
				cal.holidays[h.day.Format(dateFormat)] = struct{}{}
			}
		}
	}

	closedAllWeek := true
	for _, closed := range cal.weekdays {
		if !closed {
			closedAllWeek = false
			break
		}
	}
	if closedAllWeek {
		log.Panic().Int("StartYear", startYear).Int("EndYear", endYear).Msg("holiday rules close every weekday; calendar has no business days")
	}

	return cal
}

// Weekend is the Saturday/Sunday closure rule shared by most markets
func Weekend() []Holiday {
	return []Holiday{
		WeekDay(time.Saturday),
		WeekDay(time.Sunday),
	}
}

// WeekendsOnly builds a calendar whose only holidays are Saturdays and
// Sundays
func WeekendsOnly(startYear, endYear int) *Calendar {
	return New(Weekend(), startYear, endYear)
}

// IsBusinessDay returns true when the date is neither a recurring weekday
// closure nor a materialized holiday
func (cal *Calendar) IsBusinessDay(day time.Time) bool {
	if cal.weekdays[day.Weekday()] {
		return false
	}
	_, holiday := cal.holidays[day.Format(dateFormat)]
	return !holiday
}

// NextBusinessDay returns day itself when it is a business day, otherwise
// the first later business day
func (cal *Calendar) NextBusinessDay(day time.Time) time.Time {
	for !cal.IsBusinessDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// PrevBusinessDay returns day itself when it is a business day, otherwise
// the latest earlier business day
func (cal *Calendar) PrevBusinessDay(day time.Time) time.Time {
	for !cal.IsBusinessDay(day) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
