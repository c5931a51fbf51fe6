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

package calendar

import "time"

type holidayKind int

const (
	singularDay holidayKind = iota
	weekDay
)

// Holiday is one rule contributing non-business days to a calendar. There
// are two variants: a single dated holiday and a recurring weekly closure.
type Holiday struct {
	kind    holidayKind
	day     time.Time
	weekday time.Weekday
}

// SingularDay marks one specific date as a holiday
func SingularDay(day time.Time) Holiday {
	return Holiday{
		kind: singularDay,
		day:  day,
	}
}

// WeekDay marks every occurrence of the given weekday as closed, e.g.
// Saturday and Sunday for a weekend rule
func WeekDay(wd time.Weekday) Holiday {
	return Holiday{
		kind:    weekDay,
		weekday: wd,
	}
}
