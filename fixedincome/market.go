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

package fixedincome

import (
	"errors"
	"fmt"

	"github.com/penny-vault/finq/calendar"
)

var (
	ErrUnknownCalendar = errors.New("unknown calendar")
)

// StaticMarket serves calendars from a fixed map, optionally falling back
// to a default calendar for unknown names
type StaticMarket struct {
	calendars map[string]*calendar.Calendar
	fallback  *calendar.Calendar
}

func NewStaticMarket(calendars map[string]*calendar.Calendar, fallback *calendar.Calendar) *StaticMarket {
	return &StaticMarket{
		calendars: calendars,
		fallback:  fallback,
	}
}

func (m *StaticMarket) Calendar(name string) (*calendar.Calendar, error) {
	if cal, ok := m.calendars[name]; ok {
		return cal, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCalendar, name)
}
