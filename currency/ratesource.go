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

package currency

import (
	"context"
	"time"
)

// RateSource supplies exchange rates and rounding conventions to
// currency-aware arithmetic. It is always passed explicitly into the call
// that needs it; there is no ambient global rate state.
type RateSource interface {
	// FXRate returns the price of 1 unit of foreign currency in terms of
	// domestic currency as of the given time. If no rate is known on or
	// before that time the returned error wraps ErrConversionFailed.
	FXRate(ctx context.Context, foreign Currency, domestic Currency, t time.Time) (float64, error)

	// RoundingDigits returns the number of decimal digits amounts in the
	// given currency should be rounded to; 2 when no convention is stored
	RoundingDigits(ctx context.Context, curr Currency) int
}
