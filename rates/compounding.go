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

import "math"

// Compounding maps a rate and a fractional-year period to a discount factor
type Compounding int

const (
	Annual Compounding = iota
	SemiAnnual
	Quarterly
	Monthly
	Continuous
	Simple
)

func (c Compounding) String() string {
	switch c {
	case SemiAnnual:
		return "semi-annual"
	case Quarterly:
		return "quarterly"
	case Monthly:
		return "monthly"
	case Continuous:
		return "continuous"
	case Simple:
		return "simple"
	default:
		return "annual"
	}
}

// DiscountFactor computes the factor that discounts a payment yearFraction
// years away back to the valuation date at the given annual rate
func (c Compounding) DiscountFactor(rate, yearFraction float64) float64 {
	switch c {
	case SemiAnnual:
		return math.Pow(1.0+rate/2.0, -2.0*yearFraction)
	case Quarterly:
		return math.Pow(1.0+rate/4.0, -4.0*yearFraction)
	case Monthly:
		return math.Pow(1.0+rate/12.0, -12.0*yearFraction)
	case Continuous:
		return math.Exp(-rate * yearFraction)
	case Simple:
		return 1.0 / (1.0 + rate*yearFraction)
	default:
		return math.Pow(1.0+rate, -yearFraction)
	}
}
