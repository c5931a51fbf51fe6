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
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrInvalidLength    = errors.New("currency codes must consist of exactly three characters")
	ErrInvalidCharacter = errors.New("currency codes must contain only alphabetic ASCII characters")
	ErrConversionFailed = errors.New("currency conversion failed")
)

// Currency is an immutable ISO-style currency identifier. The code is always
// stored upper-case; equality between two currencies compares codes only.
type Currency struct {
	code   [3]byte
	digits int
}

// Parse builds a Currency from a 3-letter alphabetic code. Case is
// normalized to upper-case. The rounding digit count is initialized from the
// usual market convention: 0 for currencies without minor units, 2 otherwise.
func Parse(code string) (Currency, error) {
	var curr Currency
	idx := 0
	for _, r := range code {
		if idx >= 3 {
			return Currency{}, ErrInvalidLength
		}
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return Currency{}, ErrInvalidCharacter
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		curr.code[idx] = byte(r)
		idx++
	}
	if idx != 3 {
		return Currency{}, ErrInvalidLength
	}
	curr.digits = defaultRoundingDigits(string(curr.code[:]))
	return curr, nil
}

// MustParse is like Parse but panics on malformed input; intended for
// compile-time constant codes
func MustParse(code string) Currency {
	curr, err := Parse(code)
	if err != nil {
		panic(fmt.Sprintf("invalid currency code %q: %s", code, err))
	}
	return curr
}

func defaultRoundingDigits(code string) int {
	switch code {
	case "JPY", "TRL":
		return 0
	default:
		return 2
	}
}

func (c Currency) String() string {
	return string(c.code[:])
}

// RoundingDigits returns the number of decimal digits amounts in this
// currency are conventionally rounded to
func (c Currency) RoundingDigits() int {
	return c.digits
}

// Equal compares two currencies by code
func (c Currency) Equal(other Currency) bool {
	return c.code == other.code
}

// MarshalJSON serializes the currency as its bare code string
func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Currency) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	curr, err := Parse(code)
	if err != nil {
		return err
	}
	*c = curr
	return nil
}
