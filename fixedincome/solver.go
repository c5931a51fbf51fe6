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
	"math"
)

var (
	ErrNoBracket      = errors.New("objective has no sign change in the search bracket")
	ErrDidNotConverge = errors.New("did not converge")
)

// RootFinder finds a zero of f inside [lower, upper]. Implementations must
// return ErrNoBracket when f does not change sign over the bracket and
// ErrDidNotConverge when the iteration budget runs out.
type RootFinder interface {
	Solve(f func(float64) float64, lower, upper float64) (float64, error)
}

// Brent is a bracketed root finder combining bisection, secant steps and
// inverse quadratic interpolation. It always keeps a bounding interval, so
// unlike Newton's method it cannot run away from the root.
type Brent struct {
	Tol     float64
	MaxIter int
}

// NewBrent returns a Brent solver with an absolute tolerance of 1e-11 and an
// iteration budget of 100
func NewBrent() *Brent {
	return &Brent{
		Tol:     1e-11,
		MaxIter: 100,
	}
}

func (br *Brent) Solve(f func(float64) float64, lower, upper float64) (float64, error) {
	const epsilon = 2.220446049250313e-16

	a, b := lower, upper
	fa, fb := f(a), f(b)

	// A flat zero objective has no isolated root to report
	if fa == 0 && fb == 0 {
		return 0, ErrNoBracket
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.IsNaN(fa) || math.IsNaN(fb) || (fa > 0) == (fb > 0) {
		return 0, ErrNoBracket
	}

	c, fc := a, fa
	d := b - a
	e := d

	for iter := 0; iter < br.MaxIter; iter++ {
		if (fb > 0) == (fc > 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2.0*epsilon*math.Abs(b) + 0.5*br.Tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// attempt inverse quadratic interpolation (secant when only
			// two distinct points are available)
			s := fb / fa
			var p, q float64
			if a == c {
				p = 2.0 * xm * s
				q = 1.0 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2.0*xm*q*(q-r) - (b-a)*(r-1.0))
				q = (q - 1.0) * (r - 1.0) * (s - 1.0)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			min1 := 3.0*xm*q - math.Abs(tol1*q)
			min2 := math.Abs(e * q)
			if 2.0*p < math.Min(min1, min2) {
				// interpolation acceptable
				e = d
				d = p / q
			} else {
				// fall back to bisection
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
		if math.IsNaN(fb) {
			return 0, ErrDidNotConverge
		}
	}

	return 0, ErrDidNotConverge
}
