//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of GoAgg.
//
// GoAgg is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GoAgg is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GoAgg. If not, see https://www.gnu.org/licenses/.

package aggregate

import (
	"fmt"
	"math"

	"github.com/apache/arrow/go/v12/arrow"

	"github.com/aaronlmathis/goagg/core"
)

// Package aggregate defines the aggregation descriptor model and the per-group
// computation kernels for GoAgg.
//
// An Aggregation is an immutable value describing one aggregate computation:
// a Kind plus, for QUANTILE, the requested fractions and interpolation mode.
// Descriptors are built through the New* constructors and carry no mutable
// state afterwards, so they may be shared and reused across calls freely.

// Kind identifies an aggregation operation. The set is closed; the groupby
// dispatcher handles every kind exhaustively.
type Kind int

const (
	// Sum adds the non-null values of each group, widening the accumulator
	// to int64, uint64, or float64 depending on the input type.
	Sum Kind = iota
	// Min takes the smallest non-null value of each group.
	Min
	// Max takes the largest non-null value of each group.
	Max
	// Count counts the non-null values of each group. Zero is a valid,
	// non-null result.
	Count
	// Mean averages the non-null values of each group in float64.
	Mean
	// Median is Quantile at fraction 0.5 with linear interpolation.
	Median
	// Quantile sorts each group's non-null values and interpolates at one
	// or more requested fractions.
	Quantile
)

// String returns the name of the aggregation kind.
func (k Kind) String() string {
	switch k {
	case Sum:
		return "sum"
	case Min:
		return "min"
	case Max:
		return "max"
	case Count:
		return "count"
	case Mean:
		return "mean"
	case Median:
		return "median"
	case Quantile:
		return "quantile"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Interpolation selects the value to report when a requested quantile falls
// between two data points i and j (i below, j above).
type Interpolation int

const (
	// Linear interpolates between i and j proportionally to the fractional rank.
	Linear Interpolation = iota
	// Lower reports i.
	Lower
	// Higher reports j.
	Higher
	// Midpoint reports (i + j) / 2.
	Midpoint
	// Nearest reports whichever of i and j is closer; exact ties go to j.
	Nearest
)

// String returns the name of the interpolation mode.
func (i Interpolation) String() string {
	switch i {
	case Linear:
		return "linear"
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	case Midpoint:
		return "midpoint"
	case Nearest:
		return "nearest"
	default:
		return fmt.Sprintf("interpolation(%d)", int(i))
	}
}

// Aggregation is an immutable description of one aggregate computation.
// The zero value is Sum; use the constructors to build descriptors.
type Aggregation struct {
	kind      Kind
	quantiles []float64
	interp    Interpolation
}

// NewSum returns a SUM aggregation descriptor.
func NewSum() Aggregation { return Aggregation{kind: Sum} }

// NewMin returns a MIN aggregation descriptor.
func NewMin() Aggregation { return Aggregation{kind: Min} }

// NewMax returns a MAX aggregation descriptor.
func NewMax() Aggregation { return Aggregation{kind: Max} }

// NewCount returns a COUNT aggregation descriptor.
func NewCount() Aggregation { return Aggregation{kind: Count} }

// NewMean returns a MEAN aggregation descriptor.
func NewMean() Aggregation { return Aggregation{kind: Mean} }

// NewMedian returns a MEDIAN aggregation descriptor, equivalent to a QUANTILE
// at fraction 0.5 with linear interpolation.
func NewMedian() Aggregation { return Aggregation{kind: Median} }

// NewQuantile returns a QUANTILE aggregation descriptor for the given
// fractions and interpolation mode. The fraction list must be non-empty and
// every fraction must lie in [0, 1]; the list is copied, so the caller's slice
// stays independent of the descriptor. Each fraction produces one result
// column, in the order given here.
func NewQuantile(fractions []float64, interp Interpolation) (Aggregation, error) {
	if len(fractions) == 0 {
		return Aggregation{}, &core.InvalidArgumentError{
			Op:     "quantile",
			Reason: "at least one quantile fraction is required",
		}
	}
	for _, q := range fractions {
		if math.IsNaN(q) || q < 0 || q > 1 {
			return Aggregation{}, &core.InvalidArgumentError{
				Op:     "quantile",
				Reason: fmt.Sprintf("fraction %v is outside [0, 1]", q),
			}
		}
	}
	if interp < Linear || interp > Nearest {
		return Aggregation{}, &core.InvalidArgumentError{
			Op:     "quantile",
			Reason: fmt.Sprintf("unrecognized interpolation mode %d", int(interp)),
		}
	}
	qs := make([]float64, len(fractions))
	copy(qs, fractions)
	return Aggregation{kind: Quantile, quantiles: qs, interp: interp}, nil
}

// Kind returns the aggregation's kind tag.
func (a Aggregation) Kind() Kind { return a.kind }

// Quantiles returns a copy of the requested quantile fractions. Empty for
// every kind other than Quantile.
func (a Aggregation) Quantiles() []float64 {
	if len(a.quantiles) == 0 {
		return nil
	}
	qs := make([]float64, len(a.quantiles))
	copy(qs, a.quantiles)
	return qs
}

// Interpolation returns the interpolation mode. Meaningful only for Quantile.
func (a Aggregation) Interpolation() Interpolation { return a.interp }

// ResultColumns returns how many result columns the descriptor produces:
// one per requested fraction for Quantile, otherwise one.
func (a Aggregation) ResultColumns() int {
	if a.kind == Quantile {
		return len(a.quantiles)
	}
	return 1
}

// CheckType verifies that the aggregation can be computed over a value column
// of the given Arrow type, returning a TypeError otherwise. SUM, MEAN, MEDIAN,
// and QUANTILE require a numeric column; MIN and MAX additionally accept
// strings; COUNT accepts any type.
func (a Aggregation) CheckType(dt arrow.DataType) error {
	switch a.kind {
	case Count:
		return nil
	case Min, Max:
		if !core.IsOrderable(dt) {
			return &core.TypeError{Op: a.kind.String(), DataType: dt}
		}
		return nil
	default:
		if !core.IsNumeric(dt) {
			return &core.TypeError{Op: a.kind.String(), DataType: dt}
		}
		return nil
	}
}
