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

// quantile.go - order-statistic kernels (MEDIAN, QUANTILE)
package aggregate

import (
	"math"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"golang.org/x/exp/slices"
)

// The order-statistic path works in two phases. SortedGroups gathers and sorts
// each group's non-null values once; the sorted slices are then shared by every
// MEDIAN and QUANTILE descriptor on the same value column, so a request asking
// for several order statistics pays for the sort only once.

// SortedGroups collects each group's non-null values as float64 and sorts them
// ascending. A TypeError is returned for non-numeric columns.
func SortedGroups(values arrow.Array, groups [][]int) ([][]float64, error) {
	get, err := float64Getter(values, "quantile")
	if err != nil {
		return nil, err
	}
	sorted := make([][]float64, len(groups))
	for g, rows := range groups {
		vals := make([]float64, 0, len(rows))
		for _, r := range rows {
			if values.IsNull(r) {
				continue
			}
			vals = append(vals, get(r))
		}
		slices.Sort(vals)
		sorted[g] = vals
	}
	return sorted, nil
}

// interpolate computes the quantile at fraction q over one group's sorted
// values. The fractional rank is q*(n-1), zero-indexed; the mode picks between
// the values bracketing that rank. Returns false when the group has no values.
func interpolate(sorted []float64, q float64, interp Interpolation) (float64, bool) {
	n := len(sorted)
	if n == 0 {
		return 0, false
	}
	r := q * float64(n-1)
	lo := int(math.Floor(r))
	hi := int(math.Ceil(r))
	frac := r - float64(lo)
	switch interp {
	case Lower:
		return sorted[lo], true
	case Higher:
		return sorted[hi], true
	case Midpoint:
		return (sorted[lo] + sorted[hi]) / 2, true
	case Nearest:
		if frac < 0.5 {
			return sorted[lo], true
		}
		return sorted[hi], true
	default: // Linear
		return sorted[lo] + frac*(sorted[hi]-sorted[lo]), true
	}
}

// GroupedQuantile computes the quantile at fraction q for every group as a
// float64 column, using the sorted per-group values from SortedGroups. Groups
// with no values yield null.
func GroupedQuantile(sorted [][]float64, q float64, interp Interpolation, mem memory.Allocator) arrow.Array {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	for _, vals := range sorted {
		if v, ok := interpolate(vals, q, interp); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}
	}
	return b.NewArray()
}

// GroupedMedian computes the median of every group: the quantile at fraction
// 0.5 with linear interpolation.
func GroupedMedian(sorted [][]float64, mem memory.Allocator) arrow.Array {
	return GroupedQuantile(sorted, 0.5, Linear, mem)
}
