// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of GoAgg
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
// along with GoAgg If not, see https://www.gnu.org/licenses/.

package aggregate

import (
	"testing"

	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestSortedGroups(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := int32Column(mem, []int32{9, 0, 3, 1, 4}, []bool{true, false, true, true, true})
	defer values.Release()

	sorted, err := SortedGroups(values, [][]int{{0, 1, 2}, {3, 4}, {}})
	require.NoError(t, err)

	assert.Equal(t, []float64{3, 9}, sorted[0], "nulls are excluded before sorting")
	assert.Equal(t, []float64{1, 4}, sorted[1])
	assert.Empty(t, sorted[2])
}

// TestInterpolate_Modes pins the interpolation table over the group
// {1, 2, 3, 4} at fraction 0.5, where the fractional rank is 1.5.
func TestInterpolate_Modes(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	tests := []struct {
		name   string
		interp Interpolation
		want   float64
	}{
		{"linear", Linear, 2.5},
		{"lower", Lower, 2},
		{"higher", Higher, 3},
		{"midpoint", Midpoint, 2.5},
		{"nearest ties round up", Nearest, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := interpolate(sorted, 0.5, tt.interp)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestInterpolate_Bounds(t *testing.T) {
	sorted := []float64{10, 20, 30}

	for _, interp := range []Interpolation{Linear, Lower, Higher, Midpoint, Nearest} {
		lo, ok := interpolate(sorted, 0, interp)
		require.True(t, ok)
		assert.Equal(t, 10.0, lo)

		hi, ok := interpolate(sorted, 1, interp)
		require.True(t, ok)
		assert.Equal(t, 30.0, hi)
	}

	_, ok := interpolate(nil, 0.5, Linear)
	assert.False(t, ok, "an empty group has no quantile")
}

func TestInterpolate_NearestBelowHalf(t *testing.T) {
	// q=0.3 over five values gives rank 1.2; the nearest data point is index 1.
	sorted := []float64{1, 2, 3, 4, 5}
	got, ok := interpolate(sorted, 0.3, Nearest)
	require.True(t, ok)
	assert.Equal(t, 2.0, got)
}

// TestGroupedQuantile_Monotonic checks that for a fixed group and mode,
// quantiles never decrease as the fraction grows.
func TestGroupedQuantile_Monotonic(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	sorted := [][]float64{{-3, 0.5, 2, 2, 7, 11, 42}}
	fractions := []float64{0, 0.1, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 1}

	for _, interp := range []Interpolation{Linear, Lower, Higher, Midpoint, Nearest} {
		prev := make([]float64, 0, len(fractions))
		for _, q := range fractions {
			out := GroupedQuantile(sorted, q, interp, mem)
			v := out.(*array.Float64).Value(0)
			out.Release()
			prev = append(prev, v)
		}
		for i := 1; i < len(prev); i++ {
			assert.LessOrEqual(t, prev[i-1], prev[i],
				"quantiles must be monotone for %v", interp)
		}
	}
}

func TestGroupedQuantile_EmptyGroupIsNull(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	out := GroupedQuantile([][]float64{{}, {5}}, 0.5, Linear, mem)
	defer out.Release()

	qs := out.(*array.Float64)
	assert.True(t, qs.IsNull(0))
	assert.Equal(t, 5.0, qs.Value(1))
}

// TestGroupedMedian_Oracle cross-checks the median against an independent
// statistics implementation, for both odd and even group sizes.
func TestGroupedMedian_Oracle(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	groups := [][]float64{
		{1, 2, 3, 4},
		{7, 1.5, 9, 4, 12},
	}
	sorted := make([][]float64, len(groups))
	for i, g := range groups {
		cp := append([]float64(nil), g...)
		slices.Sort(cp)
		sorted[i] = cp
	}

	out := GroupedMedian(sorted, mem)
	defer out.Release()

	medians := out.(*array.Float64)
	for i, g := range groups {
		want, err := stats.Median(g)
		require.NoError(t, err)
		assert.InDelta(t, want, medians.Value(i), 1e-12)
	}
}
