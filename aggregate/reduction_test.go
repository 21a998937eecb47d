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
	"errors"
	"testing"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/goagg/core"
)

func int32Column(mem memory.Allocator, vals []int32, valid []bool) arrow.Array {
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.AppendValues(vals, valid)
	return b.NewArray()
}

func float64Column(mem memory.Allocator, vals []float64, valid []bool) arrow.Array {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.AppendValues(vals, valid)
	return b.NewArray()
}

func stringColumn(mem memory.Allocator, vals []string, valid []bool) arrow.Array {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.AppendValues(vals, valid)
	return b.NewArray()
}

// TestGroupedSum_WidensInt32 checks that summing an int32 column accumulates
// and reports in int64.
func TestGroupedSum_WidensInt32(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := int32Column(mem, []int32{3, 1, 4, 9, 2}, nil)
	defer values.Release()

	groups := [][]int{{0, 2, 4}, {1}, {3}}
	out, err := GroupedSum(values, groups, mem)
	require.NoError(t, err)
	defer out.Release()

	sums, ok := out.(*array.Int64)
	require.True(t, ok, "sum over int32 should produce an int64 column")
	require.Equal(t, 3, sums.Len())
	assert.Equal(t, int64(9), sums.Value(0))
	assert.Equal(t, int64(1), sums.Value(1))
	assert.Equal(t, int64(9), sums.Value(2))
}

// TestGroupedSum_AllNullGroup checks that a group with no non-null values
// yields a null sum while other groups are unaffected.
func TestGroupedSum_AllNullGroup(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := float64Column(mem, []float64{1.5, 0, 0, 2.5}, []bool{true, false, false, true})
	defer values.Release()

	groups := [][]int{{0, 3}, {1, 2}}
	out, err := GroupedSum(values, groups, mem)
	require.NoError(t, err)
	defer out.Release()

	sums := out.(*array.Float64)
	assert.Equal(t, 4.0, sums.Value(0))
	assert.True(t, sums.IsNull(1))
}

func TestGroupedSum_TypeError(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := stringColumn(mem, []string{"a", "b"}, nil)
	defer values.Release()

	_, err := GroupedSum(values, [][]int{{0, 1}}, mem)
	require.Error(t, err)

	var typeErr *core.TypeError
	assert.True(t, errors.As(err, &typeErr))
}

func TestGroupedMinMax_Numeric(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := int32Column(mem, []int32{3, 1, 4, 9, 2}, nil)
	defer values.Release()

	groups := [][]int{{0, 2, 4}, {1}, {3}}

	min, err := GroupedMin(values, groups, mem)
	require.NoError(t, err)
	defer min.Release()
	max, err := GroupedMax(values, groups, mem)
	require.NoError(t, err)
	defer max.Release()

	// Extrema keep the input's type.
	mins := min.(*array.Int32)
	maxs := max.(*array.Int32)
	assert.Equal(t, []int32{2, 1, 9}, []int32{mins.Value(0), mins.Value(1), mins.Value(2)})
	assert.Equal(t, []int32{4, 1, 9}, []int32{maxs.Value(0), maxs.Value(1), maxs.Value(2)})
}

func TestGroupedMinMax_Strings(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := stringColumn(mem, []string{"pear", "apple", "quince", "fig"}, nil)
	defer values.Release()

	groups := [][]int{{0, 1}, {2, 3}}

	min, err := GroupedMin(values, groups, mem)
	require.NoError(t, err)
	defer min.Release()
	max, err := GroupedMax(values, groups, mem)
	require.NoError(t, err)
	defer max.Release()

	mins := min.(*array.String)
	maxs := max.(*array.String)
	assert.Equal(t, "apple", mins.Value(0))
	assert.Equal(t, "fig", mins.Value(1))
	assert.Equal(t, "pear", maxs.Value(0))
	assert.Equal(t, "quince", maxs.Value(1))
}

// TestGroupedCount checks that COUNT reports non-null values only and that an
// all-null group counts as zero rather than null.
func TestGroupedCount(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := float64Column(mem, []float64{1, 0, 3, 0, 5}, []bool{true, false, true, false, true})
	defer values.Release()

	groups := [][]int{{0, 1, 2}, {3}, {4}}
	out := GroupedCount(values, groups, mem)
	defer out.Release()

	counts := out.(*array.Int64)
	require.Equal(t, 3, counts.Len())
	assert.Equal(t, int64(2), counts.Value(0))
	assert.Equal(t, int64(0), counts.Value(1))
	assert.False(t, counts.IsNull(1), "an empty-of-values group counts as 0, not null")
	assert.Equal(t, int64(1), counts.Value(2))
}

// TestGroupedMean_Invariant checks MEAN against SUM/COUNT and against an
// independent statistics implementation.
func TestGroupedMean_Invariant(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	raw := []float64{3.5, 1.25, 4, 9.75, 2}
	valid := []bool{true, true, false, true, true}
	values := float64Column(mem, raw, valid)
	defer values.Release()

	groups := [][]int{{0, 2, 4}, {1, 3}}

	mean, err := GroupedMean(values, groups, mem)
	require.NoError(t, err)
	defer mean.Release()
	sum, err := GroupedSum(values, groups, mem)
	require.NoError(t, err)
	defer sum.Release()
	count := GroupedCount(values, groups, mem)
	defer count.Release()

	means := mean.(*array.Float64)
	sums := sum.(*array.Float64)
	counts := count.(*array.Int64)
	for g := 0; g < len(groups); g++ {
		require.Greater(t, counts.Value(g), int64(0))
		assert.InDelta(t, sums.Value(g)/float64(counts.Value(g)), means.Value(g), 1e-12)

		var nonNull []float64
		for _, r := range groups[g] {
			if valid[r] {
				nonNull = append(nonNull, raw[r])
			}
		}
		want, err := stats.Mean(nonNull)
		require.NoError(t, err)
		assert.InDelta(t, want, means.Value(g), 1e-12)
	}
}

func TestGroupedMean_EmptyGroupIsNull(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	values := float64Column(mem, []float64{0, 0}, []bool{false, false})
	defer values.Release()

	out, err := GroupedMean(values, [][]int{{0, 1}}, mem)
	require.NoError(t, err)
	defer out.Release()

	assert.True(t, out.(*array.Float64).IsNull(0))
}
