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

// reduction.go - single-pass reduction kernels (SUM, MIN, MAX, COUNT, MEAN)
package aggregate

import (
	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"golang.org/x/exp/constraints"

	"github.com/aaronlmathis/goagg/core"
)

// Every kernel takes the value column, the per-group row index lists produced
// by the key equivalence resolver, and the allocator for the output column.
// Null values never contribute to a reduction; a group whose values are all
// null yields a null result, except COUNT which yields 0.

// column is a typed, nullable Arrow column; the concrete array types in the
// arrow/array package satisfy it for their element type.
type column[T any] interface {
	arrow.Array
	Value(int) T
}

// appender is an Arrow array builder for element type T.
type appender[T any] interface {
	array.Builder
	Append(T)
}

func sumInto[T constraints.Integer | constraints.Float, A int64 | uint64 | float64](
	col column[T], b appender[A], groups [][]int,
) {
	for _, rows := range groups {
		var sum A
		n := 0
		for _, r := range rows {
			if col.IsNull(r) {
				continue
			}
			sum += A(col.Value(r))
			n++
		}
		if n == 0 {
			b.AppendNull()
		} else {
			b.Append(sum)
		}
	}
}

// GroupedSum computes one SUM per group. Signed integers accumulate into
// int64, unsigned into uint64, floats into float64; the output column has the
// widened type. A TypeError is returned for non-numeric columns.
func GroupedSum(values arrow.Array, groups [][]int, mem memory.Allocator) (arrow.Array, error) {
	switch v := values.(type) {
	case *array.Int8:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		sumInto[int8, int64](v, b, groups)
		return b.NewArray(), nil
	case *array.Int16:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		sumInto[int16, int64](v, b, groups)
		return b.NewArray(), nil
	case *array.Int32:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		sumInto[int32, int64](v, b, groups)
		return b.NewArray(), nil
	case *array.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		sumInto[int64, int64](v, b, groups)
		return b.NewArray(), nil
	case *array.Uint8:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		sumInto[uint8, uint64](v, b, groups)
		return b.NewArray(), nil
	case *array.Uint16:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		sumInto[uint16, uint64](v, b, groups)
		return b.NewArray(), nil
	case *array.Uint32:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		sumInto[uint32, uint64](v, b, groups)
		return b.NewArray(), nil
	case *array.Uint64:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		sumInto[uint64, uint64](v, b, groups)
		return b.NewArray(), nil
	case *array.Float32:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		sumInto[float32, float64](v, b, groups)
		return b.NewArray(), nil
	case *array.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		sumInto[float64, float64](v, b, groups)
		return b.NewArray(), nil
	default:
		return nil, &core.TypeError{Op: "sum", DataType: values.DataType()}
	}
}

func extremumInto[T constraints.Ordered](col column[T], b appender[T], groups [][]int, wantMax bool) {
	for _, rows := range groups {
		var best T
		found := false
		for _, r := range rows {
			if col.IsNull(r) {
				continue
			}
			v := col.Value(r)
			if !found || (wantMax && v > best) || (!wantMax && v < best) {
				best = v
				found = true
			}
		}
		if found {
			b.Append(best)
		} else {
			b.AppendNull()
		}
	}
}

// GroupedMin computes one MIN per group. The output column has the input's
// type. Numeric and string columns are supported.
func GroupedMin(values arrow.Array, groups [][]int, mem memory.Allocator) (arrow.Array, error) {
	return groupedExtremum(values, groups, mem, false, "min")
}

// GroupedMax computes one MAX per group. The output column has the input's
// type. Numeric and string columns are supported.
func GroupedMax(values arrow.Array, groups [][]int, mem memory.Allocator) (arrow.Array, error) {
	return groupedExtremum(values, groups, mem, true, "max")
}

func groupedExtremum(values arrow.Array, groups [][]int, mem memory.Allocator, wantMax bool, op string) (arrow.Array, error) {
	switch v := values.(type) {
	case *array.Int8:
		b := array.NewInt8Builder(mem)
		defer b.Release()
		extremumInto[int8](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Int16:
		b := array.NewInt16Builder(mem)
		defer b.Release()
		extremumInto[int16](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		extremumInto[int32](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Int64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		extremumInto[int64](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Uint8:
		b := array.NewUint8Builder(mem)
		defer b.Release()
		extremumInto[uint8](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Uint16:
		b := array.NewUint16Builder(mem)
		defer b.Release()
		extremumInto[uint16](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Uint32:
		b := array.NewUint32Builder(mem)
		defer b.Release()
		extremumInto[uint32](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Uint64:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		extremumInto[uint64](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Float32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		extremumInto[float32](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		extremumInto[float64](v, b, groups, wantMax)
		return b.NewArray(), nil
	case *array.String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		extremumInto[string](v, b, groups, wantMax)
		return b.NewArray(), nil
	default:
		return nil, &core.TypeError{Op: op, DataType: values.DataType()}
	}
}

// GroupedCount computes the number of non-null values per group as an int64
// column. The result is never null; an all-null group counts as 0. Any value
// type is accepted.
func GroupedCount(values arrow.Array, groups [][]int, mem memory.Allocator) arrow.Array {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	for _, rows := range groups {
		var n int64
		for _, r := range rows {
			if values.IsValid(r) {
				n++
			}
		}
		b.Append(n)
	}
	return b.NewArray()
}

// GroupedMean computes one MEAN per group as a float64 column, regardless of
// the input's numeric representation. A TypeError is returned for non-numeric
// columns.
func GroupedMean(values arrow.Array, groups [][]int, mem memory.Allocator) (arrow.Array, error) {
	get, err := float64Getter(values, "mean")
	if err != nil {
		return nil, err
	}
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	for _, rows := range groups {
		sum := 0.0
		n := 0
		for _, r := range rows {
			if values.IsNull(r) {
				continue
			}
			sum += get(r)
			n++
		}
		if n == 0 {
			b.AppendNull()
		} else {
			b.Append(sum / float64(n))
		}
	}
	return b.NewArray(), nil
}

// float64Getter returns a row accessor that reads values as float64. Shared by
// the MEAN kernel and the order-statistic kernels, which both compute in
// floating point.
func float64Getter(values arrow.Array, op string) (func(int) float64, error) {
	switch v := values.(type) {
	case *array.Int8:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Int16:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Int32:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Int64:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Uint8:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Uint16:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Uint32:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Uint64:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Float32:
		return func(i int) float64 { return float64(v.Value(i)) }, nil
	case *array.Float64:
		return func(i int) float64 { return v.Value(i) }, nil
	default:
		return nil, &core.TypeError{Op: op, DataType: values.DataType()}
	}
}
