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

package core

import "github.com/apache/arrow/go/v12/arrow"

// Package core also defines the column type capability predicates shared by the
// grouping and aggregation packages. The engine operates on a fixed set of Arrow
// types; anything outside that set is rejected with a TypeError during
// validation, before any work is done.

// IsNumeric reports whether dt is one of the Arrow integer or floating point
// types the arithmetic aggregations (SUM, MEAN, MEDIAN, QUANTILE) operate on.
func IsNumeric(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT32, arrow.FLOAT64:
		return true
	default:
		return false
	}
}

// IsOrderable reports whether dt carries a total order usable by MIN and MAX.
// Covers the numeric types plus UTF-8 strings.
func IsOrderable(dt arrow.DataType) bool {
	return IsNumeric(dt) || dt.ID() == arrow.STRING
}

// IsGroupable reports whether dt may appear as a grouping key column. The key
// equivalence resolver can hash and compare the orderable types plus booleans
// and timestamps.
func IsGroupable(dt arrow.DataType) bool {
	if IsOrderable(dt) {
		return true
	}
	switch dt.ID() {
	case arrow.BOOL, arrow.TIMESTAMP:
		return true
	default:
		return false
	}
}

// SumType returns the widened Arrow type a SUM over dt accumulates into:
// int64 for signed integers, uint64 for unsigned integers, and float64 for
// floating point inputs. The second return is false when dt is not summable.
func SumType(dt arrow.DataType) (arrow.DataType, bool) {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return arrow.PrimitiveTypes.Int64, true
	case arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return arrow.PrimitiveTypes.Uint64, true
	case arrow.FLOAT32, arrow.FLOAT64:
		return arrow.PrimitiveTypes.Float64, true
	default:
		return nil, false
	}
}
