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

// assembler.go - builds the unique-keys table from the resolved partition
package groupby

import (
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/aaronlmathis/goagg/core"
)

// buildUniqueKeys materializes the deduplicated keys table: one row per group,
// copied from each group's first row, with the input's schema. Row i of the
// returned record and row i of every result column denote the same group.
// Failures, including allocator panics, release everything built so far.
func buildUniqueKeys(keys arrow.Record, groups [][]int, mem memory.Allocator) (rec arrow.Record, err error) {
	ncols := int(keys.NumCols())
	arrays := make([]arrow.Array, ncols)
	var b array.Builder
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = &core.AllocationError{Op: "unique keys", Err: fmt.Errorf("%v", r)}
		}
		if b != nil {
			b.Release()
		}
		// On success the record has retained the columns; on failure this
		// drops whatever was built.
		for _, a := range arrays {
			if a != nil {
				a.Release()
			}
		}
	}()

	for c := 0; c < ncols; c++ {
		col := keys.Column(c)
		b = array.NewBuilder(mem, col.DataType())
		for _, rows := range groups {
			if err := appendKeyCell(b, col, rows[0]); err != nil {
				return nil, err
			}
		}
		arrays[c] = b.NewArray()
		b.Release()
		b = nil
	}
	return array.NewRecord(keys.Schema(), arrays, int64(len(groups))), nil
}

// appendKeyCell copies one key cell into the builder, preserving nulls. The
// resolver validates key column types before any group is formed, so the
// default arm is unreachable for supported columns.
func appendKeyCell(b array.Builder, col arrow.Array, row int) error {
	if col.IsNull(row) {
		b.AppendNull()
		return nil
	}
	switch src := col.(type) {
	case *array.Int8:
		b.(*array.Int8Builder).Append(src.Value(row))
	case *array.Int16:
		b.(*array.Int16Builder).Append(src.Value(row))
	case *array.Int32:
		b.(*array.Int32Builder).Append(src.Value(row))
	case *array.Int64:
		b.(*array.Int64Builder).Append(src.Value(row))
	case *array.Uint8:
		b.(*array.Uint8Builder).Append(src.Value(row))
	case *array.Uint16:
		b.(*array.Uint16Builder).Append(src.Value(row))
	case *array.Uint32:
		b.(*array.Uint32Builder).Append(src.Value(row))
	case *array.Uint64:
		b.(*array.Uint64Builder).Append(src.Value(row))
	case *array.Float32:
		b.(*array.Float32Builder).Append(src.Value(row))
	case *array.Float64:
		b.(*array.Float64Builder).Append(src.Value(row))
	case *array.String:
		b.(*array.StringBuilder).Append(src.Value(row))
	case *array.Boolean:
		b.(*array.BooleanBuilder).Append(src.Value(row))
	case *array.Timestamp:
		b.(*array.TimestampBuilder).Append(src.Value(row))
	default:
		return &core.TypeError{Op: "group keys", DataType: col.DataType()}
	}
	return nil
}
