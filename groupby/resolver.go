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

// resolver.go - key equivalence resolver: hash-partitions key rows into groups
package groupby

import (
	"encoding/binary"
	"math"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/zeebo/xxh3"
	"golang.org/x/exp/constraints"

	"github.com/aaronlmathis/goagg/core"
)

// The resolver hash-partitions the rows of the keys table: each row's key
// tuple is hashed column by column with a type-aware xxh3 hash, the combined
// hash probes a bucket map, and candidate groups are confirmed by full tuple
// comparison. Groups are numbered densely in order of first appearance, which
// makes the output ordering deterministic for a given input.
//
// Under the ignore-null-keys policy (the default), any row with a null in any
// key column is dropped before hashing and never reaches a group. When null
// keys are kept, a null compares equal to another null in the same column for
// grouping purposes only.

// nullKeyHash is combined in place of a value hash for null key cells when the
// keep-null-keys policy is active.
const nullKeyHash uint64 = 0x9e3779b97f4a7c15

// hashCombine is the boost hash_combine construction for folding per-column
// hashes into one tuple hash.
func hashCombine(lhs, rhs uint64) uint64 {
	return lhs ^ (rhs + 0x9e3779b9 + (lhs << 6) + (lhs >> 2))
}

func hashUint64(v uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return xxh3.Hash(buf[:])
}

// hashFloat64 hashes a float key so that the hash agrees with == equality:
// -0.0 hashes like +0.0, and every NaN payload probes the same bucket (the
// equality check then keeps distinct NaN rows in distinct groups).
func hashFloat64(v float64) uint64 {
	switch {
	case v == 0:
		v = 0
	case math.IsNaN(v):
		v = math.NaN()
	}
	return hashUint64(math.Float64bits(v))
}

// keyColumn pairs one key column with its hash and equality functions.
type keyColumn struct {
	arr   arrow.Array
	hash  func(row int) uint64
	equal func(i, j int) bool
}

// intColumn is any Arrow array with integer-valued elements, including
// timestamps.
type intColumn[T constraints.Integer] interface {
	arrow.Array
	Value(int) T
}

func intKeyColumn[T constraints.Integer](a intColumn[T]) keyColumn {
	return keyColumn{
		arr:   a,
		hash:  func(row int) uint64 { return hashUint64(uint64(int64(a.Value(row)))) },
		equal: func(i, j int) bool { return a.Value(i) == a.Value(j) },
	}
}

// newKeyColumn builds the hash/equality pair for one key column, rejecting
// column types the resolver cannot group on.
func newKeyColumn(arr arrow.Array) (keyColumn, error) {
	switch a := arr.(type) {
	case *array.Int8:
		return intKeyColumn[int8](a), nil
	case *array.Int16:
		return intKeyColumn[int16](a), nil
	case *array.Int32:
		return intKeyColumn[int32](a), nil
	case *array.Int64:
		return intKeyColumn[int64](a), nil
	case *array.Uint8:
		return intKeyColumn[uint8](a), nil
	case *array.Uint16:
		return intKeyColumn[uint16](a), nil
	case *array.Uint32:
		return intKeyColumn[uint32](a), nil
	case *array.Uint64:
		return intKeyColumn[uint64](a), nil
	case *array.Timestamp:
		return intKeyColumn[arrow.Timestamp](a), nil
	case *array.Float32:
		return keyColumn{
			arr:   a,
			hash:  func(row int) uint64 { return hashFloat64(float64(a.Value(row))) },
			equal: func(i, j int) bool { return a.Value(i) == a.Value(j) },
		}, nil
	case *array.Float64:
		return keyColumn{
			arr:   a,
			hash:  func(row int) uint64 { return hashFloat64(a.Value(row)) },
			equal: func(i, j int) bool { return a.Value(i) == a.Value(j) },
		}, nil
	case *array.String:
		return keyColumn{
			arr:   a,
			hash:  func(row int) uint64 { return xxh3.HashString(a.Value(row)) },
			equal: func(i, j int) bool { return a.Value(i) == a.Value(j) },
		}, nil
	case *array.Boolean:
		return keyColumn{
			arr: a,
			hash: func(row int) uint64 {
				if a.Value(row) {
					return hashUint64(1)
				}
				return hashUint64(0)
			},
			equal: func(i, j int) bool { return a.Value(i) == a.Value(j) },
		}, nil
	default:
		return keyColumn{}, &core.TypeError{Op: "group keys", DataType: arr.DataType()}
	}
}

func rowHasNullKey(cols []keyColumn, row int) bool {
	for _, kc := range cols {
		if kc.arr.IsNull(row) {
			return true
		}
	}
	return false
}

func rowHash(cols []keyColumn, row int) uint64 {
	var h uint64
	for _, kc := range cols {
		ch := nullKeyHash
		if kc.arr.IsValid(row) {
			ch = kc.hash(row)
		}
		h = hashCombine(h, ch)
	}
	return h
}

// keyRowsEqual reports whether two rows carry equivalent key tuples. Null
// cells are only reachable here under the keep-null-keys policy, where two
// nulls in the same column count as equal.
func keyRowsEqual(cols []keyColumn, i, j int) bool {
	for _, kc := range cols {
		iNull, jNull := kc.arr.IsNull(i), kc.arr.IsNull(j)
		if iNull || jNull {
			if iNull != jNull {
				return false
			}
			continue
		}
		if !kc.equal(i, j) {
			return false
		}
	}
	return true
}

// resolveGroups partitions the rows of keys into equivalence classes. The
// returned slice holds, per group, the original row indices belonging to it,
// with groups ordered by first appearance. Every surviving row lands in
// exactly one group.
func resolveGroups(keys arrow.Record, ignoreNullKeys bool) ([][]int, error) {
	cols := make([]keyColumn, keys.NumCols())
	for c := range cols {
		kc, err := newKeyColumn(keys.Column(c))
		if err != nil {
			return nil, err
		}
		cols[c] = kc
	}

	var groups [][]int
	buckets := make(map[uint64][]int)
	rows := int(keys.NumRows())
	for row := 0; row < rows; row++ {
		if ignoreNullKeys && rowHasNullKey(cols, row) {
			continue
		}
		h := rowHash(cols, row)
		gid := -1
		for _, cand := range buckets[h] {
			if keyRowsEqual(cols, groups[cand][0], row) {
				gid = cand
				break
			}
		}
		if gid < 0 {
			gid = len(groups)
			groups = append(groups, nil)
			buckets[h] = append(buckets[h], gid)
		}
		groups[gid] = append(groups[gid], row)
	}
	return groups, nil
}
