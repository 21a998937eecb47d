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

package groupby

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"golang.org/x/sync/errgroup"

	"github.com/aaronlmathis/goagg/aggregate"
	"github.com/aaronlmathis/goagg/core"
)

// Package groupby implements grouped aggregation over Arrow columnar data.
//
// GroupBy partitions the rows of a keys table into equivalence classes and
// computes, per class, the aggregations requested over one or more value
// columns. The call is synchronous: it validates every request up front,
// fans the per-request work out across goroutines, and returns only once the
// complete result is materialized. On any failure no partial result is
// returned and every allocation already made has been released.

// AggregationRequest binds one value column to an ordered list of aggregation
// descriptors. The value column must have exactly as many rows as the keys
// table it is aggregated against.
type AggregationRequest struct {
	// Values holds the elements to aggregate, row-aligned with the keys table.
	Values arrow.Array
	// Aggregations lists the aggregate computations to perform on Values.
	Aggregations []aggregate.Aggregation
}

// Result holds the output of a GroupBy call. Ownership of all records and
// arrays transfers to the caller; call Release when done with them.
type Result struct {
	// UniqueKeys has one row per group, with the schema of the input keys
	// table. Row i denotes the same group as row i of every result column.
	UniqueKeys arrow.Record
	// Columns holds, per request, the result columns in descriptor order.
	// Most descriptors produce one column; a QUANTILE descriptor produces one
	// flat column per requested fraction, in the order the fractions were
	// given.
	Columns [][]arrow.Array
}

// Release frees every record and column held by the result.
func (r *Result) Release() {
	if r.UniqueKeys != nil {
		r.UniqueKeys.Release()
		r.UniqueKeys = nil
	}
	for _, cols := range r.Columns {
		for _, col := range cols {
			if col != nil {
				col.Release()
			}
		}
	}
	r.Columns = nil
}

// options holds the per-call configuration, set through the With* functions.
type options struct {
	ignoreNullKeys bool
	mem            memory.Allocator
}

// Option configures a GroupBy call.
type Option func(*options)

// WithIgnoreNullKeys controls the null key policy. When true (the default,
// matching pandas), any key row containing a null is excluded from grouping
// and its value rows are excluded from every aggregation. When false
// (matching SQL), null keys participate and two nulls in the same column
// position compare equal for grouping purposes only.
func WithIgnoreNullKeys(ignore bool) Option {
	return func(o *options) {
		o.ignoreNullKeys = ignore
	}
}

// WithAllocator sets the allocator used for all intermediate and output
// buffers. Defaults to memory.DefaultAllocator. Intermediates are released
// before GroupBy returns; only the result buffers outlive the call.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		o.mem = mem
	}
}

// GroupBy groups equivalent rows of keys together and performs the requested
// aggregations on the corresponding value rows.
//
// For each aggregation in a request, values[i] is aggregated with every
// values[j] for which key rows i and j are equivalent. Each request's value
// column must have exactly keys.NumRows() rows. Groups appear in the output in
// order of first appearance of their key tuple; this ordering is deterministic
// for a given input but is not otherwise part of the contract.
//
// An R-row keys table yields G <= R groups; a zero-row keys table yields an
// empty result with the correct schema. Invalid requests are rejected before
// any aggregation work starts.
func GroupBy(ctx context.Context, keys arrow.Record, requests []AggregationRequest, opts ...Option) (*Result, error) {
	o := options{
		ignoreNullKeys: true,
		mem:            memory.DefaultAllocator,
	}
	for _, opt := range opts {
		opt(&o)
	}

	keyRows := int(keys.NumRows())
	for i := range requests {
		req := &requests[i]
		if req.Values == nil || req.Values.Len() != keyRows {
			valueRows := 0
			if req.Values != nil {
				valueRows = req.Values.Len()
			}
			return nil, &core.SizeMismatchError{Request: i, ValueRows: valueRows, KeyRows: keyRows}
		}
		for _, agg := range req.Aggregations {
			if err := agg.CheckType(req.Values.DataType()); err != nil {
				return nil, err
			}
		}
	}

	groups, err := resolveGroups(keys, o.ignoreNullKeys)
	if err != nil {
		return nil, err
	}

	uniqueKeys, err := buildUniqueKeys(keys, groups, o.mem)
	if err != nil {
		return nil, err
	}
	res := &Result{
		UniqueKeys: uniqueKeys,
		Columns:    make([][]arrow.Array, len(requests)),
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i := range requests {
		i := i
		req := requests[i]
		n := 0
		for _, agg := range req.Aggregations {
			n += agg.ResultColumns()
		}
		res.Columns[i] = make([]arrow.Array, n)
		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &core.AllocationError{Op: "aggregate", Err: fmt.Errorf("%v", r)}
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			return computeRequest(req, groups, o.mem, res.Columns[i])
		})
	}
	if err := eg.Wait(); err != nil {
		res.Release()
		return nil, err
	}
	return res, nil
}

// computeRequest evaluates one request's descriptors into out, which has one
// slot per result column. Descriptors share the resolved partition, and the
// order-statistic descriptors additionally share one sorted copy of the
// group values.
func computeRequest(req AggregationRequest, groups [][]int, mem memory.Allocator, out []arrow.Array) error {
	var sorted [][]float64
	for _, agg := range req.Aggregations {
		if k := agg.Kind(); k == aggregate.Median || k == aggregate.Quantile {
			var err error
			sorted, err = aggregate.SortedGroups(req.Values, groups)
			if err != nil {
				return err
			}
			break
		}
	}

	slot := 0
	for _, agg := range req.Aggregations {
		switch agg.Kind() {
		case aggregate.Sum:
			arr, err := aggregate.GroupedSum(req.Values, groups, mem)
			if err != nil {
				return err
			}
			out[slot] = arr
			slot++
		case aggregate.Min:
			arr, err := aggregate.GroupedMin(req.Values, groups, mem)
			if err != nil {
				return err
			}
			out[slot] = arr
			slot++
		case aggregate.Max:
			arr, err := aggregate.GroupedMax(req.Values, groups, mem)
			if err != nil {
				return err
			}
			out[slot] = arr
			slot++
		case aggregate.Count:
			out[slot] = aggregate.GroupedCount(req.Values, groups, mem)
			slot++
		case aggregate.Mean:
			arr, err := aggregate.GroupedMean(req.Values, groups, mem)
			if err != nil {
				return err
			}
			out[slot] = arr
			slot++
		case aggregate.Median:
			out[slot] = aggregate.GroupedMedian(sorted, mem)
			slot++
		case aggregate.Quantile:
			for _, q := range agg.Quantiles() {
				out[slot] = aggregate.GroupedQuantile(sorted, q, agg.Interpolation(), mem)
				slot++
			}
		default:
			return &core.InvalidArgumentError{
				Op:     "groupby",
				Reason: fmt.Sprintf("unrecognized aggregation kind %v", agg.Kind()),
			}
		}
	}
	return nil
}
