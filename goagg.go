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

package goagg

import (
	"context"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/aaronlmathis/goagg/aggregate"
	"github.com/aaronlmathis/goagg/groupby"
)

// Package goagg re-exposes the grouped-aggregation surface of the GoAgg library.
//
// GoAgg computes grouped aggregates (sums, extrema, counts, means, medians,
// and arbitrary quantiles) over Apache Arrow columnar data. The subpackages
// hold the implementation: aggregate defines the descriptor model and the
// computation kernels, groupby the key equivalence resolver and the call
// surface, core the shared error types.

// Aggregation is an immutable descriptor of one aggregate computation.
type Aggregation = aggregate.Aggregation

// Kind identifies an aggregation operation.
type Kind = aggregate.Kind

// Interpolation selects how quantiles between two data points are resolved.
type Interpolation = aggregate.Interpolation

// AggregationRequest binds one value column to its requested aggregations.
type AggregationRequest = groupby.AggregationRequest

// Result holds the unique-keys table and the per-request result columns.
type Result = groupby.Result

// Option configures a GroupBy call.
type Option = groupby.Option

const (
	Sum      = aggregate.Sum
	Min      = aggregate.Min
	Max      = aggregate.Max
	Count    = aggregate.Count
	Mean     = aggregate.Mean
	Median   = aggregate.Median
	Quantile = aggregate.Quantile
)

const (
	Linear   = aggregate.Linear
	Lower    = aggregate.Lower
	Higher   = aggregate.Higher
	Midpoint = aggregate.Midpoint
	Nearest  = aggregate.Nearest
)

// NewSum returns a SUM aggregation descriptor.
func NewSum() Aggregation { return aggregate.NewSum() }

// NewMin returns a MIN aggregation descriptor.
func NewMin() Aggregation { return aggregate.NewMin() }

// NewMax returns a MAX aggregation descriptor.
func NewMax() Aggregation { return aggregate.NewMax() }

// NewCount returns a COUNT aggregation descriptor.
func NewCount() Aggregation { return aggregate.NewCount() }

// NewMean returns a MEAN aggregation descriptor.
func NewMean() Aggregation { return aggregate.NewMean() }

// NewMedian returns a MEDIAN aggregation descriptor.
func NewMedian() Aggregation { return aggregate.NewMedian() }

// NewQuantile returns a QUANTILE aggregation descriptor for the given
// fractions and interpolation mode.
func NewQuantile(fractions []float64, interp Interpolation) (Aggregation, error) {
	return aggregate.NewQuantile(fractions, interp)
}

// WithIgnoreNullKeys controls whether key rows containing nulls are excluded
// from grouping (true, the default) or grouped with null treated as equal to
// null (false).
func WithIgnoreNullKeys(ignore bool) Option { return groupby.WithIgnoreNullKeys(ignore) }

// WithAllocator sets the Arrow allocator used for intermediate and output
// buffers.
func WithAllocator(mem memory.Allocator) Option { return groupby.WithAllocator(mem) }

// GroupBy groups equivalent rows of keys together and performs the requested
// aggregations on the corresponding value rows. See groupby.GroupBy for the
// full contract.
func GroupBy(ctx context.Context, keys arrow.Record, requests []AggregationRequest, opts ...Option) (*Result, error) {
	return groupby.GroupBy(ctx, keys, requests, opts...)
}
