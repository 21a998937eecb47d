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

import (
	"fmt"

	"github.com/apache/arrow/go/v12/arrow"
)

// Package core defines the error types shared across the GoAgg library.
//
// Every failure the engine can surface is deterministic: it is either a malformed
// input, detected before any aggregation work starts, or an allocator failure
// during execution. None are retried.

// SizeMismatchError reports an aggregation request whose value column has a
// different row count than the keys table.
type SizeMismatchError struct {
	Request   int // Index of the offending request in the call's request slice
	ValueRows int // Row count of the request's value column
	KeyRows   int // Row count of the keys table
}

// Error returns the error string for SizeMismatchError.
func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("groupby request %d: value column has %d rows, keys table has %d",
		e.Request, e.ValueRows, e.KeyRows)
}

// InvalidArgumentError reports a malformed caller-supplied argument, such as an
// empty quantile list or a fraction outside [0, 1].
type InvalidArgumentError struct {
	Op     string // Operation that rejected the argument (e.g., "quantile")
	Reason string // Human-readable description of what is wrong
}

// Error returns the error string for InvalidArgumentError.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", e.Op, e.Reason)
}

// TypeError reports an operation requested on a column whose Arrow type does
// not support it, such as MEAN over a string column or grouping on a key type
// the engine cannot hash.
type TypeError struct {
	Op       string         // Operation that rejected the column (e.g., "mean", "group keys")
	DataType arrow.DataType // The unsupported Arrow type
}

// Error returns the error string for TypeError.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: unsupported column type %s", e.Op, e.DataType)
}

// AllocationError wraps an allocator failure raised while building intermediate
// or output buffers. By the time it propagates, every allocation the call made
// has been released.
type AllocationError struct {
	Op  string // Operation in flight when the allocator failed
	Err error  // Underlying allocator failure
}

// Error returns the error string for AllocationError.
func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: allocation failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for AllocationError.
func (e *AllocationError) Unwrap() error {
	return e.Err
}
