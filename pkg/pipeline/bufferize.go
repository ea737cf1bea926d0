// Copyright The Tilery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package pipeline

import (
	"fmt"

	"github.com/tilery/go-tilery/pkg/ir"
)

// defaultStackAlignment is the alignment given to stack allocations
// introduced during bufferization.
const defaultStackAlignment uint = 64

// Buffer describes an allocation produced by the bufferization allocation
// callback.
type Buffer struct {
	// Sizes of the buffer, one per dimension; ir.DimUnknown for dynamic
	// sizes.
	Sizes []int64
	// Alignment of the allocation in bytes.
	Alignment uint
	// OnStack marks allocations placed in the enclosing unit's stack frame.
	OnStack bool
}

// AllocationFn produces an allocation for a tensor value being converted to
// explicit storage.
type AllocationFn func(sizes []int64, alignment uint) (Buffer, error)

// DeallocationFn releases an allocation produced by an AllocationFn.
type DeallocationFn func(buffer Buffer) error

// CopyFn materialises a structural copy between two buffers, expressed as
// the same copy operation used elsewhere in the pipeline.
type CopyFn func(from, to string) ir.Operation

// BufferizeOptions configures comprehensive bufferization with its three
// injectable callbacks.
type BufferizeOptions struct {
	Allocate   AllocationFn
	Deallocate DeallocationFn
	Copy       CopyFn
}

// cpuAllocationFn places allocations in the enclosing unit's stack frame
// with an explicit alignment.
func cpuAllocationFn(sizes []int64, alignment uint) (Buffer, error) {
	return Buffer{Sizes: sizes, Alignment: alignment, OnStack: true}, nil
}

// cpuDeallocationFn does nothing: stack allocations are scoped to the
// enclosing unit of work and freed by its own teardown.
func cpuDeallocationFn(buffer Buffer) error {
	return nil
}

// cpuCopyFn copies between buffers using the ordinary copy operation.
func cpuCopyFn(from, to string) ir.Operation {
	return ir.NewCopyOp(fmt.Sprintf("copy %s to %s", from, to), nil)
}

// newBufferizeOptions returns the CPU bufferization callbacks.  These are
// shared verbatim by every strategy which reaches bufferization.
func newBufferizeOptions() BufferizeOptions {
	return BufferizeOptions{
		Allocate:   cpuAllocationFn,
		Deallocate: cpuDeallocationFn,
		Copy:       cpuCopyFn,
	}
}
