// Package pool provides object pools for the render path, which rebuilds
// every visible row on each frame.
package pool

import (
	"strings"
	"sync"
)

var stringBuilderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// GetStringBuilder returns an empty builder.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	if sb == nil {
		return
	}
	// Don't keep very large builders around.
	if sb.Cap() > 64*1024 {
		return
	}
	sb.Reset()
	stringBuilderPool.Put(sb)
}

const rowSliceCap = 128

var rowSlicePool = sync.Pool{
	New: func() any {
		s := make([]string, 0, rowSliceCap)
		return &s
	},
}

// GetRowSlice returns an empty slice for building screen rows.
func GetRowSlice() *[]string {
	return rowSlicePool.Get().(*[]string)
}

// PutRowSlice clears rows and returns it to the pool.
func PutRowSlice(rows *[]string) {
	if rows == nil {
		return
	}
	clear(*rows)
	*rows = (*rows)[:0]
	rowSlicePool.Put(rows)
}
