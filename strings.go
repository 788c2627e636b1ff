// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"unsafe"
)

// CloneBytes copies src into the arena and returns the copy. A nil src
// yields nil; a nil return for non-nil src means the arena is out of
// capacity, in which case the arena's state is unchanged. The copy is
// valid until the arena is reset or released.
func CloneBytes(a Arena, src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := AllocateBytes(a, len(src))
	if dst == nil {
		return nil
	}
	copy(dst, src)
	return dst
}

// CloneString copies s into the arena and returns a string aliasing
// the arena's bytes. The second return is false when the arena is out
// of capacity. The returned string must not outlive the arena.
func CloneString(a Arena, s string) (string, bool) {
	if len(s) == 0 {
		return "", true
	}
	b := AllocateBytes(a, len(s))
	if b == nil {
		return "", false
	}
	copy(b, s)
	return unsafe.String(unsafe.SliceData(b), len(b)), true
}
