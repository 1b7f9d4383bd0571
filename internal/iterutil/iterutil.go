// The code in this package is derivative of https://github.com/jub0bs/iterutil (all credit to jub0bs).
// Mount of this source code is governed by a MIT License that can be found
// at https://github.com/jub0bs/iterutil/blob/main/LICENSE.

// Package iterutil provides small range-over-func helpers. evtrie's
// splitSegments uses SplitSeq to split a pattern on '*' and collects the
// segments into a []string for its insert and descend loops.
package iterutil

import (
	"iter"
	"strings"
)

// SplitSeq yields the substrings of s separated by sep, left to right, the
// same order as strings.Split(s, sep). It panics if sep is empty.
func SplitSeq(s, sep string) iter.Seq[string] {
	if sep == "" {
		panic("iterutil: empty separator")
	}
	return func(yield func(string) bool) {
		for {
			i := strings.Index(s, sep)
			if i < 0 {
				yield(s)
				return
			}
			if !yield(s[:i]) {
				return
			}
			s = s[i+len(sep):]
		}
	}
}
