// Package lib provide statistics and formatting helpers that are not
// particularly tied up with the allocator algorithm. They are meant to
// be small, self-contained and shall not depend on anything other than
// the standard library.
package lib
