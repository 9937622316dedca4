package reasm

import "fmt"

// bucketCountError reports an invalid construction-time bucket count.
// It is the only failure Engine construction can report; every other
// parameter is a runtime-tunable eviction or timeout policy rather
// than something worth rejecting up front.
type bucketCountError int

func (e bucketCountError) Error() string {
	return fmt.Sprintf("reasm: bucket count must be >= 1, got %d", int(e))
}

func errBucketCount(n int) error { return bucketCountError(n) }
