package api

import "errors"

// ErrorOutofMemory the break space cannot be extended to satisfy an
// allocation.
var ErrorOutofMemory = errors.New("outofmemory")

// ErrorInvalidSize requested allocation size is not positive.
var ErrorInvalidSize = errors.New("invalidSize")

// ErrorOverflow element count times element size does not fit in int64.
var ErrorOverflow = errors.New("overflow")

// ErrorInvalidPointer address was not handed out by the heap, or it was
// already freed.
var ErrorInvalidPointer = errors.New("invalidPointer")

// ErrorInvalidBreak requested break is outside the break space.
var ErrorInvalidBreak = errors.New("invalidBreak")

// ErrorReleased operation on a breaker or heap that was released.
var ErrorReleased = errors.New("released")
