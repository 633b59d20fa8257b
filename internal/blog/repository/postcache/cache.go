package postcache

import "errors"

// ErrMiss is returned when the post is not cached.
var ErrMiss = errors.New("cache miss")
