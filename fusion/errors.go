package fusion

import "errors"

// ErrInvalidWeights indicates a weight configuration that cannot
// produce a meaningful combined score.
var ErrInvalidWeights = errors.New("invalid fusion weights")
