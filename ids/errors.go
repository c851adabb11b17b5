package ids

import "errors"

// ErrEntropyUnavailable is returned when the entropy source cannot supply
// enough bytes for a non-zero identifier.
var ErrEntropyUnavailable = errors.New("entropy unavailable")
