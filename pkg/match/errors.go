package match

import "errors"

var ErrInvalidFilter = errors.New("match: invalid status filter")
