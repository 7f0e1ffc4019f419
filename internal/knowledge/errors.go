package knowledge

import "errors"

// ErrInvalidRecord indicates a knowledge record missing its identifier or label.
var ErrInvalidRecord = errors.New("knowledge record requires id and label")
