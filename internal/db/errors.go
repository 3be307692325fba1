package db

import "errors"

// ErrRoomKeyRange is returned when a stored room type or id does not fit a byte.
var ErrRoomKeyRange = errors.New("rift room key out of range")
