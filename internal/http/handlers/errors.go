package handlers

import "errors"

var errInvalidScore = errors.New("score must be between 0 and 10")
