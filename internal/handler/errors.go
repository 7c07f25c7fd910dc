package handler

import "errors"

// errNoHandlersAreCreated means the server config enabled neither transport.
var errNoHandlersAreCreated = errors.New("no handlers are created")
