package commentrepo

import "errors"

var ErrNotFound = errors.New("comment not found")
