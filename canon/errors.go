package canon

import "errors"

// ErrNilRoot is returned by Sign when the root node is nil.
var ErrNilRoot = errors.New("canon: root is nil")
