package fact

import "errors"

// ErrNotFound is returned when a lookup by id finds no matching Fact.
var ErrNotFound = errors.New("fact: not found")
