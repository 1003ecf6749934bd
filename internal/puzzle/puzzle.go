// Package puzzle holds the worker notes the solver runs against by default.
package puzzle

import _ "embed"

// Input is the embedded worker description.
//
//go:embed input.txt
var Input string
