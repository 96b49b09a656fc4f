package circuitlab

import _ "embed"

// Version is the release version, taken from the VERSION file at build time.
//
//go:embed VERSION
var Version string
