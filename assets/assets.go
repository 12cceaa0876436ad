// Package assets bundles the default questionnaire into the binary.
package assets

import _ "embed"

//go:embed questions.yaml
var Questions []byte
