package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of supported providers and models.
//
//go:embed models.json
var ModelsData []byte
