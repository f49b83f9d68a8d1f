// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded catalogues,
example documents and stylesheets.
*/
package assets

import (
	"embed"
)

// Paths inside [FS].
const (
	ExamplesFile = "examples.yaml"
	PoDir        = "po"
	MessagesDir  = "messages"
	CSSDir       = "css"
)

// FS provides access to the embedded file system.
//
//go:embed examples.yaml po messages css
var FS embed.FS
