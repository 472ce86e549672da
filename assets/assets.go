// Package assets はバイナリに埋め込む静的データを提供します。
package assets

import "embed"

// SeedPath はSeed内の企業データセットのパスです。
const SeedPath = "bsecompany.json"

// Seed は起動時インポートに使うBSE上場企業データセットです。
//
//go:embed bsecompany.json
var Seed embed.FS
