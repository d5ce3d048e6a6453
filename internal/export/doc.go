// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to Markdown or JSON files.
//
// # Key Types
//
//   - Exporter: Format interface implemented by MarkdownExporter and JSONExporter
//   - Options: Output directory and header/timestamp switches
//
// # Usage
//
//	path, err := export.Export(store.Active(), "md", &export.Options{OutputDir: cfg.Export.Dir})
package export
