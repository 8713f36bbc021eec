// Package lawnstrings is the Composition Root for LawnStrings.
//
// It connects the string table logic in pkg/core with the format adapters
// (plain text, JSON, RTON) and the remote client, and exposes the file level
// operations through a single Engine.
//
// Formats:
//
//   - **Plain text**: `[KEY]` headers followed by the value, UTF-8 with a byte
//     order mark or UTF-16 little endian.
//   - **JSON list / map**: the game's "LawnStringsData" object with its
//     LocStringValues as a flat array or as an object.
//   - **RTON list / map**: the binary encoding of the JSON documents.
//
// Any format converts to any other. Keys sort in natural order, where runs
// of digits compare by value. Two tables can be compared for added keys,
// changed values or both, and a local table can be checked against the
// strings published on a content server.
//
// Usage:
//
//	eng := lawnstrings.New(
//		lawnstrings.WithEncodings(lawnstrings.EncodingUTF8BOM, lawnstrings.EncodingUTF16LE),
//		lawnstrings.WithLogger(logger),
//	)
//
//	// Writes strings_converted.json next to the input.
//	out, err := eng.ConvertFile(ctx, "strings.txt", lawnstrings.FormatPlainText, lawnstrings.FormatJSONMap)
package lawnstrings
