// Package decode turns raw artifact bytes into a typed analysis record.
//
// An artifact is a JSON document as emitted by the analysis producer,
// optionally wrapped in a zstd frame. Decoding either succeeds or fails
// without side effects; the loader treats a failure as "artifact absent
// this round".
package decode

import (
	"encoding/json"

	"sift/internal/analysis"
	"sift/internal/errors"

	"github.com/klauspost/compress/zstd"
)

// zstd frame magic, little-endian
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var zstdReader *zstd.Decoder

func init() {
	// Stateless DecodeAll-only decoder, safe for concurrent use.
	zstdReader, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
}

// Record decodes one artifact's bytes into an analysis record. Compressed
// artifacts are transparently decompressed. The returned record is freshly
// allocated and owned by the caller.
func Record(data []byte) (*analysis.Record, error) {
	if isZstd(data) {
		plain, err := zstdReader.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.New(errors.DecodeFailed, "artifact zstd frame is corrupt", err)
		}
		data = plain
	}

	var rec analysis.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.New(errors.DecodeFailed, "artifact is not a valid analysis document", err)
	}

	if !analysis.KnownFormat(rec.Kind) {
		return nil, errors.Newf(errors.FormatUnknown, nil, "unsupported format tag %q", rec.Kind)
	}

	return &rec, nil
}

func isZstd(data []byte) bool {
	if len(data) < len(zstdMagic) {
		return false
	}
	for i, b := range zstdMagic {
		if data[i] != b {
			return false
		}
	}
	return true
}
