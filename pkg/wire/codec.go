// Package wire encodes envelopes for the data channel: canonical JSON, then
// zlib-wrapped DEFLATE at the default level. Messages are small and frequent,
// so a streaming deflate stream beats a full container format like gzip on
// per-message overhead.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

const logPrefix = "wire:codec"

// Encode serializes v to JSON and compresses it for the data channel.
func Encode(v interface{}) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode payload: %w", logPrefix, err)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return nil, fmt.Errorf("%s - failed to compress payload: %w", logPrefix, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%s - failed to flush compressor: %w", logPrefix, err)
	}
	return buf.Bytes(), nil
}

// Decode decompresses data and deserializes the JSON into v. Used by the
// receive-side collaborator and by tests.
func Decode(data []byte, v interface{}) error {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s - failed to open decompressor: %w", logPrefix, err)
	}
	payload, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		return fmt.Errorf("%s - failed to decompress payload: %w", logPrefix, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%s - failed to decode payload: %w", logPrefix, err)
	}
	return nil
}
