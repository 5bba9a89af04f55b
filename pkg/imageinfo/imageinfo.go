// Package imageinfo sniffs the content type and pixel dimensions of webcam
// snapshots from their leading header bytes, without decoding the image.
package imageinfo

import (
	"bytes"
	"encoding/binary"
)

// Info describes a sniffed image. Width and Height are -1 when the
// dimensions could not be determined.
type Info struct {
	ContentType string
	Width       int
	Height      int
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Sniff inspects the leading bytes of data. Unrecognized data yields an empty
// ContentType and -1 dimensions.
func Sniff(data []byte) Info {
	info := Info{Width: -1, Height: -1}

	switch {
	case len(data) >= 10 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		info.ContentType = "image/gif"
		info.Width = int(binary.LittleEndian.Uint16(data[6:8]))
		info.Height = int(binary.LittleEndian.Uint16(data[8:10]))

	case len(data) >= 24 && bytes.HasPrefix(data, pngSignature) && bytes.Equal(data[12:16], []byte("IHDR")):
		info.ContentType = "image/png"
		info.Width = int(binary.BigEndian.Uint32(data[16:20]))
		info.Height = int(binary.BigEndian.Uint32(data[20:24]))

	case len(data) >= 16 && bytes.HasPrefix(data, pngSignature):
		// Pre-IHDR layout used by some very old encoders.
		info.ContentType = "image/png"
		info.Width = int(binary.BigEndian.Uint32(data[8:12]))
		info.Height = int(binary.BigEndian.Uint32(data[12:16]))

	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		info.ContentType = "image/jpeg"
		if w, h, ok := jpegDimensions(data); ok {
			info.Width = w
			info.Height = h
		}
	}

	return info
}

// jpegDimensions walks the JPEG marker stream to the first SOF0–SOF3 frame
// header and reads the dimensions from it.
func jpegDimensions(data []byte) (int, int, bool) {
	i := 2
	for i < len(data) {
		// Skip filler bytes between markers.
		for i < len(data) && data[i] != 0xFF {
			i++
		}
		for i < len(data) && data[i] == 0xFF {
			i++
		}
		if i >= len(data) {
			return 0, 0, false
		}

		marker := data[i]
		i++
		if marker == 0xDA {
			// Start of scan; no frame header seen.
			return 0, 0, false
		}
		if marker >= 0xC0 && marker <= 0xC3 {
			if i+7 > len(data) {
				return 0, 0, false
			}
			h := int(binary.BigEndian.Uint16(data[i+3 : i+5]))
			w := int(binary.BigEndian.Uint16(data[i+5 : i+7]))
			return w, h, true
		}
		if i+2 > len(data) {
			return 0, 0, false
		}
		segLen := int(binary.BigEndian.Uint16(data[i : i+2]))
		if segLen < 2 {
			return 0, 0, false
		}
		i += segLen
	}
	return 0, 0, false
}
