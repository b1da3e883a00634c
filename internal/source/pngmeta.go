package source

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	apperrors "appicon/internal/errors"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// maxTextChunk caps how much of a text chunk is buffered.
const maxTextChunk = 1 << 20

// PNGSummary describes the ancillary chunks of a PNG.
type PNGSummary struct {
	TextKeys     []string
	HasGPS       bool
	HasDevice    bool
	HasTimestamp bool
	HasICC       bool
	HasExif      bool
}

func readPNGChunks(rs io.ReadSeeker) (PNGSummary, error) {
	const op = "source.png"
	summary := PNGSummary{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return summary, err
	}
	br := bufio.NewReader(rs)

	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(br, sig); err != nil {
		return summary, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return summary, apperrors.New(apperrors.KindUnsupportedSourceFormat, op, "invalid PNG signature")
	}

	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(br, header); err != nil {
			if err == io.EOF {
				return summary, nil
			}
			return summary, err
		}
		length := binary.BigEndian.Uint32(header[:4])
		name := string(header[4:])

		switch name {
		case "tEXt", "zTXt", "iTXt":
			if length > maxTextChunk {
				return summary, apperrors.Newf(apperrors.KindUnsupportedSourceFormat, op, "%s chunk of %d bytes", name, length)
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return summary, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return summary, err
			}
			if key := textKey(data); key != "" {
				summary.TextKeys = append(summary.TextKeys, key)
				classifyTextKey(&summary, key)
			}
			continue
		case "tIME":
			summary.HasTimestamp = true
		case "iCCP":
			summary.HasICC = true
		case "eXIf":
			summary.HasExif = true
		}

		if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
			return summary, err
		}
		if name == "IEND" {
			return summary, nil
		}
	}
}

func textKey(data []byte) string {
	idx := bytes.IndexByte(data, 0)
	if idx <= 0 {
		return ""
	}
	return string(data[:idx])
}

func classifyTextKey(summary *PNGSummary, key string) {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "gps") || strings.Contains(lower, "latitude") || strings.Contains(lower, "longitude") {
		summary.HasGPS = true
	}
	if strings.Contains(lower, "model") || strings.Contains(lower, "make") {
		summary.HasDevice = true
	}
	if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
		summary.HasTimestamp = true
	}
}
