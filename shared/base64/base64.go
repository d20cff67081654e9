package base64

import (
	enc "encoding/base64"
	"errors"
	"strings"
)

const dataURLMarker = ";base64,"

var ErrInvalidDataURL = errors.New("invalid data URL")

func GetContentType(file string) string {
	start := len("data:")
	end := strings.Index(file, dataURLMarker)

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// IsDataURL reports whether the given string is an inline base64 data URL.
func IsDataURL(file string) bool {
	return strings.HasPrefix(file, "data:") && strings.Contains(file, dataURLMarker)
}

// Decode extracts the content type and raw bytes from a base64 data URL.
func Decode(file string) (contentType string, data []byte, err error) {
	contentType = GetContentType(file)
	if contentType == "" {
		return "", nil, ErrInvalidDataURL
	}

	idx := strings.Index(file, dataURLMarker)

	data, err = enc.StdEncoding.DecodeString(file[idx+len(dataURLMarker):])
	if err != nil {
		return "", nil, ErrInvalidDataURL
	}

	return contentType, data, nil
}
