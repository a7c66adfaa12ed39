// Package asset defines the stored artwork record and the filename policy
// used when a variant is saved to the library.
package asset

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Kind determines how an asset payload is interpreted.
type Kind string

const (
	// KindRaster is a pixel-encoded image stored as a base64 data URI.
	KindRaster Kind = "raster"
	// KindVector is scalable markup stored as raw SVG text.
	KindVector Kind = "vector"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindRaster || k == KindVector
}

// Ext returns the file extension for the kind, without the dot.
func (k Kind) Ext() string {
	if k == KindVector {
		return "svg"
	}
	return "png"
}

// Asset is one stored packaging-artwork variant. An asset is created
// exactly once and is immutable except for full replacement under the
// same id; the payload/kind match is the writer's contract, not checked
// by the store.
type Asset struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Variant     int    `json:"variant"`
	FileName    string `json:"file_name"`
	Kind        Kind   `json:"kind"`
	Payload     string `json:"payload"`
	Width       *int   `json:"width,omitempty"`
	Height      *int   `json:"height,omitempty"`
	CreatedAt   int64  `json:"created_at"` // epoch milliseconds
}

// SplitDataURI splits a data URI of the form
// "data:<mediatype>;base64,<body>" into its media type and encoded body.
func SplitDataURI(uri string) (mediaType, body string, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", "", fmt.Errorf("not a data URI")
	}
	header, body, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("data URI has no body")
	}
	mediaType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", "", fmt.Errorf("data URI is not base64-encoded")
	}
	if mediaType == "" || body == "" {
		return "", "", fmt.Errorf("data URI is incomplete")
	}
	return mediaType, body, nil
}

// DecodeDataURI splits a base64 data URI and decodes its body.
func DecodeDataURI(uri string) (mediaType string, data []byte, err error) {
	mediaType, body, err := SplitDataURI(uri)
	if err != nil {
		return "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI body: %w", err)
	}
	return mediaType, data, nil
}

// EncodeDataURI builds a base64 data URI from raw bytes.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
