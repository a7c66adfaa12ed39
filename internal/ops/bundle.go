package ops

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"strings"

	"nanopack/internal/asset"
	"nanopack/internal/db"
	"nanopack/internal/errors"
)

// BundleInput contains parameters for the Bundle operation.
type BundleInput struct {
	IDs  []string // selected subset; every id must exist
	Name string   // archive base name, default "bundle"
}

// BundleOutput contains the built archive.
type BundleOutput struct {
	FileName string `json:"file_name"` // with .zip suffix
	Count    int    `json:"count"`
	Data     []byte `json:"-"`
}

// Bundle packages the selected assets into a single ZIP archive. The
// selection is not cleared afterwards.
func Bundle(database *sql.DB, input BundleInput) (*BundleOutput, error) {
	ids := cleanIDs(input.IDs)

	assets := make([]asset.Asset, 0, len(ids))
	for _, id := range ids {
		a, err := db.GetByID(database, id)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}

	data, err := BuildArchive(assets)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "bundle"
	}

	return &BundleOutput{
		FileName: name + ".zip",
		Count:    len(assets),
		Data:     data,
	}, nil
}

// BuildArchive writes one entry per asset, named by the asset's stored
// filename: vector payloads verbatim, raster payloads stripped of their
// data-URI header and decoded to binary. Any unparsable raster payload
// fails the whole build; no partial archive is produced. An empty input
// yields a valid zero-entry archive.
func BuildArchive(assets []asset.Asset) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, a := range assets {
		w, err := zw.Create(a.FileName)
		if err != nil {
			return nil, errors.NewArchiveBuildFailed(a.FileName, err)
		}

		var content []byte
		switch a.Kind {
		case asset.KindVector:
			content = []byte(a.Payload)
		case asset.KindRaster:
			_, content, err = asset.DecodeDataURI(a.Payload)
			if err != nil {
				return nil, errors.NewArchiveBuildFailed(a.FileName, err)
			}
		default:
			return nil, errors.NewArchiveBuildFailed(a.FileName, nil)
		}

		if _, err := w.Write(content); err != nil {
			return nil, errors.NewArchiveBuildFailed(a.FileName, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return buf.Bytes(), nil
}
