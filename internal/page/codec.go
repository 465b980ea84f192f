package page

import (
	"encoding/json"
	"fmt"

	"pressing/internal/models"
)

// Each record occupies one directory in the repository holding exactly two
// files: the structured metadata and the opaque rendered body.
const (
	metadataFile = "metadata.json"
	bodyFile     = "code.html"
)

func metadataPath(name string) string { return name + "/" + metadataFile }
func bodyPath(name string) string     { return name + "/" + bodyFile }

// Encode serializes a record into its two-file wire form.
func Encode(rec models.PageRecord) (metadata, body []byte, err error) {
	if rec.Metadata.Title == "" {
		return nil, nil, fmt.Errorf("encoding %q: title is required", rec.Name)
	}
	metadata, err = json.MarshalIndent(rec.Metadata, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding %q: %w", rec.Name, err)
	}
	metadata = append(metadata, '\n')
	return metadata, rec.Body, nil
}

// Decode reassembles a record from its two files. Exactly one file present
// is a partial record, reported as such rather than papered over with
// defaults. Malformed metadata is an ErrDecode.
func Decode(name string, metadata, body []byte) (models.PageRecord, error) {
	switch {
	case metadata == nil && body == nil:
		return models.PageRecord{}, fmt.Errorf("decoding %q: both files missing", name)
	case metadata == nil:
		return models.PageRecord{}, &PartialError{Name: name, HasBody: true}
	case body == nil:
		return models.PageRecord{}, &PartialError{Name: name, HasMetadata: true}
	}
	md, err := decodeMetadata(name, metadata)
	if err != nil {
		return models.PageRecord{}, err
	}
	return models.PageRecord{Name: name, Metadata: md, Body: body}, nil
}

func decodeMetadata(name string, data []byte) (models.Metadata, error) {
	var md models.Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return models.Metadata{}, fmt.Errorf("%w: %s metadata: %v", ErrDecode, name, err)
	}
	if md.Title == "" {
		return models.Metadata{}, fmt.Errorf("%w: %s metadata is missing a title", ErrDecode, name)
	}
	return md, nil
}
