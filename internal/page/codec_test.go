package page

import (
	"errors"
	"strings"
	"testing"
	"time"

	"pressing/internal/models"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := models.PageRecord{
		Name: "demo-page",
		Metadata: models.Metadata{
			Title:       "Demo",
			Description: "A demo page",
			CreatedAt:   time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
			PageName:    "demo-page",
		},
		Body: []byte("<h1>Hi</h1>"),
	}

	metadata, body, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(metadata), `"title": "Demo"`) {
		t.Errorf("metadata not indented as expected:\n%s", metadata)
	}

	got, err := Decode("demo-page", metadata, body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Metadata != rec.Metadata {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, rec.Metadata)
	}
	if string(got.Body) != string(rec.Body) {
		t.Errorf("body = %q, want %q", got.Body, rec.Body)
	}
}

func TestEncodeRequiresTitle(t *testing.T) {
	_, _, err := Encode(models.PageRecord{Name: "x", Body: []byte("b")})
	if err == nil {
		t.Fatal("Encode accepted a record without a title")
	}
}

func TestDecodePartial(t *testing.T) {
	metadata := []byte(`{"title":"Demo","createdAt":"2025-03-14T09:26:53Z","pageName":"demo"}`)

	_, err := Decode("demo", metadata, nil)
	if !errors.Is(err, ErrPartial) {
		t.Fatalf("metadata-only Decode returned %v, want ErrPartial", err)
	}
	var partial *PartialError
	if !errors.As(err, &partial) {
		t.Fatal("partial condition lost its detail")
	}
	if !partial.HasMetadata || partial.HasBody {
		t.Errorf("partial detail = %+v, want metadata-only", partial)
	}

	_, err = Decode("demo", nil, []byte("<p>orphan</p>"))
	if !errors.Is(err, ErrPartial) {
		t.Fatalf("body-only Decode returned %v, want ErrPartial", err)
	}
}

func TestDecodeMalformedMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
	}{
		{"not json", "not json at all"},
		{"missing title", `{"description":"x","pageName":"demo"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("demo", []byte(tt.metadata), []byte("<p></p>"))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Decode returned %v, want ErrDecode", err)
			}
		})
	}
}
