package services

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/option"
)

func TestLazyExtractorConstructsWithoutCredentials(t *testing.T) {
	if NewLazyVisionTextExtractor() == nil {
		t.Fatal("Expected an extractor")
	}
}

func TestLazyExtractorRetriesFailedDial(t *testing.T) {
	dialErr := errors.New("could not find default credentials")
	inner := &stubExtractor{text: "Glucose 98 mg/dL"}
	dials := 0
	extractor := &lazyVisionExtractor{
		dial: func(_ context.Context, _ ...option.ClientOption) (TextExtractor, error) {
			dials++
			if dials == 1 {
				return nil, dialErr
			}
			return inner, nil
		},
	}

	if _, err := extractor.ExtractText(context.Background(), []byte{1}, "image/png"); !errors.Is(err, dialErr) {
		t.Fatalf("Expected dial error, got %v", err)
	}

	text, err := extractor.ExtractText(context.Background(), []byte{1}, "image/png")
	if err != nil {
		t.Fatalf("Expected no error after retry, got %v", err)
	}
	if text != "Glucose 98 mg/dL" {
		t.Errorf("Unexpected extracted text: %q", text)
	}

	if _, err := extractor.ExtractText(context.Background(), []byte{1}, "image/png"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if dials != 2 {
		t.Errorf("Expected the client to be dialed twice, got %d", dials)
	}
}
