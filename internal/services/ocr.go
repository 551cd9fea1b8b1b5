package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// TextExtractor pulls the readable text out of an uploaded document.
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte, mimeType string) (string, error)
}

// VisionTextExtractor runs Google Cloud Vision document text detection.
// Credentials come from the ambient ADC chain unless options override it.
type VisionTextExtractor struct {
	client *vision.ImageAnnotatorClient
}

func NewVisionTextExtractor(ctx context.Context, opts ...option.ClientOption) (*VisionTextExtractor, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionTextExtractor{client: client}, nil
}

func (e *VisionTextExtractor) Close() error {
	return e.client.Close()
}

// NewLazyVisionTextExtractor defers dialing the Vision API until the first
// extraction. A deployment without Google credentials still boots; a failed
// dial surfaces on the document request and is retried on the next one.
func NewLazyVisionTextExtractor(opts ...option.ClientOption) TextExtractor {
	return &lazyVisionExtractor{
		opts: opts,
		dial: func(ctx context.Context, opts ...option.ClientOption) (TextExtractor, error) {
			return NewVisionTextExtractor(ctx, opts...)
		},
	}
}

type lazyVisionExtractor struct {
	opts []option.ClientOption
	dial func(ctx context.Context, opts ...option.ClientOption) (TextExtractor, error)

	mu     sync.Mutex
	client TextExtractor
}

func (e *lazyVisionExtractor) ExtractText(ctx context.Context, content []byte, mimeType string) (string, error) {
	client, err := e.extractor(ctx)
	if err != nil {
		return "", fmt.Errorf("ocr client: %w", err)
	}
	return client.ExtractText(ctx, content, mimeType)
}

func (e *lazyVisionExtractor) extractor(ctx context.Context) (TextExtractor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		client, err := e.dial(ctx, e.opts...)
		if err != nil {
			return nil, err
		}
		e.client = client
	}
	return e.client, nil
}

func (e *VisionTextExtractor) ExtractText(ctx context.Context, content []byte, mimeType string) (string, error) {
	if len(content) == 0 {
		return "", nil
	}
	if mimeType == "application/pdf" {
		return e.extractFromPDF(ctx, content, mimeType)
	}
	return e.extractFromImage(ctx, content)
}

func (e *VisionTextExtractor) extractFromImage(ctx context.Context, content []byte) (string, error) {
	img, err := vision.NewImageFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("vision image: %w", err)
	}
	doc, err := e.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return "", fmt.Errorf("vision document text detection: %w", err)
	}
	if doc == nil {
		return "", nil
	}
	return strings.TrimSpace(doc.Text), nil
}

// extractFromPDF annotates an inline PDF. Vision caps inline files at five
// pages, which covers the upload size limit.
func (e *VisionTextExtractor) extractFromPDF(ctx context.Context, content []byte, mimeType string) (string, error) {
	resp, err := e.client.BatchAnnotateFiles(ctx, &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  content,
					MimeType: mimeType,
				},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision batch annotate files: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, page := range resp.Responses[0].Responses {
		if page.Error != nil {
			continue
		}
		annotation := page.FullTextAnnotation
		if annotation == nil {
			continue
		}
		pageText := strings.TrimSpace(annotation.Text)
		if pageText == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}
