package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"go.uber.org/zap"

	"photolabel/config"
)

const (
	contentTypeJPEG = "image/jpeg"
	formFieldImage  = "image"
	maxResponseSize = 1 << 20
)

type classifyResponse struct {
	Labels []string `json:"labels"`
}

// HTTPClassifier sends the normalised image to a model server and reads back its labels.
// Request: multipart form, field "image" holding a JPEG. Response: {"labels": ["tabby cat", ...]}.
type HTTPClassifier struct {
	url       string
	inputSize uint
	maxPixels int64
	client    *http.Client
	log       *zap.Logger
}

func NewHTTPClassifier(cfg config.Classifier, log *zap.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		url:       cfg.URL,
		inputSize: cfg.InputSize,
		maxPixels: cfg.MaxPixels,
		client:    &http.Client{Timeout: cfg.Timeout},
		log:       log.Named("classifier"),
	}
}

func (h *HTTPClassifier) Classify(ctx context.Context, raw []byte) ([]string, error) {
	normalized, err := Normalize(raw, h.inputSize, h.maxPixels)
	if err != nil {
		return nil, err
	}
	body, contentType, err := imageForm(normalized.JPEG)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, body)
	if err != nil {
		return nil, fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read classifier response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	var result classifyResponse
	if err = json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	labels := make([]string, 0, len(result.Labels))
	for _, label := range result.Labels {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	h.log.Debug("image classified",
		zap.Int("width", normalized.OldX),
		zap.Int("height", normalized.OldY),
		zap.Strings("labels", labels))
	return labels, nil
}

func imageForm(jpegData []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="image.jpg"`, formFieldImage))
	header.Set("Content-Type", contentTypeJPEG)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err = part.Write(jpegData); err != nil {
		return nil, "", err
	}
	if err = writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
