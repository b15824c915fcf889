// Package vision classifies waste bin camera frames through an
// external model endpoint.
package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	json "github.com/goccy/go-json"

	"smartcity-ops/internal/domain"
)

// ErrModelUnavailable reports a model that stayed unreachable past the
// retry budget.
var ErrModelUnavailable = errors.New("vision: model unavailable")

// Classification is the model's verdict on one frame.
type Classification struct {
	IsFull     bool    `json:"isFull"`
	FillLevel  float64 `json:"fillLevel"`
	Confidence float64 `json:"confidence"`
	Notes      string  `json:"notes"`
}

// Classifier turns a camera frame into a bin classification.
type Classifier interface {
	AnalyzeBinImage(ctx context.Context, jpegBase64 string) (Classification, error)
}

// HTTPClassifier calls a JSON model endpoint. The endpoint takes
// {"image": <base64 jpeg>} and answers with a Classification.
type HTTPClassifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *log.Logger
}

// NewHTTPClassifier builds a classifier against the given endpoint.
func NewHTTPClassifier(endpoint, apiKey string, logger *log.Logger) (*HTTPClassifier, error) {
	if endpoint == "" {
		return nil, errors.New("vision: empty endpoint")
	}
	if apiKey == "" {
		return nil, errors.New("vision: api key required")
	}
	return &HTTPClassifier{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 45 * time.Second},
		logger:   logger,
	}, nil
}

// AnalyzeBinImage classifies one frame. Transient failures are retried
// a few times; a model that stays unreachable surfaces
// ErrModelUnavailable so callers leave the bin's stored state alone.
func (c *HTTPClassifier) AnalyzeBinImage(ctx context.Context, jpegBase64 string) (Classification, error) {
	if jpegBase64 == "" {
		return Classification{}, errors.New("vision: empty image")
	}
	var result Classification
	err := retry.Do(
		func() error {
			verdict, err := c.analyze(ctx, jpegBase64)
			if err != nil {
				return err
			}
			result = verdict
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		c.logger.Printf("vision: analyze: %v", err)
		return Classification{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return clamp(result), nil
}

func (c *HTTPClassifier) analyze(ctx context.Context, jpegBase64 string) (Classification, error) {
	payload, err := json.Marshal(map[string]any{"image": jpegBase64})
	if err != nil {
		return Classification{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Classification{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Classification{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Classification{}, fmt.Errorf("vision: model answered %d", resp.StatusCode)
	}
	var verdict Classification
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return Classification{}, fmt.Errorf("vision: decode verdict: %w", err)
	}
	return verdict, nil
}

// Degraded is the notice shown to operators when the model cannot
// answer. It is display material only and is never written to a bin.
func Degraded() Classification {
	return Classification{Notes: "Tizim xatoligi (AI javob bermadi)"}
}

func clamp(v Classification) Classification {
	if v.FillLevel < 0 {
		v.FillLevel = 0
	}
	if v.FillLevel > 100 {
		v.FillLevel = 100
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 100 {
		v.Confidence = 100
	}
	return v
}

// BinPatch turns a classification into the sparse bin update the sync
// layer applies after an analysis run.
func BinPatch(v Classification, analyzedAt time.Time) domain.WasteBinPatch {
	isFull := v.IsFull
	fill := v.FillLevel
	analysis := analyzedAt.UTC().Format(time.RFC3339)
	source := "AI Kamera"
	return domain.WasteBinPatch{
		IsFull:       &isFull,
		FillLevel:    &fill,
		LastAnalysis: &analysis,
		ImageSource:  &source,
	}
}
