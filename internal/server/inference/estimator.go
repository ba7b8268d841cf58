// Package inference is the client of the external food-recognition service.
package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var (
	// ErrInvalidEstimate is returned when the service answers with a body
	// that cannot be parsed or lacks a required field.
	ErrInvalidEstimate = errors.New("invalid estimate")
	// ErrNoEvidence is returned when neither an image nor a description is given.
	ErrNoEvidence = errors.New("no food evidence")
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Evidence is what the service estimates from: an image payload (data: URI
// or URL) or a free-text description.
type Evidence struct {
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Estimate is the structured nutrition estimate for one food.
type Estimate struct {
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Sugar      float64 `json:"sugar"`
	Confidence float64 `json:"confidence"`
}

type Estimator interface {
	Estimate(ctx context.Context, ev Evidence) (*Estimate, error)
}

// wireEstimate mirrors Estimate with pointers so missing fields are detectable.
type wireEstimate struct {
	Name       *string  `json:"name"`
	Calories   *float64 `json:"calories"`
	Protein    *float64 `json:"protein"`
	Carbs      *float64 `json:"carbs"`
	Fat        *float64 `json:"fat"`
	Sugar      *float64 `json:"sugar"`
	Confidence *float64 `json:"confidence"`
}

func (w *wireEstimate) estimate() (*Estimate, error) {
	missing := make([]string, 0)
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("name", w.Name != nil && strings.TrimSpace(*w.Name) != "")
	check("calories", w.Calories != nil)
	check("protein", w.Protein != nil)
	check("carbs", w.Carbs != nil)
	check("fat", w.Fat != nil)
	check("sugar", w.Sugar != nil)
	check("confidence", w.Confidence != nil)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidEstimate, strings.Join(missing, ", "))
	}
	return &Estimate{
		Name:       *w.Name,
		Calories:   *w.Calories,
		Protein:    *w.Protein,
		Carbs:      *w.Carbs,
		Fat:        *w.Fat,
		Sugar:      *w.Sugar,
		Confidence: *w.Confidence,
	}, nil
}

// HTTPEstimator posts evidence as JSON to a single endpoint.
type HTTPEstimator struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPEstimator(url, apiKey string, timeout time.Duration) *HTTPEstimator {
	return &HTTPEstimator{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Estimate asks the service for a nutrition estimate of ev.
func (e *HTTPEstimator) Estimate(ctx context.Context, ev Evidence) (*Estimate, error) {
	if strings.TrimSpace(ev.Image) == "" && strings.TrimSpace(ev.Description) == "" {
		return nil, ErrNoEvidence
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var w wireEstimate
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEstimate, err)
	}
	return w.estimate()
}
