// Package classifier calls the external burn classification model and maps
// its raw prediction vector to a labeled result.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avdeyev/burnscan/internal/imaging"
	"github.com/avdeyev/burnscan/internal/models"
	"go.uber.org/zap"
)

// Classifier produces a burn severity label and confidence for a normalized
// image tensor. Implementations are pure with respect to application state.
type Classifier interface {
	Predict(ctx context.Context, tensor *imaging.Tensor) (label string, confidence float64, err error)
}

// RemoteClassifier invokes a model server over its REST predict endpoint.
// The request and response follow the TensorFlow Serving JSON shape:
// {"instances": [[[...]]]} in, {"predictions": [[...]]} out.
type RemoteClassifier struct {
	url       string
	labels    []string
	threshold float64
	client    *http.Client
	log       *zap.Logger
}

// NewRemoteClassifier constructs a RemoteClassifier.
//
//	url:       full predict endpoint of the model server
//	labels:    class labels ordered by model output index
//	threshold: expected-accuracy threshold; predictions below it are logged
//	           as warnings but still returned
func NewRemoteClassifier(url string, labels []string, threshold float64, log *zap.Logger) *RemoteClassifier {
	return &RemoteClassifier{
		url:       url,
		labels:    labels,
		threshold: threshold,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
	}
}

// predictRequest is the model server request body.
type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

// predictResponse is the model server response body.
type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// Predict sends the tensor to the model server and returns the label with
// the highest score and its confidence. The tensor must be a batch of
// exactly one; any transport, decode, or shape failure wraps
// models.ErrClassificationFailed.
func (c *RemoteClassifier) Predict(ctx context.Context, tensor *imaging.Tensor) (string, float64, error) {
	if tensor == nil || tensor.Batch != 1 {
		return "", 0, fmt.Errorf("%w: tensor must have a batch dimension of exactly 1", models.ErrClassificationFailed)
	}

	body, err := json.Marshal(predictRequest{Instances: nestTensor(tensor)})
	if err != nil {
		return "", 0, fmt.Errorf("%w: encode request: %v", models.ErrClassificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("%w: build request: %v", models.ErrClassificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: call model server: %v", models.ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: model server returned status %d", models.ErrClassificationFailed, resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("%w: decode response: %v", models.ErrClassificationFailed, err)
	}
	if len(out.Predictions) != 1 || len(out.Predictions[0]) == 0 {
		return "", 0, fmt.Errorf("%w: model server returned no predictions", models.ErrClassificationFailed)
	}

	scores := out.Predictions[0]
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}

	label := "Unknown"
	if best < len(c.labels) {
		label = c.labels[best]
	}
	confidence := scores[best]

	if confidence < c.threshold {
		c.log.Warn("prediction confidence below expected accuracy",
			zap.String("label", label),
			zap.Float64("confidence", confidence),
			zap.Float64("threshold", c.threshold),
		)
	}

	return label, confidence, nil
}

// nestTensor expands the flattened tensor into the nested
// [batch][height][width][channel] arrays the model server expects.
func nestTensor(t *imaging.Tensor) [][][][]float32 {
	batch := make([][][][]float32, t.Batch)
	for b := 0; b < t.Batch; b++ {
		rows := make([][][]float32, t.Height)
		for y := 0; y < t.Height; y++ {
			cols := make([][]float32, t.Width)
			for x := 0; x < t.Width; x++ {
				px := make([]float32, t.Channels)
				for c := 0; c < t.Channels; c++ {
					px[c] = t.At(b, y, x, c)
				}
				cols[x] = px
			}
			rows[y] = cols
		}
		batch[b] = rows
	}
	return batch
}
