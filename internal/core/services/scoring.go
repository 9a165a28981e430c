package services

import (
	"context"
	"encoding/json"
	"sync"

	log "github.com/sirupsen/logrus"

	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
)

// predictor is the decoded form of the model artifact. The artifact blob is
// a JSON document {"model_type": "linear", "weights": [...], "intercept": n};
// anything that does not decode to that shape is a wrong-format artifact.
type predictor struct {
	ModelType string    `json:"model_type"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

func (p *predictor) predict(row []float64) float64 {
	out := p.Intercept
	n := len(row)
	if len(p.Weights) < n {
		n = len(p.Weights)
	}
	for i := 0; i < n; i++ {
		out += p.Weights[i] * row[i]
	}
	return out
}

// ScoringService owns the loaded model artifact for one process. The
// artifact is loaded at most once per process lifetime and is immutable once
// resident, so prediction reads need no locking after load.
type ScoringService struct {
	store       ports.ArtifactStore
	artifactURI string

	mu     sync.Mutex
	loaded bool
	model  *predictor
}

func NewScoringService(store ports.ArtifactStore, artifactURI string) *ScoringService {
	return &ScoringService{store: store, artifactURI: artifactURI}
}

// EnsureLoaded loads the model artifact if it is not already resident.
// Concurrent first callers serialize on the mutex so exactly one storage
// read happens; everyone observes the result of the in-flight load. A failed
// load leaves the service unloaded and is retried on the next call.
func (s *ScoringService) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	if s.artifactURI == "" {
		return domain.MissingEnv(nil)
	}

	blob, err := s.store.Fetch(ctx, s.artifactURI)
	if err != nil {
		log.WithError(err).WithField("artifact_uri", s.artifactURI).Error("model artifact fetch failed")
		return domain.ModelNotLoaded(map[string]any{"artifact_uri": s.artifactURI})
	}

	var p predictor
	if err := json.Unmarshal(blob, &p); err != nil || p.ModelType == "" {
		return domain.ModelWrongFormat(map[string]any{"artifact_uri": s.artifactURI})
	}

	s.model = &p
	s.loaded = true
	log.WithField("artifact_uri", s.artifactURI).Info("model artifact loaded")
	return nil
}

// Predict scores a normalized 2-D batch, one prediction per row in input row
// order. Predict fails with model_not_loaded when called before a successful
// EnsureLoaded.
func (s *ScoringService) Predict(ctx context.Context, batch [][]float64) ([]float64, error) {
	s.mu.Lock()
	model := s.model
	s.mu.Unlock()

	if model == nil {
		return nil, domain.ModelNotLoaded(nil)
	}

	out := make([]float64, len(batch))
	for i, row := range batch {
		out[i] = model.predict(row)
	}
	return out, nil
}

// Healthy reports whether the artifact is currently loaded, attempting a
// lazy warm-up first. A failed load degrades the status without crashing
// the process.
func (s *ScoringService) Healthy(ctx context.Context) bool {
	if err := s.EnsureLoaded(ctx); err != nil {
		return false
	}
	return true
}

// NormalizeFeatures decodes the "features" value of an inference request
// into a 2-D batch. 1-D numeric input becomes a single-row batch; 2-D input
// passes through unchanged. Empty input and anything non-numeric map to the
// taxonomy's 400 kinds.
func NormalizeFeatures(raw json.RawMessage) ([][]float64, error) {
	if len(raw) == 0 {
		return nil, domain.EmptyData(nil)
	}

	var batch [][]float64
	if err := json.Unmarshal(raw, &batch); err == nil {
		if len(batch) == 0 {
			return nil, domain.EmptyData(nil)
		}
		for _, row := range batch {
			if len(row) == 0 {
				return nil, domain.DataNotSupported(nil)
			}
		}
		return batch, nil
	}

	var row []float64
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, domain.DataNotSupported(nil)
	}
	if len(row) == 0 {
		return nil, domain.EmptyData(nil)
	}
	return [][]float64{row}, nil
}
