package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// modelArtifact is the on-disk form of a trained forest. RunID pairs it with
// the encoder produced by the same training run.
type modelArtifact struct {
	RunID   string   `json:"run_id"`
	Columns []string `json:"columns"`
	Forest  *Forest  `json:"forest"`
}

type encoderArtifact struct {
	RunID   string        `json:"run_id"`
	Encoder *LabelEncoder `json:"encoder"`
}

func SaveModel(path, runID string, forest *Forest) error {
	return writeArtifact(path, modelArtifact{
		RunID:   runID,
		Columns: FeatureColumns,
		Forest:  forest,
	})
}

func SaveEncoder(path, runID string, encoder *LabelEncoder) error {
	return writeArtifact(path, encoderArtifact{
		RunID:   runID,
		Encoder: encoder,
	})
}

func writeArtifact(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Bundle is the loaded model/encoder pair the web service predicts with.
// It is built once at startup and read-only afterwards.
type Bundle struct {
	RunID   string
	forest  *Forest
	encoder *LabelEncoder
}

// LoadBundle reads both artifacts and verifies they belong together: same
// training run, expected feature columns, consistent class count.
func LoadBundle(modelPath, encoderPath string) (*Bundle, error) {
	var model modelArtifact
	if err := readArtifact(modelPath, &model); err != nil {
		return nil, err
	}
	var enc encoderArtifact
	if err := readArtifact(encoderPath, &enc); err != nil {
		return nil, err
	}

	if model.Forest == nil || len(model.Forest.Trees) == 0 {
		return nil, fmt.Errorf("model artifact %s contains no trained trees", modelPath)
	}
	if enc.Encoder == nil || len(enc.Encoder.Classes) == 0 {
		return nil, fmt.Errorf("encoder artifact %s contains no classes", encoderPath)
	}
	if model.RunID == "" || model.RunID != enc.RunID {
		return nil, fmt.Errorf("model run %q does not match encoder run %q; regenerate both artifacts together", model.RunID, enc.RunID)
	}
	if len(model.Columns) != len(FeatureColumns) {
		return nil, fmt.Errorf("model was trained on %d feature columns, expected %d", len(model.Columns), len(FeatureColumns))
	}
	for i, col := range FeatureColumns {
		if model.Columns[i] != col {
			return nil, fmt.Errorf("model feature column %d is %q, expected %q", i, model.Columns[i], col)
		}
	}
	if model.Forest.NumClasses != len(enc.Encoder.Classes) {
		return nil, fmt.Errorf("model predicts %d classes but encoder has %d", model.Forest.NumClasses, len(enc.Encoder.Classes))
	}

	return &Bundle{
		RunID:   model.RunID,
		forest:  model.Forest,
		encoder: enc.Encoder,
	}, nil
}

func readArtifact(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return nil
}

// Predict classifies one input and returns the decoded category string.
func (b *Bundle) Predict(features Features) (string, error) {
	code := b.forest.PredictVector(features.Vector())
	level, err := b.encoder.Inverse(code)
	if err != nil {
		return "", fmt.Errorf("decode prediction: %w", err)
	}
	return level, nil
}

// Classes exposes the category strings the model can produce.
func (b *Bundle) Classes() []string {
	return b.encoder.Classes
}
