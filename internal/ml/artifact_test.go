package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedPair(t *testing.T) (*Forest, *LabelEncoder) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stress_data.csv")
	require.NoError(t, WriteSampleDataset(path))
	ds, err := LoadDataset(path)
	require.NoError(t, err)

	enc := FitLabelEncoder(ds.Labels)
	y := make([]int, len(ds.Labels))
	for i, l := range ds.Labels {
		code, err := enc.Transform(l)
		require.NoError(t, err)
		y[i] = code
	}
	return TrainForest(ds.X, y, len(enc.Classes), ForestConfig{Trees: 20, Seed: 42}), enc
}

func TestArtifacts_RoundTrip(t *testing.T) {
	forest, enc := trainedPair(t)

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "stress_model.json")
	encoderPath := filepath.Join(dir, "label_encoder.json")

	require.NoError(t, SaveModel(modelPath, "run-1", forest))
	require.NoError(t, SaveEncoder(encoderPath, "run-1", enc))

	bundle, err := LoadBundle(modelPath, encoderPath)
	require.NoError(t, err)
	assert.Equal(t, "run-1", bundle.RunID)
	assert.Equal(t, enc.Classes, bundle.Classes())

	level, err := bundle.Predict(Features{Age: 20, StudyHours: 5, SleepHours: 6, PhysicalActivity: 2, SocialSupport: 3})
	require.NoError(t, err)
	assert.Contains(t, enc.Classes, level)
}

func TestLoadBundle_RunIDMismatch(t *testing.T) {
	forest, enc := trainedPair(t)

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "stress_model.json")
	encoderPath := filepath.Join(dir, "label_encoder.json")

	require.NoError(t, SaveModel(modelPath, "run-1", forest))
	require.NoError(t, SaveEncoder(encoderPath, "run-2", enc))

	_, err := LoadBundle(modelPath, encoderPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestLoadBundle_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadBundle(filepath.Join(dir, "no_model.json"), filepath.Join(dir, "no_encoder.json"))
	assert.Error(t, err)
}

func TestLoadBundle_CorruptArtifact(t *testing.T) {
	forest, enc := trainedPair(t)

	dir := t.TempDir()
	modelPath := filepath.Join(dir, "stress_model.json")
	encoderPath := filepath.Join(dir, "label_encoder.json")

	require.NoError(t, SaveModel(modelPath, "run-1", forest))
	require.NoError(t, SaveEncoder(encoderPath, "run-1", enc))
	require.NoError(t, os.WriteFile(modelPath, []byte("{not json"), 0o644))

	_, err := LoadBundle(modelPath, encoderPath)
	assert.Error(t, err)
}

func TestFeatures_VectorOrder(t *testing.T) {
	f := Features{Age: 21, StudyHours: 6, SleepHours: 5, PhysicalActivity: 1, SocialSupport: 2}
	assert.Equal(t, []float64{21, 6, 5, 1, 2}, f.Vector())
}
