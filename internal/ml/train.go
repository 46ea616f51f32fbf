package ml

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	trainSeed    = 42
	trainTrees   = 100
	testFraction = 0.2
)

// TrainResult reports what a training run produced.
type TrainResult struct {
	RunID        string
	Classes      []string
	TrainRows    int
	TestRows     int
	Accuracy     float64
	ModelSaved   bool
	EncoderSaved bool
}

// TrainOptions names the files a training run reads and writes.
type TrainOptions struct {
	DatasetPath string
	ModelPath   string
	EncoderPath string
}

// Train runs the full offline pipeline: load (or synthesize) the dataset,
// fit the label encoder, split, fit the forest and persist both artifacts
// under a shared run ID. Artifact write failures are logged and reported in
// the result rather than aborting the run.
func Train(opts TrainOptions, logger *logrus.Logger) (*TrainResult, error) {
	if _, err := os.Stat(opts.DatasetPath); os.IsNotExist(err) {
		logger.Infof("dataset %s not found, writing sample data", opts.DatasetPath)
		if err := WriteSampleDataset(opts.DatasetPath); err != nil {
			return nil, err
		}
	}

	ds, err := LoadDataset(opts.DatasetPath)
	if err != nil {
		return nil, err
	}

	encoder := FitLabelEncoder(ds.Labels)

	train, test := ds.Split(testFraction, trainSeed)
	trainY, err := encodeAll(encoder, train.Labels)
	if err != nil {
		return nil, err
	}
	testY, err := encodeAll(encoder, test.Labels)
	if err != nil {
		return nil, err
	}

	forest := TrainForest(train.X, trainY, len(encoder.Classes), ForestConfig{
		Trees: trainTrees,
		Seed:  trainSeed,
	})

	result := &TrainResult{
		RunID:     uuid.NewString(),
		Classes:   encoder.Classes,
		TrainRows: len(train.X),
		TestRows:  len(test.X),
		Accuracy:  accuracy(forest, test.X, testY),
	}

	if err := SaveModel(opts.ModelPath, result.RunID, forest); err != nil {
		logger.Errorf("save model: %v", err)
	} else {
		result.ModelSaved = true
	}
	if err := SaveEncoder(opts.EncoderPath, result.RunID, encoder); err != nil {
		logger.Errorf("save encoder: %v", err)
	} else {
		result.EncoderSaved = true
	}

	return result, nil
}

func encodeAll(encoder *LabelEncoder, labels []string) ([]int, error) {
	codes := make([]int, len(labels))
	for i, label := range labels {
		code, err := encoder.Transform(label)
		if err != nil {
			return nil, fmt.Errorf("encode labels: %w", err)
		}
		codes[i] = code
	}
	return codes, nil
}

func accuracy(forest *Forest, x [][]float64, y []int) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i := range x {
		if forest.PredictVector(x[i]) == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}
