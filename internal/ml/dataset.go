package ml

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

const labelColumn = "stress_level"

// Dataset holds labeled training rows: one float vector per row in
// FeatureColumns order, plus the raw label string.
type Dataset struct {
	X      [][]float64
	Labels []string
}

// LoadDataset reads a CSV whose header is FeatureColumns followed by the
// label column.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	header := rows[0]
	if len(header) != len(FeatureColumns)+1 || header[len(header)-1] != labelColumn {
		return nil, fmt.Errorf("dataset %s: unexpected header %v", path, header)
	}
	for i, col := range FeatureColumns {
		if header[i] != col {
			return nil, fmt.Errorf("dataset %s: column %d is %q, want %q", path, i, header[i], col)
		}
	}

	ds := &Dataset{}
	for n, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("dataset %s: row %d has %d fields, want %d", path, n+1, len(row), len(header))
		}
		vec := make([]float64, len(FeatureColumns))
		for i := range FeatureColumns {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return nil, fmt.Errorf("dataset %s: row %d column %q: %w", path, n+1, header[i], err)
			}
			vec[i] = v
		}
		ds.X = append(ds.X, vec)
		ds.Labels = append(ds.Labels, row[len(row)-1])
	}
	return ds, nil
}

// WriteSampleDataset persists the fixed illustrative dataset used when no
// real training data exists, so a fresh checkout can train reproducibly.
func WriteSampleDataset(path string) error {
	rows := [][]string{
		append(append([]string{}, FeatureColumns...), labelColumn),
		{"20", "5", "6", "2", "3", "High"},
		{"19", "3", "7", "4", "4", "Low"},
		{"21", "6", "5", "1", "2", "High"},
		{"20", "4", "6", "3", "4", "Low"},
		{"22", "2", "5", "2", "1", "High"},
		{"23", "7", "8", "5", "5", "Low"},
		{"19", "4", "7", "3", "3", "Medium"},
		{"20", "5", "6", "2", "4", "High"},
		{"21", "3", "5", "4", "2", "Medium"},
		{"22", "6", "7", "3", "4", "Low"},
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// Split partitions the dataset into train/test subsets with a seeded shuffle,
// holding out testFraction of the rows.
func (d *Dataset) Split(testFraction float64, seed int64) (train, test *Dataset) {
	n := len(d.X)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testN := int(float64(n)*testFraction + 0.5)
	if testN >= n {
		testN = n - 1
	}
	if testN < 0 {
		testN = 0
	}

	train, test = &Dataset{}, &Dataset{}
	for k, i := range perm {
		dst := train
		if k < testN {
			dst = test
		}
		dst.X = append(dst.X, d.X[i])
		dst.Labels = append(dst.Labels, d.Labels[i])
	}
	return train, test
}
