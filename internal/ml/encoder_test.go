package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitLabelEncoder_SortedAndDeterministic(t *testing.T) {
	a := FitLabelEncoder([]string{"High", "Low", "High", "Medium", "Low"})
	b := FitLabelEncoder([]string{"Medium", "Low", "High"})

	assert.Equal(t, []string{"High", "Low", "Medium"}, a.Classes)
	// same distinct labels in any order encode identically
	assert.Equal(t, a.Classes, b.Classes)
}

func TestLabelEncoder_TransformInverse(t *testing.T) {
	enc := FitLabelEncoder([]string{"High", "Low", "Medium"})

	for _, label := range enc.Classes {
		code, err := enc.Transform(label)
		require.NoError(t, err)

		back, err := enc.Inverse(code)
		require.NoError(t, err)
		assert.Equal(t, label, back)
	}
}

func TestLabelEncoder_UnknownLabel(t *testing.T) {
	enc := FitLabelEncoder([]string{"High", "Low"})

	_, err := enc.Transform("Severe")
	assert.Error(t, err)
}

func TestLabelEncoder_CodeOutOfRange(t *testing.T) {
	enc := FitLabelEncoder([]string{"High", "Low"})

	_, err := enc.Inverse(-1)
	assert.Error(t, err)
	_, err = enc.Inverse(2)
	assert.Error(t, err)
}
