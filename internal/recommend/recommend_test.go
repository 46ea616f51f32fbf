package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stress-tracker/internal/domain"
)

func TestForLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    domain.StressLevel
		quote    string
		track    string
		activity string
	}{
		{"high", domain.StressLevelHigh, "You are stronger than you think.", "Weightless", "Practice deep breathing"},
		{"medium", domain.StressLevelMedium, "Keep going, you're halfway there!", "Lofi Chill", "Take a short walk"},
		{"low", domain.StressLevelLow, "Keep up the good work!", "Here Comes the Sun", "Continue your routine"},
		{"unrecognized falls back to low bundle", domain.StressLevel("Mild"), "Keep up the good work!", "Here Comes the Sun", "Continue your routine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := ForLevel(tt.level)
			require.NotNil(t, bundle)
			require.Len(t, bundle.Music, 1)
			assert.Equal(t, tt.track, bundle.Music[0].Title)
			assert.Equal(t, []string{tt.quote}, bundle.Quotes)
			assert.Equal(t, []string{tt.activity}, bundle.Activities)
		})
	}
}

func TestForLevel_NoHistory(t *testing.T) {
	assert.Nil(t, ForLevel(""))
}
