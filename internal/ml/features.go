package ml

// FeatureColumns is the fixed predictor order the classifier is trained on.
// Artifacts record it so a loaded model can refuse inputs built in a
// different order.
var FeatureColumns = []string{"age", "study_hours", "sleep_hours", "physical_activity", "social_support"}

// Features is the named five-field input to the classifier. Vector maps
// fields to positions by column name, never by positional coincidence.
type Features struct {
	Age              int
	StudyHours       int
	SleepHours       int
	PhysicalActivity int
	SocialSupport    int
}

func (f Features) Vector() []float64 {
	byName := map[string]float64{
		"age":               float64(f.Age),
		"study_hours":       float64(f.StudyHours),
		"sleep_hours":       float64(f.SleepHours),
		"physical_activity": float64(f.PhysicalActivity),
		"social_support":    float64(f.SocialSupport),
	}

	vec := make([]float64, len(FeatureColumns))
	for i, col := range FeatureColumns {
		vec[i] = byName[col]
	}
	return vec
}
