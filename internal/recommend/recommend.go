package recommend

import "stress-tracker/internal/domain"

// Track is a suggested song.
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Link   string `json:"link"`
}

// Bundle is the fixed content shown for a stress level.
type Bundle struct {
	Music      []Track  `json:"music"`
	Quotes     []string `json:"quotes"`
	Activities []string `json:"activities"`
}

// ForLevel maps a stress level to its content bundle. An empty level (no
// history yet) yields nil; any level other than High or Medium gets the
// low-stress bundle.
func ForLevel(level domain.StressLevel) *Bundle {
	switch level {
	case "":
		return nil
	case domain.StressLevelHigh:
		return &Bundle{
			Music:      []Track{{Title: "Weightless", Artist: "Marconi Union", Link: "#"}},
			Quotes:     []string{"You are stronger than you think."},
			Activities: []string{"Practice deep breathing"},
		}
	case domain.StressLevelMedium:
		return &Bundle{
			Music:      []Track{{Title: "Lofi Chill", Artist: "Various Artists", Link: "#"}},
			Quotes:     []string{"Keep going, you're halfway there!"},
			Activities: []string{"Take a short walk"},
		}
	default:
		return &Bundle{
			Music:      []Track{{Title: "Here Comes the Sun", Artist: "The Beatles", Link: "#"}},
			Quotes:     []string{"Keep up the good work!"},
			Activities: []string{"Continue your routine"},
		}
	}
}
