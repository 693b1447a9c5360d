package content

// Difficulty grades a caravan route.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Label is the Turkish display name.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Kolay"
	case Hard:
		return "Zor"
	default:
		return "Orta"
	}
}

// ParseDifficulty maps unknown or empty values to Medium.
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d
	default:
		return Medium
	}
}
