package menu

// DefaultDishScore is granted when a dish is not in the score table, so a
// custom or misspelled dish never zeroes a chef's round.
const DefaultDishScore = 50

var dishScores = map[string]int{
	"Burger":           60,
	"Margherita Pizza": 80,
	"Carbonara":        75,
	"Caesar Salad":     40,
	"Ribeye Steak":     100,
	"Onion Soup":       45,
	"Cola":             10,
	"Coffee":           15,
	"House Lemonade":   15,
}

// BaseScore looks up the fixed per-dish score.
func BaseScore(dish string) int {
	if score, ok := dishScores[dish]; ok {
		return score
	}
	return DefaultDishScore
}
