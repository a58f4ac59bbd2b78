// dialogue generates waiter flavor lines. It is strictly best-effort: the
// session core only ever calls Line, which cannot fail, so a missing API
// key or a dead endpoint never blocks a gameplay transition.
package dialogue

import (
	"context"
	"math/rand"
)

// Situations the waiter speaks in.
const (
	SituationGreeting = "greeting"
	SituationSeating  = "seating"
	SituationMenu     = "menu"
	SituationOrderAck = "order_ack"
	SituationServing  = "serving"
	SituationFarewell = "farewell"
	SituationApology  = "apology"
)

// Generator produces one waiter line for a situation. hint carries
// context like the guest's name or the dish.
type Generator interface {
	Generate(ctx context.Context, situation, hint string) (string, error)
}

// Line never fails: any generator error falls back to the static table.
func Line(ctx context.Context, g Generator, situation, hint string) string {
	if g != nil {
		if text, err := g.Generate(ctx, situation, hint); err == nil && text != "" {
			return text
		}
	}
	return staticLine(situation)
}

var staticLines = map[string][]string{
	SituationGreeting: {
		"Welcome in! A table will be ready for you shortly.",
		"Good evening! How many in your party tonight?",
	},
	SituationSeating: {
		"Right this way, your table is ready.",
		"Please, follow me — best seat in the house.",
	},
	SituationMenu: {
		"Here is tonight's menu. The chef recommends the carbonara.",
		"Our menu — take your time, I'll be right back.",
	},
	SituationOrderAck: {
		"Excellent choice. The kitchen has your order.",
		"Noted! The chef is already on it.",
	},
	SituationServing: {
		"Careful, the plate is hot. Bon appétit!",
		"Your order, fresh from the kitchen.",
	},
	SituationFarewell: {
		"Thank you for dining with us. Come back soon!",
		"It was a pleasure serving you tonight.",
	},
	SituationApology: {
		"Our apologies for the wait — this one is on the house.",
		"The kitchen is running behind; your dish is complimentary.",
	},
}

func staticLine(situation string) string {
	lines, ok := staticLines[situation]
	if !ok || len(lines) == 0 {
		return "..."
	}
	return lines[rand.Intn(len(lines))]
}

// StaticGenerator serves the fixed table directly. It is the deployment
// default when no model credential is configured.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (s *StaticGenerator) Generate(ctx context.Context, situation, hint string) (string, error) {
	return staticLine(situation), nil
}
