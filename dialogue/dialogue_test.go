package dialogue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingGenerator struct{}

func (f *failingGenerator) Generate(ctx context.Context, situation, hint string) (string, error) {
	return "", errors.New("model unreachable")
}

type cannedGenerator struct {
	text string
}

func (c *cannedGenerator) Generate(ctx context.Context, situation, hint string) (string, error) {
	return c.text, nil
}

func TestLine_UsesGeneratorText(t *testing.T) {
	g := &cannedGenerator{text: "Right away, madam."}
	assert.Equal(t, "Right away, madam.", Line(context.Background(), g, SituationSeating, ""))
}

func TestLine_FallsBackOnError(t *testing.T) {
	line := Line(context.Background(), &failingGenerator{}, SituationGreeting, "Alex")
	assert.NotEmpty(t, line)
	assert.Contains(t, staticLines[SituationGreeting], line)
}

func TestLine_FallsBackOnEmptyText(t *testing.T) {
	line := Line(context.Background(), &cannedGenerator{text: ""}, SituationFarewell, "")
	assert.Contains(t, staticLines[SituationFarewell], line)
}

func TestLine_NilGenerator(t *testing.T) {
	line := Line(context.Background(), nil, SituationApology, "")
	assert.Contains(t, staticLines[SituationApology], line)
}

func TestLine_UnknownSituation(t *testing.T) {
	assert.NotEmpty(t, Line(context.Background(), nil, "weather_smalltalk", ""))
}

func TestStaticGenerator_CoversEverySituation(t *testing.T) {
	g := NewStaticGenerator()
	for situation := range staticLines {
		text, err := g.Generate(context.Background(), situation, "")
		assert.NoError(t, err)
		assert.NotEmpty(t, text, "situation %q must always have a line", situation)
	}
}
