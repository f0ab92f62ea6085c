package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/yamlrecipe"
	"github.com/zclconf/go-cty/cty"
)

func TestWriteRecipe_RoundTrip(t *testing.T) {
	recipe := config.Recipe{
		"fonts/Foo[wght].ttf": {
			{Type: config.SourceStep, Source: "sources/Foo.glyphs"},
			{Type: config.OperationStep, Kind: "buildVariable",
				Args: map[string]cty.Value{"args": cty.StringVal("--flatten-components")}},
			{Type: config.PostprocessStep, Kind: "buildStat",
				Needs: []string{"fonts/Bar[wght].ttf"}},
		},
		"fonts/Bar[wght].ttf": {
			{Type: config.SourceStep, Source: "sources/Bar.glyphs"},
			{Type: config.OperationStep, Kind: "buildVariable"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeRecipe(&buf, recipe))

	// The generated text loads back into the identical recipe.
	model, err := yamlrecipe.NewLoader().LoadSource(context.Background(), "generated.yaml", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, recipe, model.Recipe)
}

func TestWriteRecipe_SortedTargets(t *testing.T) {
	recipe := config.Recipe{
		"z.ttf": {{Type: config.SourceStep, Source: "z.glyphs"}},
		"a.ttf": {{Type: config.SourceStep, Source: "a.glyphs"}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeRecipe(&buf, recipe))

	text := buf.String()
	assert.Less(t, strings.Index(text, "a.ttf"), strings.Index(text, "z.ttf"))
}

func TestNewConfig(t *testing.T) {
	t.Run("requires a recipe path", func(t *testing.T) {
		_, err := NewConfig(Config{})
		assert.Error(t, err)
	})

	t.Run("defaults the output path", func(t *testing.T) {
		cfg, err := NewConfig(Config{RecipePath: "recipe.hcl"})
		require.NoError(t, err)
		assert.Equal(t, "build.ninja", cfg.Output)
	})
}
