package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typeops/fontbake/internal/config"
	"github.com/zclconf/go-cty/cty"
)

func kinds(steps []config.Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if s.Type == config.SourceStep {
			out = append(out, "source")
			continue
		}
		out = append(out, s.Kind)
	}
	return out
}

func TestRecipe_FullFamily(t *testing.T) {
	project := &config.Project{
		Sources:    []string{"sources/Foo.glyphs"},
		FamilyName: "Foo Sans",
		Instances: map[string][]string{
			"sources/Foo.glyphs": {"Regular", "Bold"},
		},
	}

	recipe, err := NewGoogleFonts().Recipe(context.Background(), project)
	require.NoError(t, err)

	// One variable font, its webfont, and per instance a TTF, its webfont,
	// and an OTF.
	assert.Len(t, recipe, 8)

	t.Run("variable font", func(t *testing.T) {
		steps, ok := recipe["fonts/variable/FooSans[wght].ttf"]
		require.True(t, ok, "targets: %v", recipe.Targets())
		assert.Equal(t, []string{"source", "buildVariable", "fix", "buildStat"}, kinds(steps))
		assert.Equal(t, "sources/Foo.glyphs", steps[0].Source)

		stat := steps[len(steps)-1]
		assert.Equal(t, config.PostprocessStep, stat.Type)
		assert.Empty(t, stat.Needs, "a single variable font has no sibling dependencies")
	})

	t.Run("variable webfont shares the chain prefix", func(t *testing.T) {
		steps, ok := recipe["fonts/webfonts/FooSans[wght].woff2"]
		require.True(t, ok)
		assert.Equal(t, []string{"source", "buildVariable", "fix", "compress"}, kinds(steps))
	})

	t.Run("static ttf", func(t *testing.T) {
		steps, ok := recipe["fonts/ttf/FooSans-Regular.ttf"]
		require.True(t, ok)
		assert.Equal(t, []string{"source", "instantiateUfo", "buildTTF", "autohint", "fix"}, kinds(steps))
		assert.True(t, cty.StringVal("Regular").RawEquals(steps[1].Args["instance_name"]))
	})

	t.Run("static otf skips autohint by default", func(t *testing.T) {
		steps, ok := recipe["fonts/otf/FooSans-Bold.otf"]
		require.True(t, ok)
		assert.Equal(t, []string{"source", "instantiateUfo", "buildOTF", "fix"}, kinds(steps))
	})
}

func TestRecipe_StatNeedsSiblingVariableFonts(t *testing.T) {
	project := &config.Project{
		Sources:    []string{"sources/Foo.glyphs", "sources/Foo-Italic.glyphs"},
		StatConfig: "stat.yaml",
		// Webfonts and statics off to keep the target set small.
		BuildStatic:  boolPtr(false),
		BuildWebfont: boolPtr(false),
	}

	recipe, err := NewGoogleFonts().Recipe(context.Background(), project)
	require.NoError(t, err)
	require.Len(t, recipe, 2)

	// Without a family name each variable font is named after its source;
	// the stat pass lands on the lexically last one.
	last := recipe["fonts/variable/Foo[wght].ttf"]
	stat := last[len(last)-1]
	require.Equal(t, config.PostprocessStep, stat.Type)
	assert.Equal(t, "buildStat", stat.Kind)
	assert.Equal(t, []string{"fonts/variable/Foo-Italic[wght].ttf"}, stat.Needs)
	assert.True(t, cty.StringVal("--src stat.yaml").RawEquals(stat.Args["args"]))

	other := recipe["fonts/variable/Foo-Italic[wght].ttf"]
	assert.Equal(t, []string{"source", "buildVariable", "fix"}, kinds(other))
}

func TestRecipe_DirectoryAndFlagDefaults(t *testing.T) {
	project := &config.Project{
		Sources:   []string{"sources/Foo.designspace"},
		OutputDir: "dist",
		VFDir:     "$outputDir/var",
	}
	r := resolve(project)

	assert.Equal(t, "dist/var", r.VFDir)
	assert.Equal(t, "dist/ttf", r.TTDir)
	assert.Equal(t, "dist/otf", r.OTDir)
	assert.Equal(t, "dist/webfonts", r.WoffDir)
	assert.True(t, r.buildVariable)
	assert.True(t, r.autohintTTF)
	assert.False(t, r.autohintOTF)
	assert.True(t, r.buildWebfont, "webfonts follow the static switch")
	assert.Equal(t, []string{"wght"}, r.Axes)
}

func TestRecipe_UFOSourceYieldsNoVariableFont(t *testing.T) {
	project := &config.Project{
		Sources: []string{"sources/Foo-Regular.ufo"},
		Instances: map[string][]string{
			"sources/Foo-Regular.ufo": {"Regular"},
		},
		BuildWebfont: boolPtr(false),
		BuildOTF:     boolPtr(false),
	}

	recipe, err := NewGoogleFonts().Recipe(context.Background(), project)
	require.NoError(t, err)

	assert.Equal(t, []string{"fonts/ttf/Foo-Regular-Regular.ttf"}, recipe.Targets())
}

func TestRecipe_NoSources(t *testing.T) {
	_, err := NewGoogleFonts().Recipe(context.Background(), &config.Project{})
	assert.Error(t, err)
}

func TestExpand_PassthroughWithoutProject(t *testing.T) {
	recipe := config.Recipe{
		"out.ttf": {{Type: config.SourceStep, Source: "x.glyphs"}},
	}

	expanded, err := Expand(context.Background(), &config.Model{Recipe: recipe})
	require.NoError(t, err)
	assert.Equal(t, recipe, expanded)
}

func TestMerge(t *testing.T) {
	generated := config.Recipe{
		"a.ttf": {
			{Type: config.SourceStep, Source: "x.glyphs"},
			{Type: config.OperationStep, Kind: "buildVariable"},
		},
		"b.ttf": {
			{Type: config.SourceStep, Source: "x.glyphs"},
			{Type: config.OperationStep, Kind: "buildVariable"},
		},
	}

	overrides := config.Recipe{
		// Full chain: replaces the generated one.
		"a.ttf": {
			{Type: config.SourceStep, Source: "y.glyphs"},
			{Type: config.OperationStep, Kind: "buildTTF"},
		},
		// Postprocess-only chain: extends the generated one.
		"b.ttf": {
			{Type: config.PostprocessStep, Kind: "buildStat"},
		},
		// New target: added as-is.
		"c.ttf": {
			{Type: config.SourceStep, Source: "z.glyphs"},
			{Type: config.OperationStep, Kind: "buildTTF"},
		},
	}

	merged := Merge(generated, overrides)
	require.Len(t, merged, 3)

	assert.Equal(t, "y.glyphs", merged["a.ttf"][0].Source)
	assert.Len(t, merged["a.ttf"], 2)

	require.Len(t, merged["b.ttf"], 3)
	assert.Equal(t, "buildStat", merged["b.ttf"][2].Kind)

	assert.Len(t, merged["c.ttf"], 2)

	// The generated recipe itself is untouched.
	assert.Len(t, generated["b.ttf"], 2)
}

func boolPtr(v bool) *bool { return &v }
