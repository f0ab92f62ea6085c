package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typeops/fontbake/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		r.Register(fix{})

		op, ok := r.Get("fix")
		require.True(t, ok)
		assert.Equal(t, "fix", op.Kind())

		_, ok = r.Get("nope")
		assert.False(t, ok)
	})

	t.Run("duplicate kind panics", func(t *testing.T) {
		r := NewRegistry()
		r.Register(fix{})
		assert.Panics(t, func() { r.Register(fix{}) })
	})

	t.Run("kinds are sorted", func(t *testing.T) {
		r := NewRegistry()
		r.Register(rename{})
		r.Register(autohint{})
		r.Register(fix{})
		assert.Equal(t, []string{"autohint", "fix", "rename"}, r.Kinds())
	})
}

func TestBuiltin_CoversStandardKinds(t *testing.T) {
	r := Builtin()
	for _, kind := range []string{
		"buildVariable", "buildTTF", "buildOTF", "instantiateUfo",
		"glyphs2ds", "autohint", "autohintOTF", "fix", "rename",
		"remapLayout", "buildStat", "compress", CopyKind, "exec", "buildVTT",
	} {
		_, ok := r.Get(kind)
		assert.True(t, ok, "missing builtin kind %q", kind)
	}
}

func TestValidate_RequiredKeys(t *testing.T) {
	cases := []struct {
		op  Operation
		key string
	}{
		{rename{}, "name"},
		{remapLayout{}, "args"},
		{instantiateUFO{}, "instance_name"},
		{execCommand{}, "exe"},
		{buildVTT{}, "vttfile"},
	}
	for _, tc := range cases {
		t.Run(tc.op.Kind(), func(t *testing.T) {
			err := tc.op.Validate(nil)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.key, verr.Key)

			assert.NoError(t, tc.op.Validate(map[string]cty.Value{
				tc.key: cty.StringVal("x"),
			}))
		})
	}
}

func TestFontmakeVariables_SourceTypeFlag(t *testing.T) {
	cases := []struct {
		source string
		flag   string
	}{
		{"Foo.glyphs", "-g"},
		{"Foo.glyphspackage", "-g"},
		{"Foo.designspace", "-m"},
		{"Foo-Regular.ufo", "-u"},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			g := graph.New()
			op := graph.NewOperation("buildVariable", map[string]cty.Value{
				"args": cty.StringVal("--flatten"),
			}, false)
			op.AddSource(g.Ensure(tc.source, graph.SourceArtifact))

			vars := buildVariable{}.Variables(op)
			assert.Equal(t, tc.flag, vars["fontmake_type"])
			assert.Equal(t, "--flatten", vars["args"])
		})
	}
}

func TestInstantiateUFO_OutputName(t *testing.T) {
	name := instantiateUFO{}.OutputName(nil, map[string]cty.Value{
		"instance_name": cty.StringVal("Bold Condensed"),
	})
	assert.Equal(t, "instance_ufo/BoldCondensed.ufo", name)

	assert.Empty(t, instantiateUFO{}.OutputName(nil, nil))
}

func TestGlyphsToDesignspace_OutputName(t *testing.T) {
	g := graph.New()
	src := g.Ensure("sources/Foo.glyphs", graph.SourceArtifact)

	assert.Equal(t, "master_ufo/Foo.designspace", glyphsToDesignspace{}.OutputName(src, nil))
	assert.Empty(t, glyphsToDesignspace{}.OutputName(nil, nil))
}

func TestStampNames(t *testing.T) {
	g := graph.New()
	font := g.Ensure("fonts/Foo.ttf", graph.BinaryArtifact)

	assert.Equal(t, "fonts/Foo.ttf.fixstamp", fix{}.StampName(font, nil))
	assert.Equal(t, "fonts/Foo.ttf.statstamp", buildStat{}.StampName(font, nil))
	assert.Empty(t, fix{}.StampName(nil, nil))
}

func TestConfigVariables_SkipsNeeds(t *testing.T) {
	vars := ConfigVariables(map[string]cty.Value{
		"args":  cty.StringVal("--src stat.yaml"),
		"needs": cty.StringVal("fonts/Other.ttf"),
	})
	assert.Equal(t, map[string]string{"args": "--src stat.yaml"}, vars)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "hello", ValueString(cty.StringVal("hello")))
	assert.Equal(t, "true", ValueString(cty.True))
	assert.Equal(t, "false", ValueString(cty.False))
	assert.Equal(t, "42", ValueString(cty.NumberIntVal(42)))
	assert.Equal(t, "", ValueString(cty.NullVal(cty.String)))
}
