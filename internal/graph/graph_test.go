package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestEnsure_DedupByPath(t *testing.T) {
	g := New()

	a := g.Ensure("src/Foo.glyphs", SourceArtifact)
	b := g.Ensure("src/Foo.glyphs", IntermediateArtifact)

	assert.Same(t, a, b, "Ensure must return one instance per path")
	assert.Equal(t, SourceArtifact, b.Kind, "an existing artifact keeps its original kind")
}

func TestEnsureTerminal_MarksOfficialOutput(t *testing.T) {
	g := New()

	a := g.Ensure("fonts/Foo.ttf", IntermediateArtifact)
	b := g.EnsureTerminal("fonts/Foo.ttf")

	assert.Same(t, a, b)
	assert.True(t, b.Terminal)
}

func TestBind(t *testing.T) {
	g := New()

	t.Run("binds a placeholder", func(t *testing.T) {
		a := g.NewUnbound(IntermediateArtifact)
		require.NoError(t, g.Bind(a, "tmp/one"))
		assert.True(t, a.Bound())

		got, ok := g.Lookup("tmp/one")
		require.True(t, ok)
		assert.Same(t, a, got)
	})

	t.Run("rejects rebinding", func(t *testing.T) {
		a := g.NewUnbound(IntermediateArtifact)
		require.NoError(t, g.Bind(a, "tmp/two"))
		assert.Error(t, g.Bind(a, "tmp/three"))
	})

	t.Run("rejects a taken path", func(t *testing.T) {
		g.Ensure("tmp/taken", SourceArtifact)
		a := g.NewUnbound(IntermediateArtifact)
		assert.Error(t, g.Bind(a, "tmp/taken"))
	})
}

func TestAddOperation_RejectsSecondProducer(t *testing.T) {
	g := New()
	src := g.Ensure("x.src", SourceArtifact)
	out := g.Ensure("out.bin", BinaryArtifact)

	first := NewOperation("convert", nil, false)
	first.AddSource(src)
	first.AddTarget(out)
	require.NoError(t, g.AddOperation(first))

	second := NewOperation("compress", nil, false)
	second.AddSource(src)
	second.AddTarget(out)
	err := g.AddOperation(second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already has a producer")

	producer, count := g.Producer(out)
	assert.Same(t, first, producer)
	assert.Equal(t, 1, count)
}

func TestAddOperation_RejectsSelfWrite(t *testing.T) {
	g := New()
	a := g.Ensure("x.src", SourceArtifact)

	op := NewOperation("convert", nil, false)
	op.AddSource(a)
	op.AddTarget(a)

	err := g.AddOperation(op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writes its own input")
}

func TestRetarget(t *testing.T) {
	t.Run("redirects the single producer", func(t *testing.T) {
		g := New()
		src := g.Ensure("x.src", SourceArtifact)
		tmp := g.Ensure("__tmp_0", IntermediateArtifact)
		g.MarkTemporary(tmp)

		op := NewOperation("convert", nil, false)
		op.AddSource(src)
		op.AddTarget(tmp)
		require.NoError(t, g.AddOperation(op))

		repl := g.Ensure("real/Foo.ttf", IntermediateArtifact)
		require.NoError(t, g.Retarget(tmp, repl))

		producer, count := g.Producer(repl)
		assert.Same(t, op, producer)
		assert.Equal(t, 1, count)
		assert.Same(t, repl, op.FirstTarget())

		_, ok := g.Lookup("__tmp_0")
		assert.False(t, ok, "the abandoned path must leave the registry")
		assert.Empty(t, g.Temporaries(), "an unbound temp is not cleaned up")
	})

	t.Run("rejects an artifact with no producer", func(t *testing.T) {
		g := New()
		orphan := g.Ensure("orphan", IntermediateArtifact)
		repl := g.Ensure("repl", IntermediateArtifact)
		assert.Error(t, g.Retarget(orphan, repl))
	})

	t.Run("rejects a replacement that is already produced", func(t *testing.T) {
		g := New()
		src := g.Ensure("x.src", SourceArtifact)

		tmp := g.Ensure("__tmp_0", IntermediateArtifact)
		op := NewOperation("convert", nil, false)
		op.AddSource(src)
		op.AddTarget(tmp)
		require.NoError(t, g.AddOperation(op))

		taken := g.Ensure("taken.ttf", BinaryArtifact)
		other := NewOperation("convert", nil, false)
		other.AddSource(src)
		other.AddTarget(taken)
		require.NoError(t, g.AddOperation(other))

		err := g.Retarget(tmp, taken)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "second")
	})

	t.Run("propagates the terminal flag", func(t *testing.T) {
		g := New()
		src := g.Ensure("x.src", SourceArtifact)
		old := g.EnsureTerminal("old.ttf")
		op := NewOperation("convert", nil, false)
		op.AddSource(src)
		op.AddTarget(old)
		require.NoError(t, g.AddOperation(op))

		repl := g.Ensure("new.ttf", IntermediateArtifact)
		require.NoError(t, g.Retarget(old, repl))
		assert.True(t, repl.Terminal)
	})
}

func TestDefaultTargets_LeafTerminalsOnly(t *testing.T) {
	g := New()
	src := g.Ensure("x.src", SourceArtifact)
	mid := g.EnsureTerminal("fonts/Foo.ttf")
	leaf := g.EnsureTerminal("webfonts/Foo.woff2")

	convert := NewOperation("convert", nil, false)
	convert.AddSource(src)
	convert.AddTarget(mid)
	require.NoError(t, g.AddOperation(convert))

	compress := NewOperation("compress", nil, false)
	compress.AddSource(mid)
	compress.AddTarget(leaf)
	require.NoError(t, g.AddOperation(compress))

	// mid is terminal but consumed inside the graph, so only the leaf is a
	// default target.
	assert.Equal(t, []string{"webfonts/Foo.woff2"}, g.DefaultTargets())
}

func TestDefaultTargets_PostprocessedTargetYieldsFinalStamp(t *testing.T) {
	g := New()
	src := g.Ensure("x.src", SourceArtifact)
	font := g.EnsureTerminal("fonts/Foo.ttf")

	convert := NewOperation("convert", nil, false)
	convert.AddSource(src)
	convert.AddTarget(font)
	require.NoError(t, g.AddOperation(convert))

	stampA := g.Ensure("a.stamp", IntermediateArtifact)
	first := NewOperation("stamp", nil, true)
	first.AddSource(font)
	first.AddTarget(stampA)
	require.NoError(t, g.AddOperation(first))

	stampB := g.Ensure("b.stamp", IntermediateArtifact)
	second := NewOperation("stamp", nil, true)
	second.AddSource(font)
	second.Implicit = append(second.Implicit, stampA)
	second.AddTarget(stampB)
	require.NoError(t, g.AddOperation(second))

	// Building the last stamp pulls in the font and the first stamp, so
	// the chain's side effects all run.
	assert.Equal(t, []string{"b.stamp"}, g.DefaultTargets())
}

func TestConfigEqual(t *testing.T) {
	op := NewOperation("convert", map[string]cty.Value{
		"fmt":  cty.StringVal("ttf"),
		"args": cty.StringVal("--flatten"),
	}, false)

	t.Run("order-irrelevant equality", func(t *testing.T) {
		assert.True(t, op.ConfigEqual(map[string]cty.Value{
			"args": cty.StringVal("--flatten"),
			"fmt":  cty.StringVal("ttf"),
		}))
	})

	t.Run("differing value", func(t *testing.T) {
		assert.False(t, op.ConfigEqual(map[string]cty.Value{
			"fmt":  cty.StringVal("otf"),
			"args": cty.StringVal("--flatten"),
		}))
	})

	t.Run("missing key", func(t *testing.T) {
		assert.False(t, op.ConfigEqual(map[string]cty.Value{
			"fmt": cty.StringVal("ttf"),
		}))
	})

	t.Run("nil equals empty", func(t *testing.T) {
		bare := NewOperation("convert", nil, false)
		assert.True(t, bare.ConfigEqual(map[string]cty.Value{}))
	})
}

func TestMergeable(t *testing.T) {
	cfg := map[string]cty.Value{"fmt": cty.StringVal("ttf")}

	assert.True(t, NewOperation("convert", cfg, false).Mergeable("convert", cfg))
	assert.False(t, NewOperation("convert", cfg, false).Mergeable("compress", cfg))
	assert.False(t, NewOperation("convert", cfg, true).Mergeable("convert", cfg),
		"postprocess operations are never shared")
}
