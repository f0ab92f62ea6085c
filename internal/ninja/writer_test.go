package ninja

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Rule(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).Rule("convert", "fontmake -o $out $in$stamp")

	assert.Equal(t, "rule convert\n  command = fontmake -o $out $in$stamp\n", buf.String())
}

func TestWriter_Build(t *testing.T) {
	t.Run("full statement", func(t *testing.T) {
		var buf bytes.Buffer
		NewWriter(&buf).Build(
			[]string{"out/a.ttf"},
			"convert",
			[]string{"x.src"},
			[]string{"a.stamp"},
			[][2]string{{"args", "--flatten"}, {"fmt", "ttf"}},
		)

		want := "build out/a.ttf: convert x.src | a.stamp\n" +
			"  args = --flatten\n" +
			"  fmt = ttf\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("no inputs or variables", func(t *testing.T) {
		var buf bytes.Buffer
		NewWriter(&buf).Build([]string{"out"}, "touch", nil, nil, nil)

		assert.Equal(t, "build out: touch\n", buf.String())
	})
}

func TestWriter_Default(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).Default([]string{"a.ttf", "b.ttf"})

	assert.Equal(t, "default a.ttf b.ttf\n", buf.String())
}

func TestWriter_EscapesSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).Build([]string{"out dir/a.ttf"}, "convert", []string{"c:src.glyphs"}, nil, nil)

	assert.Equal(t, "build out$ dir/a.ttf: convert c$:src.glyphs\n", buf.String())
}
