package ops

import (
	"github.com/typeops/fontbake/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// fix runs the font fixer, writing the repaired font to a new path.
type fix struct{ base }

func (fix) Kind() string        { return "fix" }
func (fix) Description() string { return "Run the font fixer" }
func (fix) Rule() string        { return "gftools-fix-font -o $out $args $in" }

func (fix) StampName(source *graph.Artifact, _ map[string]cty.Value) string {
	if source == nil || !source.Bound() {
		return ""
	}
	return source.Path + ".fixstamp"
}

// rename rewrites the family name in a font's name table.
type rename struct{ base }

func (rename) Kind() string        { return "rename" }
func (rename) Description() string { return "Change the family name of a font" }
func (rename) Rule() string        { return "gftools-rename-font -o $out --name \"$name\" $args $in" }
func (r rename) Validate(cfg map[string]cty.Value) error {
	if _, ok := cfg["name"]; !ok {
		return &ValidationError{OpKind: r.Kind(), Key: "name"}
	}
	return nil
}

// remapLayout rewires OpenType layout features, e.g. smcp -> ccmp for
// small-caps families.
type remapLayout struct{ base }

func (remapLayout) Kind() string        { return "remapLayout" }
func (remapLayout) Description() string { return "Remap OpenType layout features" }
func (remapLayout) Rule() string        { return "gftools-remap-layout -o $out $args $in" }
func (r remapLayout) Validate(cfg map[string]cty.Value) error {
	if _, ok := cfg["args"]; !ok {
		return &ValidationError{OpKind: r.Kind(), Key: "args"}
	}
	return nil
}

// buildVTT merges and compiles VTT hints from an external hints file.
type buildVTT struct{ base }

func (buildVTT) Kind() string        { return "buildVTT" }
func (buildVTT) Description() string { return "Compile VTT hints into a font" }
func (buildVTT) Rule() string        { return "gftools-build-vtt --outfile $out --vtt-file $vttfile $in" }
func (b buildVTT) Validate(cfg map[string]cty.Value) error {
	if _, ok := cfg["vttfile"]; !ok {
		return &ValidationError{OpKind: b.Kind(), Key: "vttfile"}
	}
	return nil
}
