package ops

import (
	"github.com/typeops/fontbake/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// autohint runs ttfautohint over a TTF.
type autohint struct{ base }

func (autohint) Kind() string        { return "autohint" }
func (autohint) Description() string { return "Run ttfautohint on a TTF" }
func (autohint) Rule() string        { return "gftools-autohint -o $out $args $in" }

// autohintOTF runs the CFF autohinter.
type autohintOTF struct{ base }

func (autohintOTF) Kind() string        { return "autohintOTF" }
func (autohintOTF) Description() string { return "Run otfautohint on an OTF" }
func (autohintOTF) Rule() string        { return "otfautohint -o $out $in" }

// buildStat adds a STAT table to a set of variable fonts in place. Used
// as a postprocess step; it names its own stamp after its first input, in
// the original builder's convention.
type buildStat struct{ base }

func (buildStat) Kind() string        { return "buildStat" }
func (buildStat) Description() string { return "Add a STAT table to a set of variable fonts" }
func (buildStat) Rule() string        { return "gftools-gen-stat --inplace $args -- $in" }

func (buildStat) StampName(source *graph.Artifact, _ map[string]cty.Value) string {
	if source == nil || !source.Bound() {
		return ""
	}
	return source.Path + ".statstamp"
}

// compress produces a WOFF2 webfont.
type compress struct{ base }

func (compress) Kind() string        { return "compress" }
func (compress) Description() string { return "Create a WOFF2 webfont" }
func (compress) Rule() string        { return "fonttools ttLib.woff2 compress -o $out $in" }

// copyFile duplicates a shared result under a target's official name.
// The compiler inserts this kind for the dedup rename mechanism.
type copyFile struct{ base }

func (copyFile) Kind() string        { return "copy" }
func (copyFile) Description() string { return "Copy a file" }
func (copyFile) Rule() string        { return "cp $in $out" }

// execCommand runs an arbitrary user command.
type execCommand struct{ base }

func (execCommand) Kind() string        { return "exec" }
func (execCommand) Description() string { return "Run an arbitrary command" }
func (execCommand) Rule() string        { return "$exe $args" }
func (e execCommand) Validate(cfg map[string]cty.Value) error {
	if _, ok := cfg["exe"]; !ok {
		return &ValidationError{OpKind: e.Kind(), Key: "exe"}
	}
	return nil
}

// CopyKind is the kind the compiler uses for dedup rename edges.
const CopyKind = "copy"
