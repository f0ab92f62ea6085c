package ops

import (
	"path/filepath"
	"strings"

	"github.com/typeops/fontbake/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// fontmakeBase adds the source-type flag fontmake needs to every
// fontmake-driven kind.
type fontmakeBase struct {
	base
}

func (f fontmakeBase) Variables(op *graph.Operation) map[string]string {
	vars := ConfigVariables(op.Config)
	if src := op.FirstSource(); src != nil {
		switch src.Extension() {
		case "glyphs", "glyphspackage":
			vars["fontmake_type"] = "-g"
		case "designspace":
			vars["fontmake_type"] = "-m"
		case "ufo":
			vars["fontmake_type"] = "-u"
		}
	}
	return vars
}

// buildVariable compiles a variable font from a Glyphs or Designspace
// source.
type buildVariable struct{ fontmakeBase }

func (buildVariable) Kind() string        { return "buildVariable" }
func (buildVariable) Description() string { return "Build a variable font" }
func (buildVariable) Rule() string {
	return "fontmake --output-path $out -o variable $fontmake_type $in $args"
}

type buildTTF struct{ fontmakeBase }

func (buildTTF) Kind() string        { return "buildTTF" }
func (buildTTF) Description() string { return "Build a TTF from a source or instance UFO" }
func (buildTTF) Rule() string {
	return "fontmake --output-path $out -o ttf $fontmake_type $in $args"
}

type buildOTF struct{ fontmakeBase }

func (buildOTF) Kind() string        { return "buildOTF" }
func (buildOTF) Description() string { return "Build an OTF from a source or instance UFO" }
func (buildOTF) Rule() string {
	return "fontmake --output-path $out -o otf $fontmake_type $in $args"
}

// instantiateUFO interpolates one named instance out of a variable
// design. It names its own output from the instance name.
type instantiateUFO struct{ fontmakeBase }

func (instantiateUFO) Kind() string        { return "instantiateUfo" }
func (instantiateUFO) Description() string { return "Create an instance UFO from a source" }
func (instantiateUFO) Rule() string {
	return "fontmake -i \"$instance_name\" -o ufo $fontmake_type $in --output-path $out $args"
}

func (i instantiateUFO) Validate(cfg map[string]cty.Value) error {
	if _, ok := cfg["instance_name"]; !ok {
		return &ValidationError{OpKind: i.Kind(), Key: "instance_name"}
	}
	return nil
}

func (instantiateUFO) OutputName(source *graph.Artifact, cfg map[string]cty.Value) string {
	name, ok := cfg["instance_name"]
	if !ok || name.Type() != cty.String {
		return ""
	}
	file := strings.ReplaceAll(name.AsString(), " ", "") + ".ufo"
	return filepath.Join("instance_ufo", file)
}

// glyphsToDesignspace converts a Glyphs source into a designspace plus
// master UFOs. The designspace path is dictated by the source name.
type glyphsToDesignspace struct{ fontmakeBase }

func (glyphsToDesignspace) Kind() string        { return "glyphs2ds" }
func (glyphsToDesignspace) Description() string { return "Convert a Glyphs source to Designspace/UFO" }
func (glyphsToDesignspace) Rule() string {
	return "fontmake -o ufo --instance-dir instance_ufo -g $in"
}

func (glyphsToDesignspace) OutputName(source *graph.Artifact, _ map[string]cty.Value) string {
	if source == nil || !source.Bound() {
		return ""
	}
	stem := strings.TrimSuffix(source.Basename(), filepath.Ext(source.Basename()))
	return filepath.Join("master_ufo", stem+".designspace")
}
