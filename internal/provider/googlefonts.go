package provider

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// GoogleFonts generates the standard family recipe: one variable font per
// variable-capable source, statics for every declared instance, webfont
// copies of each TTF, and a STAT pass across the variable fonts.
type GoogleFonts struct{}

// NewGoogleFonts creates the googlefonts recipe provider.
func NewGoogleFonts() *GoogleFonts {
	return &GoogleFonts{}
}

// Expand resolves a loaded model into a final recipe. Without a project
// block the explicit recipe passes through untouched.
func Expand(ctx context.Context, model *config.Model) (config.Recipe, error) {
	if model.Project == nil {
		return model.Recipe, nil
	}
	generated, err := NewGoogleFonts().Recipe(ctx, model.Project)
	if err != nil {
		return nil, err
	}
	return Merge(generated, model.Recipe), nil
}

// resolvedProject is a project with every default filled in.
type resolvedProject struct {
	config.Project

	buildVariable bool
	buildStatic   bool
	buildTTF      bool
	buildOTF      bool
	buildWebfont  bool
	autohintTTF   bool
	autohintOTF   bool
}

// resolve applies the provider defaults: output directories derived from
// outputDir, every build class on unless switched off, webfonts following
// the static switch, TTF autohinting on and OTF autohinting off.
func resolve(p *config.Project) resolvedProject {
	r := resolvedProject{Project: *p}
	if r.OutputDir == "" {
		r.OutputDir = "fonts"
	}
	dir := func(configured, fallback string) string {
		if configured == "" {
			configured = fallback
		}
		return strings.ReplaceAll(configured, "$outputDir", r.OutputDir)
	}
	r.VFDir = dir(r.VFDir, "$outputDir/variable")
	r.TTDir = dir(r.TTDir, "$outputDir/ttf")
	r.OTDir = dir(r.OTDir, "$outputDir/otf")
	r.WoffDir = dir(r.WoffDir, "$outputDir/webfonts")

	r.buildVariable = boolOr(p.BuildVariable, true)
	r.buildStatic = boolOr(p.BuildStatic, true)
	r.buildTTF = boolOr(p.BuildTTF, true)
	r.buildOTF = boolOr(p.BuildOTF, true)
	r.buildWebfont = boolOr(p.BuildWebfont, r.buildStatic)
	r.autohintTTF = boolOr(p.AutohintTTF, true)
	r.autohintOTF = boolOr(p.AutohintOTF, false)
	if len(r.Axes) == 0 {
		r.Axes = []string{"wght"}
	}
	return r
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// Recipe synthesizes the full target set for a project.
func (g *GoogleFonts) Recipe(ctx context.Context, project *config.Project) (config.Recipe, error) {
	logger := ctxlog.FromContext(ctx)
	if len(project.Sources) == 0 {
		return nil, fmt.Errorf("project declares no sources")
	}
	r := resolve(project)
	recipe := config.Recipe{}

	var variableTargets []string
	for _, source := range r.Sources {
		if r.buildVariable && variableCapable(source) {
			target := g.variableTarget(&r, source)
			recipe[target] = g.variableChain(&r, source)
			variableTargets = append(variableTargets, target)
			if r.buildWebfont {
				woff := g.webfontTarget(&r, target)
				recipe[woff] = append(g.variableChain(&r, source), compressStep())
			}
		}
		if !r.buildStatic {
			continue
		}
		for _, instance := range r.Instances[source] {
			if r.buildTTF {
				target := g.staticTarget(&r, r.TTDir, source, instance, "ttf")
				recipe[target] = g.staticChain(&r, source, instance, "ttf")
				if r.buildWebfont {
					woff := g.webfontTarget(&r, target)
					recipe[woff] = append(g.staticChain(&r, source, instance, "ttf"), compressStep())
				}
			}
			if r.buildOTF {
				target := g.staticTarget(&r, r.OTDir, source, instance, "otf")
				recipe[target] = g.staticChain(&r, source, instance, "otf")
			}
		}
	}

	// The STAT pass runs once, attached to the last variable target with
	// the rest declared as extra dependencies so every variable font exists
	// before the tables are rewritten.
	if len(variableTargets) > 0 {
		sort.Strings(variableTargets)
		last := variableTargets[len(variableTargets)-1]
		recipe[last] = append(recipe[last], g.statStep(&r, variableTargets[:len(variableTargets)-1]))
	}

	logger.Debug("Recipe synthesized.",
		"sources", len(r.Sources),
		"targets", len(recipe),
		"variable_targets", len(variableTargets))
	return recipe, nil
}

// variableCapable reports whether a source format can hold a variable
// design. UFOs are single masters and only yield statics.
func variableCapable(source string) bool {
	switch strings.TrimPrefix(filepath.Ext(source), ".") {
	case "glyphs", "glyphspackage", "designspace":
		return true
	}
	return false
}

func (g *GoogleFonts) variableTarget(r *resolvedProject, source string) string {
	axes := append([]string(nil), r.Axes...)
	sort.Strings(axes)
	name := fmt.Sprintf("%s[%s].ttf", g.familyStem(r, source), strings.Join(axes, ","))
	return filepath.Join(r.VFDir, name)
}

func (g *GoogleFonts) staticTarget(r *resolvedProject, dir, source, instance, ext string) string {
	name := fmt.Sprintf("%s-%s.%s", g.familyStem(r, source), strings.ReplaceAll(instance, " ", ""), ext)
	return filepath.Join(dir, name)
}

func (g *GoogleFonts) webfontTarget(r *resolvedProject, fontTarget string) string {
	base := strings.TrimSuffix(filepath.Base(fontTarget), ".ttf") + ".woff2"
	return filepath.Join(r.WoffDir, base)
}

// familyStem names output files after the family when one is declared,
// falling back to the source file's stem.
func (g *GoogleFonts) familyStem(r *resolvedProject, source string) string {
	if r.FamilyName != "" {
		return strings.ReplaceAll(r.FamilyName, " ", "")
	}
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (g *GoogleFonts) variableChain(r *resolvedProject, source string) []config.Step {
	steps := []config.Step{
		{Type: config.SourceStep, Source: source},
		{Type: config.OperationStep, Kind: "buildVariable", Args: g.fontmakeArgs(r)},
	}
	return append(steps, g.fixStep(r))
}

func (g *GoogleFonts) staticChain(r *resolvedProject, source, instance, format string) []config.Step {
	steps := []config.Step{
		{Type: config.SourceStep, Source: source},
		{Type: config.OperationStep, Kind: "instantiateUfo", Args: map[string]cty.Value{
			"instance_name": cty.StringVal(instance),
		}},
	}
	switch format {
	case "otf":
		steps = append(steps, config.Step{Type: config.OperationStep, Kind: "buildOTF", Args: g.fontmakeArgs(r)})
		if r.autohintOTF {
			steps = append(steps, config.Step{Type: config.OperationStep, Kind: "autohintOTF"})
		}
	default:
		steps = append(steps, config.Step{Type: config.OperationStep, Kind: "buildTTF", Args: g.fontmakeArgs(r)})
		if r.autohintTTF {
			steps = append(steps, config.Step{Type: config.OperationStep, Kind: "autohint"})
		}
	}
	return append(steps, g.fixStep(r))
}

func (g *GoogleFonts) fontmakeArgs(r *resolvedProject) map[string]cty.Value {
	if r.ExtraFontmakeArgs == "" {
		return nil
	}
	return map[string]cty.Value{"args": cty.StringVal(r.ExtraFontmakeArgs)}
}

func (g *GoogleFonts) fixStep(r *resolvedProject) config.Step {
	step := config.Step{Type: config.OperationStep, Kind: "fix"}
	if r.IncludeSourceFixes {
		step.Args = map[string]cty.Value{"args": cty.StringVal("--include-source-fixes")}
	}
	return step
}

func (g *GoogleFonts) statStep(r *resolvedProject, needs []string) config.Step {
	step := config.Step{Type: config.PostprocessStep, Kind: "buildStat", Needs: needs}
	if r.StatConfig != "" {
		step.Args = map[string]cty.Value{"args": cty.StringVal("--src " + r.StatConfig)}
	}
	return step
}

func compressStep() config.Step {
	return config.Step{Type: config.OperationStep, Kind: "compress"}
}
