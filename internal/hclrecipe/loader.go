// Package hclrecipe loads build recipes written in HCL. A recipe file
// holds target blocks with ordered source/operation/postprocess step
// blocks, and optionally a project block for the recipe provider.
package hclrecipe

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates an HCL recipe loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses one HCL recipe file into the format-agnostic model. Step
// order within a target block is preserved; graph-level validation (first
// step must be a source, and so on) is left to the compiler.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse recipe file %s: %w", path, diags)
	}
	model, err := translateBody(file.Body.(*hclsyntax.Body))
	if err != nil {
		return nil, fmt.Errorf("recipe file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "targets", len(model.Recipe), "has_project", model.Project != nil)
	return model, nil
}

// LoadSource parses recipe text held in memory. Used by tests and by the
// --generate round trip.
func (l *Loader) LoadSource(ctx context.Context, name string, src []byte) (*config.Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse recipe %s: %w", name, diags)
	}
	return translateBody(file.Body.(*hclsyntax.Body))
}

func translateBody(body *hclsyntax.Body) (*config.Model, error) {
	model := &config.Model{Recipe: config.Recipe{}}
	for _, block := range body.Blocks {
		switch block.Type {
		case "target":
			if len(block.Labels) != 1 {
				return nil, fmt.Errorf("target block needs exactly one label")
			}
			steps, err := translateSteps(block.Body)
			if err != nil {
				return nil, fmt.Errorf("target %q: %w", block.Labels[0], err)
			}
			model.Recipe[block.Labels[0]] = steps
		case "project":
			project, err := translateProject(block.Body)
			if err != nil {
				return nil, fmt.Errorf("project block: %w", err)
			}
			model.Project = project
		default:
			return nil, fmt.Errorf("unknown block type %q", block.Type)
		}
	}
	return model, nil
}

// translateSteps converts a target block's child blocks, in declaration
// order, into recipe steps.
func translateSteps(body *hclsyntax.Body) ([]config.Step, error) {
	var steps []config.Step
	for _, block := range body.Blocks {
		if len(block.Labels) != 1 {
			return nil, fmt.Errorf("%s block needs exactly one label", block.Type)
		}
		label := block.Labels[0]
		switch block.Type {
		case "source":
			steps = append(steps, config.Step{Type: config.SourceStep, Source: label})
		case "operation", "postprocess":
			stepType := config.OperationStep
			if block.Type == "postprocess" {
				stepType = config.PostprocessStep
			}
			step := config.Step{Type: stepType, Kind: label}
			if err := translateStepBody(block.Body, &step); err != nil {
				return nil, fmt.Errorf("%s %q: %w", block.Type, label, err)
			}
			steps = append(steps, step)
		default:
			return nil, fmt.Errorf("unknown step block type %q", block.Type)
		}
	}
	return steps, nil
}

// translateStepBody evaluates a step block's attributes into config
// values. The needs attribute becomes the step's extra dependency list;
// everything else is operation config.
func translateStepBody(body *hclsyntax.Body, step *config.Step) error {
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("attribute %q: %w", name, diags)
		}
		if name == "needs" {
			needs, err := stringList(val)
			if err != nil {
				return fmt.Errorf("attribute needs: %w", err)
			}
			step.Needs = needs
			continue
		}
		if step.Args == nil {
			step.Args = make(map[string]cty.Value)
		}
		step.Args[name] = val
	}
	return nil
}

func stringList(val cty.Value) ([]string, error) {
	if !val.Type().IsTupleType() && !val.Type().IsListType() && !val.Type().IsSetType() {
		return nil, fmt.Errorf("expected a list of strings, got %s", val.Type().FriendlyName())
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return nil, fmt.Errorf("expected a string element, got %s", elem.Type().FriendlyName())
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

// projectBlock is the gohcl decoding target for a project block.
type projectBlock struct {
	Sources    []string `hcl:"sources"`
	FamilyName *string  `hcl:"family_name,optional"`

	OutputDir *string `hcl:"output_dir,optional"`
	VFDir     *string `hcl:"vf_dir,optional"`
	TTDir     *string `hcl:"tt_dir,optional"`
	OTDir     *string `hcl:"ot_dir,optional"`
	WoffDir   *string `hcl:"woff_dir,optional"`

	BuildVariable *bool `hcl:"build_variable,optional"`
	BuildStatic   *bool `hcl:"build_static,optional"`
	BuildTTF      *bool `hcl:"build_ttf,optional"`
	BuildOTF      *bool `hcl:"build_otf,optional"`
	BuildWebfont  *bool `hcl:"build_webfont,optional"`

	AutohintTTF *bool `hcl:"autohint_ttf,optional"`
	AutohintOTF *bool `hcl:"autohint_otf,optional"`

	IncludeSourceFixes *bool `hcl:"include_source_fixes,optional"`
	CleanUp            *bool `hcl:"clean_up,optional"`

	Axes      []string            `hcl:"axes,optional"`
	Instances map[string][]string `hcl:"instances,optional"`

	StatConfig        *string `hcl:"stat_config,optional"`
	ExtraFontmakeArgs *string `hcl:"extra_fontmake_args,optional"`
}

func translateProject(body *hclsyntax.Body) (*config.Project, error) {
	var pb projectBlock
	if diags := gohcl.DecodeBody(body, nil, &pb); diags.HasErrors() {
		return nil, fmt.Errorf("decoding failed: %w", diags)
	}
	project := &config.Project{
		Sources:       pb.Sources,
		BuildVariable: pb.BuildVariable,
		BuildStatic:   pb.BuildStatic,
		BuildTTF:      pb.BuildTTF,
		BuildOTF:      pb.BuildOTF,
		BuildWebfont:  pb.BuildWebfont,
		AutohintTTF:   pb.AutohintTTF,
		AutohintOTF:   pb.AutohintOTF,
		CleanUp:       pb.CleanUp,
		Axes:          pb.Axes,
		Instances:     pb.Instances,
	}
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&project.FamilyName, pb.FamilyName)
	setString(&project.OutputDir, pb.OutputDir)
	setString(&project.VFDir, pb.VFDir)
	setString(&project.TTDir, pb.TTDir)
	setString(&project.OTDir, pb.OTDir)
	setString(&project.WoffDir, pb.WoffDir)
	setString(&project.StatConfig, pb.StatConfig)
	setString(&project.ExtraFontmakeArgs, pb.ExtraFontmakeArgs)
	if pb.IncludeSourceFixes != nil {
		project.IncludeSourceFixes = *pb.IncludeSourceFixes
	}
	return project, nil
}
