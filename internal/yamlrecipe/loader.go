// Package yamlrecipe loads build recipes in the YAML layout the classic
// builder config uses: top-level project keys plus a recipe mapping of
// target path to step list, where each step is a small dict keyed by
// source, operation, or postprocess.
package yamlrecipe

import (
	"context"
	"fmt"
	"os"

	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a YAML recipe loader.
func NewLoader() *Loader {
	return &Loader{}
}

// yamlFile mirrors the on-disk document. Steps are decoded loosely as
// maps because a step's config keys are open-ended.
type yamlFile struct {
	Recipe map[string][]map[string]any `yaml:"recipe"`

	Sources    []string `yaml:"sources"`
	FamilyName string   `yaml:"familyName"`

	OutputDir string `yaml:"outputDir"`
	VFDir     string `yaml:"vfDir"`
	TTDir     string `yaml:"ttDir"`
	OTDir     string `yaml:"otDir"`
	WoffDir   string `yaml:"woffDir"`

	BuildVariable *bool `yaml:"buildVariable"`
	BuildStatic   *bool `yaml:"buildStatic"`
	BuildTTF      *bool `yaml:"buildTTF"`
	BuildOTF      *bool `yaml:"buildOTF"`
	BuildWebfont  *bool `yaml:"buildWebfont"`

	AutohintTTF *bool `yaml:"autohintTTF"`
	AutohintOTF *bool `yaml:"autohintOTF"`

	IncludeSourceFixes bool  `yaml:"includeSourceFixes"`
	CleanUp            *bool `yaml:"cleanUp"`

	Axes      []string            `yaml:"axes"`
	Instances map[string][]string `yaml:"instances"`

	StatConfig        string `yaml:"statConfig"`
	ExtraFontmakeArgs string `yaml:"extraFontmakeArgs"`
}

// Load reads and translates one YAML recipe/config file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file %s: %w", path, err)
	}
	model, err := l.LoadSource(ctx, path, raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("YAML loading complete.", "targets", len(model.Recipe), "has_project", model.Project != nil)
	return model, nil
}

// LoadSource translates recipe text held in memory.
func (l *Loader) LoadSource(_ context.Context, name string, src []byte) (*config.Model, error) {
	var doc yamlFile
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("parsing recipe %s: %w", name, err)
	}

	model := &config.Model{Recipe: config.Recipe{}}
	for target, rawSteps := range doc.Recipe {
		steps, err := translateSteps(rawSteps)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: target %q: %w", name, target, err)
		}
		model.Recipe[target] = steps
	}

	if len(doc.Sources) > 0 {
		model.Project = &config.Project{
			Sources:            doc.Sources,
			FamilyName:         doc.FamilyName,
			OutputDir:          doc.OutputDir,
			VFDir:              doc.VFDir,
			TTDir:              doc.TTDir,
			OTDir:              doc.OTDir,
			WoffDir:            doc.WoffDir,
			BuildVariable:      doc.BuildVariable,
			BuildStatic:        doc.BuildStatic,
			BuildTTF:           doc.BuildTTF,
			BuildOTF:           doc.BuildOTF,
			BuildWebfont:       doc.BuildWebfont,
			AutohintTTF:        doc.AutohintTTF,
			AutohintOTF:        doc.AutohintOTF,
			IncludeSourceFixes: doc.IncludeSourceFixes,
			CleanUp:            doc.CleanUp,
			Axes:               doc.Axes,
			Instances:          doc.Instances,
			StatConfig:         doc.StatConfig,
			ExtraFontmakeArgs:  doc.ExtraFontmakeArgs,
		}
	}
	return model, nil
}

// translateSteps converts the loose step dicts into typed steps. Exactly
// one of the source/operation/postprocess keys must be present per step.
func translateSteps(rawSteps []map[string]any) ([]config.Step, error) {
	steps := make([]config.Step, 0, len(rawSteps))
	for i, raw := range rawSteps {
		step, err := translateStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func translateStep(raw map[string]any) (config.Step, error) {
	var step config.Step
	discriminators := 0
	if v, ok := raw["source"]; ok {
		s, ok := v.(string)
		if !ok {
			return step, fmt.Errorf("source must be a string")
		}
		step = config.Step{Type: config.SourceStep, Source: s}
		discriminators++
	}
	if v, ok := raw["operation"]; ok {
		s, ok := v.(string)
		if !ok {
			return step, fmt.Errorf("operation must be a string")
		}
		step = config.Step{Type: config.OperationStep, Kind: s}
		discriminators++
	}
	if v, ok := raw["postprocess"]; ok {
		s, ok := v.(string)
		if !ok {
			return step, fmt.Errorf("postprocess must be a string")
		}
		step = config.Step{Type: config.PostprocessStep, Kind: s}
		discriminators++
	}
	if discriminators != 1 {
		return step, fmt.Errorf("step must have exactly one of source, operation, postprocess")
	}

	for key, value := range raw {
		switch key {
		case "source", "operation", "postprocess":
			continue
		case "needs":
			needs, err := needsList(value)
			if err != nil {
				return step, err
			}
			step.Needs = needs
		default:
			val, err := ctyFromAny(value)
			if err != nil {
				return step, fmt.Errorf("config key %q: %w", key, err)
			}
			if step.Args == nil {
				step.Args = make(map[string]cty.Value)
			}
			step.Args[key] = val
		}
	}
	return step, nil
}

// needsList accepts both a single path and a list of paths, matching the
// original recipe convention.
func needsList(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []any:
		needs := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("needs entries must be strings")
			}
			needs = append(needs, s)
		}
		return needs, nil
	}
	return nil, fmt.Errorf("needs must be a string or a list of strings")
}

// ctyFromAny converts the scalar types YAML produces into cty values.
func ctyFromAny(value any) (cty.Value, error) {
	switch v := value.(type) {
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case nil:
		return cty.NullVal(cty.String), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported value type %T", value)
}
