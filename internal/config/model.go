package config

import (
	"github.com/zclconf/go-cty/cty"
)

// StepType distinguishes the three kinds of recipe steps.
type StepType int

const (
	// SourceStep declares (or re-declares) the file the chain points at.
	SourceStep StepType = iota
	// OperationStep applies a named transform, advancing the chain to the
	// operation's output artifact.
	OperationStep
	// PostprocessStep applies a side effect to the chain's current result,
	// producing only a stamp file.
	PostprocessStep
)

// String returns the recipe-level keyword for the step type.
func (t StepType) String() string {
	switch t {
	case SourceStep:
		return "source"
	case OperationStep:
		return "operation"
	case PostprocessStep:
		return "postprocess"
	}
	return "unknown"
}

// Step is the format-agnostic representation of one recipe step.
type Step struct {
	Type StepType
	// Source is the declared file path. Only set for SourceStep.
	Source string
	// Kind names the operation or postprocess capability.
	Kind string
	// Args holds the step's configuration values. Key order is irrelevant;
	// two steps with the same kind and RawEquals-equal values are the same
	// computation.
	Args map[string]cty.Value
	// Needs lists extra dependency paths declared by the recipe author.
	Needs []string
}

// Recipe maps each target path to its ordered step chain.
type Recipe map[string][]Step

// Targets returns the recipe's target paths in unspecified order.
func (r Recipe) Targets() []string {
	targets := make([]string, 0, len(r))
	for t := range r {
		targets = append(targets, t)
	}
	return targets
}

// Model is the unified representation of a loaded configuration: explicit
// recipe targets, and optionally a project description from which a recipe
// provider synthesizes further targets.
type Model struct {
	Recipe  Recipe
	Project *Project
}

// Project describes a font family build at the level the googlefonts
// recipe provider understands. Pointer fields are tri-state: nil means
// "not set, apply the default".
type Project struct {
	Sources    []string
	FamilyName string

	OutputDir string
	VFDir     string
	TTDir     string
	OTDir     string
	WoffDir   string

	BuildVariable *bool
	BuildStatic   *bool
	BuildTTF      *bool
	BuildOTF      *bool
	BuildWebfont  *bool

	AutohintTTF *bool
	AutohintOTF *bool

	IncludeSourceFixes bool
	CleanUp            *bool

	// Axes lists the variation axis tags used to name variable font
	// targets, e.g. ["wght", "opsz"].
	Axes []string

	// Instances maps a source path to the named instances to build as
	// static fonts.
	Instances map[string][]string

	// StatConfig is a path to a STAT table description passed to the
	// buildStat postprocess.
	StatConfig string

	ExtraFontmakeArgs string
}
