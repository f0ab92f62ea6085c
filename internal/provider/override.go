package provider

import (
	"github.com/typeops/fontbake/internal/config"
)

// Merge layers explicit recipe targets over generated ones. An explicit
// chain replaces the generated chain for the same target, with one
// exception: a chain made only of postprocess steps is treated as an
// extension and appended to the generated chain, so a recipe can add a
// stamp pass to a synthesized target without restating how it is built.
func Merge(generated, overrides config.Recipe) config.Recipe {
	merged := config.Recipe{}
	for target, steps := range generated {
		merged[target] = steps
	}
	for target, steps := range overrides {
		base, exists := merged[target]
		if exists && postprocessOnly(steps) {
			merged[target] = append(append([]config.Step(nil), base...), steps...)
			continue
		}
		merged[target] = steps
	}
	return merged
}

func postprocessOnly(steps []config.Step) bool {
	if len(steps) == 0 {
		return false
	}
	for _, s := range steps {
		if s.Type != config.PostprocessStep {
			return false
		}
	}
	return true
}
