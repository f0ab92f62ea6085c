package app

import (
	"io"
	"sort"

	"github.com/typeops/fontbake/internal/config"
	"github.com/typeops/fontbake/internal/ops"
	"gopkg.in/yaml.v3"
)

// writeRecipe prints the fully expanded recipe in the YAML recipe layout,
// so a generated recipe can be checked in and loaded back verbatim.
// Targets and config keys are emitted in lexical order.
func writeRecipe(w io.Writer, recipe config.Recipe) error {
	targets := recipe.Targets()
	sort.Strings(targets)

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for _, target := range targets {
		steps := &yaml.Node{Kind: yaml.SequenceNode}
		for _, step := range recipe[target] {
			steps.Content = append(steps.Content, stepNode(step))
		}
		mapping.Content = append(mapping.Content, scalarNode(target), steps)
	}
	root := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: []*yaml.Node{scalarNode("recipe"), mapping},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return err
	}
	return enc.Close()
}

func stepNode(step config.Step) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		n.Content = append(n.Content, scalarNode(key), value)
	}

	if step.Type == config.SourceStep {
		add("source", scalarNode(step.Source))
		return n
	}
	add(step.Type.String(), scalarNode(step.Kind))

	keys := make([]string, 0, len(step.Args))
	for k := range step.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(k, scalarNode(ops.ValueString(step.Args[k])))
	}

	if len(step.Needs) > 0 {
		needs := &yaml.Node{Kind: yaml.SequenceNode}
		for _, need := range step.Needs {
			needs.Content = append(needs.Content, scalarNode(need))
		}
		add("needs", needs)
	}
	return n
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}
