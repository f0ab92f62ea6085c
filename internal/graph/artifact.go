package graph

import (
	"path/filepath"
	"strings"
)

// ArtifactKind classifies an artifact's role in the build.
type ArtifactKind int

const (
	// SourceArtifact is a file declared by a recipe's source step.
	SourceArtifact ArtifactKind = iota
	// IntermediateArtifact is a compiler-allocated or operation-named
	// temporary, including postprocess stamps.
	IntermediateArtifact
	// BinaryArtifact is a built font binary.
	BinaryArtifact
)

// String returns a short name for the kind.
func (k ArtifactKind) String() string {
	switch k {
	case SourceArtifact:
		return "source"
	case IntermediateArtifact:
		return "intermediate"
	case BinaryArtifact:
		return "binary"
	}
	return "unknown"
}

// Artifact represents one named file in the build graph. The path may be
// empty until a later source step binds it; identity is by registered
// path, enforced by the owning Graph.
type Artifact struct {
	Path string
	Kind ArtifactKind
	// Terminal is true only for a recipe target's officially named output.
	Terminal bool
}

// Bound reports whether the artifact's path has been resolved.
func (a *Artifact) Bound() bool {
	return a.Path != ""
}

// Basename returns the file name component of the path.
func (a *Artifact) Basename() string {
	return filepath.Base(a.Path)
}

// Extension returns the path's extension without the leading dot.
func (a *Artifact) Extension() string {
	return strings.TrimPrefix(filepath.Ext(a.Path), ".")
}

func (a *Artifact) String() string {
	if !a.Bound() {
		return "<unbound>"
	}
	return a.Path
}
