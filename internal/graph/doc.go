// Package graph holds the shared artifact/operation DAG assembled by the
// chain compiler across all recipe targets. Nodes are artifacts (named
// files); edge labels are operation instances. The graph enforces two
// structural invariants: each distinct path maps to exactly one artifact,
// and every non-source artifact has at most one producing operation.
package graph
