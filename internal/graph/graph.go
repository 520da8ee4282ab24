// Package graph provides a statically typed builder for the phase state
// machine. Instead of dispatching on string node names, nodes are keyed
// by the closed core.Phase enum and the compiled graph verifies at
// construction time that every phase has a node, so adding or removing
// a phase is a compile-and-construct-checked change.
package graph

import (
	"context"
	"fmt"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// Outcome is what a node produces: the (mutated) state, the phase the
// session should be in afterwards, and whether the step suspended
// waiting for human input.
type Outcome[S any] struct {
	State     S
	Next      core.Phase
	Suspended bool
}

// Node executes one phase of the workflow against the state.
type Node[S any] func(ctx context.Context, state S) (Outcome[S], error)

// Builder accumulates nodes before compilation.
type Builder[S any] struct {
	nodes map[core.Phase]Node[S]
}

// NewBuilder creates an empty builder.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{nodes: make(map[core.Phase]Node[S])}
}

// AddNode registers the node for a phase. Registering an invalid phase
// or the same phase twice is a construction error.
func (b *Builder[S]) AddNode(phase core.Phase, node Node[S]) error {
	if !core.ValidPhase(phase) {
		return fmt.Errorf("invalid phase: %s", phase)
	}
	if node == nil {
		return fmt.Errorf("nil node for phase %s", phase)
	}
	if _, exists := b.nodes[phase]; exists {
		return fmt.Errorf("duplicate node for phase %s", phase)
	}
	b.nodes[phase] = node
	return nil
}

// Compile verifies exhaustive phase coverage and returns the immutable
// graph.
func (b *Builder[S]) Compile() (*Graph[S], error) {
	for _, phase := range core.AllPhases() {
		if _, ok := b.nodes[phase]; !ok {
			return nil, fmt.Errorf("no node registered for phase %s", phase)
		}
	}
	nodes := make(map[core.Phase]Node[S], len(b.nodes))
	for p, n := range b.nodes {
		nodes[p] = n
	}
	return &Graph[S]{nodes: nodes}, nil
}

// Graph is a compiled, immutable phase dispatch table.
type Graph[S any] struct {
	nodes map[core.Phase]Node[S]
}

// Run executes the node for the given phase and validates the
// transition it produced.
func (g *Graph[S]) Run(ctx context.Context, phase core.Phase, state S) (Outcome[S], error) {
	node, ok := g.nodes[phase]
	if !ok {
		var zero Outcome[S]
		return zero, core.ErrState(core.CodeUnknownPhase,
			fmt.Sprintf("no node for phase %s", phase))
	}
	out, err := node(ctx, state)
	if err != nil {
		return out, err
	}
	if !out.Suspended && !core.ValidTransition(phase, out.Next) {
		var zero Outcome[S]
		return zero, core.ErrState(core.CodeInvalidState,
			fmt.Sprintf("illegal transition %s -> %s", phase, out.Next))
	}
	return out, nil
}
