package ledger

import (
	"context"
	"fmt"
)

// World is a handle on the world contract named by the environment. It
// resolves systems (state-mutating actions) and components (keyed state
// reads) to callable handles.
type World struct {
	env *Env
}

type resolveParams struct {
	World FieldValue `json:"world"`
	Name  string     `json:"name"`
	Block BlockRef   `json:"block"`
}

type resolveResult struct {
	Address FieldValue `json:"address"`
}

// System resolves a named system on the world contract. Resolution happens
// once per worker at bootstrap; the returned handle is reused for every
// subsequent execution.
func (w *World) System(ctx context.Context, name string) (*SystemHandle, error) {
	var result resolveResult
	err := w.env.client.Call(ctx, "world_system", resolveParams{
		World: w.env.world,
		Name:  name,
		Block: w.env.block,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("resolve system %q: %w", name, err)
	}
	return &SystemHandle{env: w.env, name: name, address: result.Address}, nil
}

// Component resolves a named component on the world contract.
func (w *World) Component(ctx context.Context, name string) (*ComponentHandle, error) {
	var result resolveResult
	err := w.env.client.Call(ctx, "world_component", resolveParams{
		World: w.env.world,
		Name:  name,
		Block: w.env.block,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("resolve component %q: %w", name, err)
	}
	return &ComponentHandle{env: w.env, name: name, address: result.Address}, nil
}

// SystemHandle executes a resolved system with ordered calldata, signed by
// the environment's account.
type SystemHandle struct {
	env     *Env
	name    string
	address FieldValue
}

type executeParams struct {
	World    FieldValue   `json:"world"`
	System   FieldValue   `json:"system"`
	Account  FieldValue   `json:"account"`
	Calldata []FieldValue `json:"calldata"`
}

// Execute invokes the system with the given ordered arguments. The call is
// fire-and-confirm: success means the ledger accepted the invocation, nothing
// more.
func (s *SystemHandle) Execute(ctx context.Context, args []FieldValue) error {
	err := s.env.client.Call(ctx, "system_execute", executeParams{
		World:    s.env.world,
		System:   s.address,
		Account:  s.env.account.Address,
		Calldata: args,
	}, nil)
	if err != nil {
		return fmt.Errorf("execute %q: %w", s.name, err)
	}
	return nil
}

// ComponentHandle reads entity-keyed state from a resolved component.
type ComponentHandle struct {
	env     *Env
	name    string
	address FieldValue
}

type entityParams struct {
	World     FieldValue   `json:"world"`
	Component FieldValue   `json:"component"`
	Partition FieldValue   `json:"partition"`
	Keys      []FieldValue `json:"keys"`
	Block     BlockRef     `json:"block"`
}

type entityResult struct {
	Values Record `json:"values"`
}

// Entity queries the component record keyed by the partition (canonically the
// zero element) plus the key tuple, at the environment's block reference.
func (c *ComponentHandle) Entity(ctx context.Context, partition FieldValue, keys []FieldValue) (Record, error) {
	var result entityResult
	err := c.env.client.Call(ctx, "component_entity", entityParams{
		World:     c.env.world,
		Component: c.address,
		Partition: partition,
		Keys:      keys,
		Block:     c.env.block,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", c.name, err)
	}
	return result.Values, nil
}
