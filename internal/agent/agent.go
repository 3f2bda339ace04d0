// Package agent creates persona agents with formative memories and registers
// role-specialised builders supplied by callers.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"edusim/internal/memory"
)

// Role classifies an agent within a scenario.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleCustom  Role = "custom"
)

// Agent is a persona participating in scenes. Utterances are produced by the
// game master; the agent carries identity, traits, and its memory owner key.
type Agent struct {
	Name   string
	Role   Role
	Traits []string
	Goal   string
}

// Describe renders a one-line persona summary for prompts.
func (a *Agent) Describe() string {
	parts := []string{fmt.Sprintf("%s (%s)", a.Name, a.Role)}
	if len(a.Traits) > 0 {
		parts = append(parts, "traits: "+strings.Join(a.Traits, ", "))
	}
	if a.Goal != "" {
		parts = append(parts, "goal: "+a.Goal)
	}
	return strings.Join(parts, "; ")
}

// Builder constructs a specialised agent from a name and trait list.
type Builder func(ctx context.Context, factory *Factory, name string, traits []string) (*Agent, error)

// ErrBuilderNotRegistered reports a specialised constructor without a builder.
var ErrBuilderNotRegistered = errors.New("agent builder is not registered")

// Factory creates agents and seeds their formative memories into a shared bank.
type Factory struct {
	bank          *memory.Bank
	psychBuilder  Builder
	socialBuilder Builder
	roster        map[string]*Agent
}

// NewFactory wraps a memory bank.
func NewFactory(bank *memory.Bank) *Factory {
	return &Factory{bank: bank, roster: map[string]*Agent{}}
}

// Bank exposes the shared memory bank.
func (f *Factory) Bank() *memory.Bank {
	return f.bank
}

// Roster returns created agents keyed by name.
func (f *Factory) Roster() map[string]*Agent {
	return f.roster
}

// CreateStudent creates a student agent with formative memories.
func (f *Factory) CreateStudent(ctx context.Context, name string, traits []string, goal string, memories []string) (*Agent, error) {
	return f.create(ctx, name, RoleStudent, traits, goal, memories)
}

// CreateTeacher creates a teacher agent with formative memories.
func (f *Factory) CreateTeacher(ctx context.Context, name string, traits []string, goal string, memories []string) (*Agent, error) {
	return f.create(ctx, name, RoleTeacher, traits, goal, memories)
}

// CreateParent creates a parent agent with formative memories.
func (f *Factory) CreateParent(ctx context.Context, name string, traits []string, goal string, memories []string) (*Agent, error) {
	return f.create(ctx, name, RoleParent, traits, goal, memories)
}

// CreateCustomAgent creates an agent with an arbitrary role label.
func (f *Factory) CreateCustomAgent(ctx context.Context, name string, role string, traits []string, goal string, memories []string) (*Agent, error) {
	return f.create(ctx, name, Role(role), traits, goal, memories)
}

func (f *Factory) create(ctx context.Context, name string, role Role, traits []string, goal string, memories []string) (*Agent, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("agent name is required")
	}
	if _, exists := f.roster[name]; exists {
		return nil, fmt.Errorf("agent %q already exists", name)
	}
	a := &Agent{Name: name, Role: role, Traits: traits, Goal: goal}
	for _, m := range memories {
		if err := f.bank.Add(ctx, name, m); err != nil {
			return nil, fmt.Errorf("seed memory for %s: %w", name, err)
		}
	}
	f.roster[name] = a
	return a, nil
}

// RegisterPsychBuilder installs the externally supplied psych-profile builder.
func (f *Factory) RegisterPsychBuilder(b Builder) {
	f.psychBuilder = b
}

// RegisterSocialBuilder installs the externally supplied social-profile builder.
func (f *Factory) RegisterSocialBuilder(b Builder) {
	f.socialBuilder = b
}

// CreatePsychAgent delegates to the registered psych builder. Calling it
// without a registered builder fails fast.
func (f *Factory) CreatePsychAgent(ctx context.Context, name string, traits []string) (*Agent, error) {
	if f.psychBuilder == nil {
		return nil, fmt.Errorf("psych agent %q: %w", name, ErrBuilderNotRegistered)
	}
	a, err := f.psychBuilder(ctx, f, name, traits)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateSocialAgent delegates to the registered social builder. Calling it
// without a registered builder fails fast.
func (f *Factory) CreateSocialAgent(ctx context.Context, name string, traits []string) (*Agent, error) {
	if f.socialBuilder == nil {
		return nil, fmt.Errorf("social agent %q: %w", name, ErrBuilderNotRegistered)
	}
	a, err := f.socialBuilder(ctx, f, name, traits)
	if err != nil {
		return nil, err
	}
	return a, nil
}
