package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/s0up4200/filmquery/film"
)

// PresetSpec describes a named query: parameters as a client would send them and
// an optional expression filter.
type PresetSpec struct {
	Params map[string]string
	Where  string
}

// Preset is a registered, validated PresetSpec
type Preset struct {
	Name   string
	Params map[string]string
	Filter CompiledFilter
}

// Manager keeps named query presets and runs them through an engine
type Manager struct {
	engine   *Engine
	compiler Compiler
	presets  map[string]*Preset
	mu       sync.RWMutex
}

// ManagerOption configures a preset manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new preset manager on top of engine
func NewManager(engine *Engine, opts ...ManagerOption) *Manager {
	m := &Manager{
		engine:   engine,
		compiler: defaultCompiler,
		presets:  make(map[string]*Preset),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterPreset validates and registers a preset, replacing any preset with the
// same name. Parameter names match regardless of case, so presets survive config
// loaders that lowercase keys.
func (m *Manager) RegisterPreset(name string, spec PresetSpec) error {
	preset, err := m.build(name, spec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.presets[name] = preset
	m.mu.Unlock()

	return nil
}

// RegisterPresets registers several presets. Nothing is registered unless all of
// them are valid.
func (m *Manager) RegisterPresets(specs map[string]PresetSpec) error {
	built := make(map[string]*Preset, len(specs))
	for name, spec := range specs {
		preset, err := m.build(name, spec)
		if err != nil {
			return err
		}
		built[name] = preset
	}

	m.mu.Lock()
	maps.Copy(m.presets, built)
	m.mu.Unlock()

	return nil
}

func (m *Manager) build(name string, spec PresetSpec) (*Preset, error) {
	params := make(map[string]string, len(spec.Params))
	for key, value := range spec.Params {
		param, ok := CanonicalParam(key)
		if !ok {
			return nil, fmt.Errorf("preset '%s': %w: %s", name, ErrUnknownParam, key)
		}
		params[string(param)] = value
	}

	// Validate now; directives are rebuilt on every run.
	if _, err := ParseCriteria(params); err != nil {
		return nil, fmt.Errorf("preset '%s': %w", name, err)
	}

	preset := &Preset{Name: name, Params: params}

	if spec.Where != "" {
		filter, err := m.compiler.Compile(spec.Where)
		if err != nil {
			return nil, fmt.Errorf("preset '%s': %w", name, err)
		}
		preset.Filter = filter
	}

	return preset, nil
}

// UnregisterPreset removes a preset
func (m *Manager) UnregisterPreset(name string) {
	m.mu.Lock()
	delete(m.presets, name)
	m.mu.Unlock()
}

// GetPreset returns a registered preset by name
func (m *Manager) GetPreset(name string) (*Preset, bool) {
	m.mu.RLock()
	preset, exists := m.presets[name]
	m.mu.RUnlock()
	return preset, exists
}

// ListPresets returns all registered preset names, sorted
func (m *Manager) ListPresets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.presets))
}

// RunPreset runs a registered preset against records
func (m *Manager) RunPreset(ctx context.Context, name string, records []film.Record) ([]film.Record, error) {
	preset, exists := m.GetPreset(name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}

	var extra []Filter
	if preset.Filter != nil {
		extra = append(extra, preset.Filter)
	}

	return m.engine.Run(ctx, records, preset.Params, extra...)
}
