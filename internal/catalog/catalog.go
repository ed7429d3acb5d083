// Package catalog holds the registry of tools the assistant can offer to
// the model, and renders their schemas for the system prompt.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrDuplicateTool is returned when a tool name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
	// ErrUnknownTool is returned when validating against a name that was
	// never registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// Parameter describes one named argument of a tool.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Enum        []string
}

// Tool is a named capability with a parameter schema.
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Schema renders the tool in the JSON-schema shape shown to the model.
func (t Tool) Schema() map[string]any {
	return map[string]any{
		"name":        t.Name,
		"description": t.Description,
		"parameters":  t.parametersSchema(true),
	}
}

// ValidationSchema is the parameter schema used to check calls. Enum
// constraints are left out; handlers decide what to do with values outside
// the advertised set.
func (t Tool) ValidationSchema() map[string]any {
	return t.parametersSchema(false)
}

func (t Tool) parametersSchema(withEnums bool) map[string]any {
	props := make(map[string]any, len(t.Parameters))
	required := make([]string, 0)
	for _, p := range t.Parameters {
		prop := map[string]any{"type": p.Type}
		if withEnums {
			if p.Description != "" {
				prop["description"] = p.Description
			}
			if len(p.Enum) > 0 {
				prop["enum"] = append([]string(nil), p.Enum...)
			}
		} else if p.Type == "boolean" || p.Type == "integer" || p.Type == "number" {
			// Small models often quote scalars; handlers coerce them.
			prop["type"] = []string{p.Type, "string"}
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Catalog is an ordered, name-unique tool registry. It is safe for
// concurrent reads after registration.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	tools map[string]Tool
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{tools: make(map[string]Tool)}
}

// Register adds t to the catalog.
func (c *Catalog) Register(t Tool) error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return errors.New("catalog: tool name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tools[name]; exists {
		return fmt.Errorf("catalog: %w: %s", ErrDuplicateTool, name)
	}
	t.Name = name
	t.Parameters = append([]Parameter(nil), t.Parameters...)
	c.tools[name] = t
	c.order = append(c.order, name)
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (c *Catalog) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := c.Register(t); err != nil {
			panic(err)
		}
	}
}

// Get looks a tool up by name.
func (c *Catalog) Get(name string) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[name]
	return t, ok
}

// List returns the tools in registration order.
func (c *Catalog) List() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Tool, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// SchemasForPrompt returns every tool schema in registration order.
func (c *Catalog) SchemasForPrompt() []map[string]any {
	tools := c.List()
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.Schema())
	}
	return out
}

// PromptJSON renders SchemasForPrompt as indented JSON.
func (c *Catalog) PromptJSON() (string, error) {
	data, err := json.MarshalIndent(c.SchemasForPrompt(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("catalog: marshal schemas: %w", err)
	}
	return string(data), nil
}

// Validate checks params against the named tool's parameter schema.
func (c *Catalog) Validate(name string, params map[string]any) error {
	t, ok := c.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if params == nil {
		params = map[string]any{}
	}
	argBytes, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal arguments for validation: %w", err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(t.ValidationSchema()), gojsonschema.NewBytesLoader(argBytes))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("arguments failed validation: %s", strings.Join(details, "; "))
}
