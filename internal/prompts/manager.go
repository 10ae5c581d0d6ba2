package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// InterviewerTheory is the system prompt for the theory round
const InterviewerTheory = "interviewer_theory"

// Template is one system prompt loaded from YAML
type Template struct {
	Description  string   `yaml:"description"`
	Variables    []string `yaml:"variables"`
	SystemPrompt string   `yaml:"system_prompt"`
}

// Manager holds every embedded template by name
type Manager struct {
	templates map[string]Template
}

// NewManager loads the embedded templates
func NewManager() (*Manager, error) {
	m := &Manager{templates: make(map[string]Template)}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return m, nil
}

// Build renders a template, replacing each {{.Name}} placeholder with data[Name].
// Every declared variable must be supplied.
func (m *Manager) Build(name string, data map[string]string) (string, error) {
	tmpl, ok := m.templates[name]
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	result := tmpl.SystemPrompt
	for _, v := range tmpl.Variables {
		value, ok := data[v]
		if !ok {
			return "", fmt.Errorf("template %s: missing variable %s", name, v)
		}
		result = strings.ReplaceAll(result, "{{."+v+"}}", value)
	}
	return result, nil
}

// Names lists the loaded templates
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) load() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tmpl Template
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if strings.TrimSpace(tmpl.SystemPrompt) == "" {
			return fmt.Errorf("template file %s has no system_prompt", entry.Name())
		}

		m.templates[strings.TrimSuffix(entry.Name(), ".yaml")] = tmpl
	}

	return nil
}
