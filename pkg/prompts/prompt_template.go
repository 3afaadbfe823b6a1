// Package prompts renders prompt templates:
// Go text/template with the sprig function map.
package prompts

import (
	"bytes"
	"slices"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
)

// ErrNeedsInputVariable is returned when an input variable is not provided
var ErrNeedsInputVariable = errors.New("missing key in input values")

// PromptTemplate contains common fields for all prompt templates.
type PromptTemplate struct {
	// Template is the prompt template.
	Template string
	// InputVariables is a list of variable names the prompt template expects.
	InputVariables []string
	// PartialVariables represents a map of variable names to values,
	// the input values override them.
	PartialVariables map[string]any
}

// NewPromptTemplate returns a new prompt template.
func NewPromptTemplate(tmpl string, inputVars []string) PromptTemplate {
	return PromptTemplate{
		Template:       tmpl,
		InputVariables: inputVars,
	}
}

// Format formats the prompt template and returns a string value.
func (p PromptTemplate) Format(values map[string]any) (string, error) {
	resolved := make(map[string]any, len(p.PartialVariables)+len(values))
	for k, v := range p.PartialVariables {
		resolved[k] = v
	}
	for k, v := range values {
		resolved[k] = v
	}

	var missing []string
	for _, name := range p.InputVariables {
		if _, ok := resolved[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", errors.WithMessagef(ErrNeedsInputVariable, "%v", missing)
	}

	return Render(p.Template, resolved)
}

// Render renders the template with the values
func Render(tmpl string, values map[string]any) (string, error) {
	t, err := template.New("prompt").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=zero").
		Parse(tmpl)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}

	var buf bytes.Buffer
	if err = t.Execute(&buf, values); err != nil {
		return "", errors.Wrap(err, "failed to render template")
	}
	return buf.String(), nil
}
