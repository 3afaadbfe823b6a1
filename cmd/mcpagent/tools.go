package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/config"
	"github.com/effective-security/mcpagent/internal/dependency"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/spf13/cobra"
)

type toolsFlags struct {
	output string
	strict bool
}

// ToolInfo is the catalog entry printed by the tools command
type ToolInfo struct {
	Name        string         `json:"name" yaml:"name" toml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema" yaml:"input_schema" toml:"input_schema"`
}

// ToolList is the document printed by the tools command
type ToolList struct {
	Tools []ToolInfo `json:"tools" yaml:"tools" toml:"tools"`
}

func newToolsCmd(global *globalFlags) *cobra.Command {
	flags := &toolsFlags{}
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the local tools and the tools of the configured servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listTools(cmd, global, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "yaml", "output format: yaml|json|toml")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "print the schemas normalized for strict function calling")
	return cmd
}

func listTools(cmd *cobra.Command, global *globalFlags, flags *toolsFlags) error {
	format := strings.ToLower(flags.output)
	switch format {
	case "yaml", "json", "toml":
	default:
		return errors.Newf("unsupported output format: %q", flags.output)
	}

	cfg, err := config.Load(global.configFile)
	if err != nil {
		return err
	}

	c, err := dependency.New(cmd.Context(), cfg, dependency.WithClientInfo("mcpagent", Version))
	if err != nil {
		return err
	}
	defer closeContainer(c)

	registry, err := c.Registry()
	if err != nil {
		return err
	}

	list, err := catalogList(registry.Catalog(), flags.strict)
	if err != nil {
		return err
	}

	var res string
	switch format {
	case "json":
		res = llmutils.ToJSONIndent(list)
	case "toml":
		res, err = llmutils.ToTOML(list)
		if err != nil {
			return err
		}
	default:
		res = llmutils.ToYAML(list)
	}
	fmt.Fprint(cmd.OutOrStdout(), llmutils.EnsureEndsWithNewline(res))
	return nil
}

func catalogList(catalog []*tools.Descriptor, strict bool) (*ToolList, error) {
	list := &ToolList{
		Tools: make([]ToolInfo, 0, len(catalog)),
	}
	for _, d := range catalog {
		s := d.InputSchema
		if strict {
			s = schema.Strict(s)
		}
		if s == nil {
			s = schema.Object(nil)
		}
		m, err := s.ToMap()
		if err != nil {
			return nil, errors.WithMessagef(err, "tool %q", d.Name)
		}
		list.Tools = append(list.Tools, ToolInfo{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: m,
		})
	}
	return list, nil
}
