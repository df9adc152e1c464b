package kwonly

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// GenerateJSONSchema describes the CallRequest accepted by f.
//
// Every parameter appears under kwargs. Keyword-only parameters carry
// "x-keyword-only": true, and those without a default are required.
// Positional-or-keyword parameters are listed in order under
// "x-positional" since they may also be passed in args.
func GenerateJSONSchema(f *Func) map[string]any {
	b := f.Binder()
	properties := make(map[string]any)
	required := []string{}
	positional := []string{}

	for _, p := range b.params {
		prop := map[string]any{}
		if p.HasDefault {
			prop["default"] = p.Default
		}
		if b.keywordOnly[p.Name] {
			prop["x-keyword-only"] = true
			if !p.HasDefault {
				required = append(required, p.Name)
			}
		} else {
			positional = append(positional, p.Name)
		}
		properties[p.Name] = prop
	}

	kwargs := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": b.varKwargs,
	}
	if len(required) > 0 {
		kwargs["required"] = required
	}

	args := map[string]any{
		"type": "array",
	}
	if !b.varArgs {
		args["maxItems"] = len(b.positional)
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"args":   args,
			"kwargs": kwargs,
		},
		"x-positional": positional,
	}
}

func (a *App) buildSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the argument schema of every registered function",
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas := make(map[string]any, len(a.functions))
			for _, fn := range a.functions {
				schemas[fn.Name] = GenerateJSONSchema(fn.Func)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(schemas)
		},
	}
	return cmd
}
