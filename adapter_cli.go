package kwonly

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *App) buildCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call [function]",
		Short: "Read a JSON call from stdin and execute it",
		Long: `Reads {"function": "...", "args": [...], "kwargs": {...}} from stdin.
The function may instead be given as the first argument.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req CallRequest
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&req); err != nil && err != io.EOF {
				return errors.Wrap(err, "invalid JSON call")
			}
			if len(args) == 1 {
				req.Function = args[0]
			}

			out := json.NewEncoder(cmd.OutOrStdout())

			fn, ok := a.Lookup(req.Function)
			if !ok {
				_ = out.Encode(buildErrorResponse(fmt.Sprintf("Function not found: %s", req.Function)))
				return errors.Errorf("function not found: %s", req.Function)
			}

			results, err := a.invoke(cmd.Context(), fn, req)
			if err != nil {
				_ = out.Encode(buildCallErrorResponse(err))
				return err
			}
			return out.Encode(buildSuccessResponse(results))
		},
	}
	return cmd
}
