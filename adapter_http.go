package kwonly

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *App) buildServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Web API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetInt("port")

			addr := fmt.Sprintf(":%d", port)
			a.logger.Info().Str("addr", addr).Int("functions", len(a.functions)).Msg("serving")
			return http.ListenAndServe(addr, a.Handler())
		},
	}
	cmd.Flags().Int("port", 8080, "Port to listen on")
	return cmd
}

// Handler returns the HTTP API:
//
//	POST /functions/{name}   body: {"args": [...], "kwargs": {...}}
//	GET  /openapi.json
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/functions/{name}", a.handleCall)
	r.Get("/openapi.json", a.serveOpenAPI)
	return r
}

func (a *App) handleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	fn, ok := a.Lookup(name)
	if !ok {
		writeJSONError(w, fmt.Sprintf("Function not found: %s", name), http.StatusNotFound)
		return
	}

	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSONError(w, fmt.Sprintf("Invalid JSON body: %v", err), http.StatusBadRequest)
		return
	}
	req.Function = fn.Name

	results, err := a.invoke(r.Context(), fn, req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrArgument) {
			status = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(buildCallErrorResponse(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(buildSuccessResponse(results))
}

func (a *App) serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	spec := a.generateOpenAPISpec()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
