//go:build integration

package kwonly_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKwonlyIntegration builds the example app and drives it through every transport.
func TestKwonlyIntegration(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	projectRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(projectRoot, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			t.Fatal("Could not find project root (go.mod)")
		}
		projectRoot = parent
	}

	binPath := filepath.Join(t.TempDir(), "kwonly_example")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./examples/basic")
	buildCmd.Dir = projectRoot
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	require.NoError(t, buildCmd.Run(), "Failed to build example app")

	call := func(t *testing.T, input string) (map[string]any, error) {
		t.Helper()
		cmd := exec.Command(binPath, "call", "--log-format", "json")
		cmd.Stdin = strings.NewReader(input)
		var out bytes.Buffer
		cmd.Stdout = &out
		runErr := cmd.Run()

		var parsed map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &parsed), "call output should be JSON: %q", out.String())
		return parsed, runErr
	}

	t.Run("Help", func(t *testing.T) {
		out, err := exec.Command(binPath, "--help").CombinedOutput()
		require.NoError(t, err)
		assert.Contains(t, string(out), "Formatter v1.0.0")
		assert.Contains(t, string(out), "Available Commands:")
	})

	t.Run("Version", func(t *testing.T) {
		out, err := exec.Command(binPath, "--version").CombinedOutput()
		require.NoError(t, err)
		assert.Contains(t, string(out), "based on kwonly")
	})

	t.Run("Call", func(t *testing.T) {
		parsed, err := call(t, `{"function": "Format", "args": ["ab", 6], "kwargs": {"fill": "*", "align": "center"}}`)
		require.NoError(t, err)
		assert.Equal(t, "**ab**", parsed["result"])
	})

	t.Run("Call/KeywordOnlyPassedPositionally", func(t *testing.T) {
		parsed, err := call(t, `{"function": "Format", "args": ["ab", 6, "*"]}`)
		assert.Error(t, err)
		assert.Equal(t, "Format() takes 2 positional arguments but 3 were given", parsed["error"])
		assert.Equal(t, "too_many_positional_arguments", parsed["kind"])
	})

	t.Run("Call/MissingKeywordOnly", func(t *testing.T) {
		parsed, err := call(t, `{"function": "Tag", "args": ["svc", "a", "b"]}`)
		assert.Error(t, err)
		assert.Equal(t, "Tag() missing 1 required keyword-only argument: 'sep'", parsed["error"])
	})

	t.Run("Call/Sinks", func(t *testing.T) {
		parsed, err := call(t, `{"function": "Tag", "args": ["svc", "a"], "kwargs": {"sep": ",", "zone": "eu", "env": "prod"}}`)
		require.NoError(t, err)
		assert.Equal(t, "svc,a,env=prod,zone=eu", parsed["result"])
	})

	t.Run("Serve", func(t *testing.T) {
		cmd := exec.Command(binPath, "serve", "--port", "9998")
		require.NoError(t, cmd.Start())
		defer func() {
			cmd.Process.Kill()
			cmd.Wait()
		}()

		time.Sleep(1 * time.Second)

		resp, err := http.Post("http://localhost:9998/functions/Format", "application/json",
			strings.NewReader(`{"args": ["ab", 4], "kwargs": {"align": "right"}}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "  ab", result["result"])

		resp2, err := http.Post("http://localhost:9998/functions/Format", "application/json",
			strings.NewReader(`{"args": ["ab"]}`))
		require.NoError(t, err)
		defer resp2.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
	})

	t.Run("MCP", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client := mcp.NewClient(&mcp.Implementation{
			Name:    "test-client",
			Version: "1.0.0",
		}, nil)

		session, err := client.Connect(ctx, &mcp.CommandTransport{
			Command: exec.Command(binPath, "mcp"),
		}, nil)
		require.NoError(t, err)
		defer session.Close()

		tools, err := session.ListTools(ctx, nil)
		require.NoError(t, err)
		var names []string
		for _, tool := range tools.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{"Format", "Tag"}, names)

		for _, tc := range []struct {
			args      map[string]any
			isError   bool
			wantField string
			want      any
		}{
			{map[string]any{"args": []any{"x", 3}, "kwargs": map[string]any{"fill": "-"}}, false, "result", "x--"},
			{map[string]any{"args": []any{"x", 3, "-"}}, true, "kind", "too_many_positional_arguments"},
		} {
			t.Run(fmt.Sprint(tc.args), func(t *testing.T) {
				result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "Format", Arguments: tc.args})
				require.NoError(t, err)
				assert.Equal(t, tc.isError, result.IsError)
				require.NotEmpty(t, result.Content)

				text, ok := result.Content[0].(*mcp.TextContent)
				require.True(t, ok)
				var parsed map[string]any
				require.NoError(t, json.Unmarshal([]byte(text.Text), &parsed))
				assert.Equal(t, tc.want, parsed[tc.wantField])
			})
		}
	})
}
