/*
Package kwonly adds keyword-only parameters to dynamically invoked functions.

A dynamic call carries an ordered list of positional values and a map of
named values, the shape of JSON-RPC, MCP tool calls and interpreter
builtins. Any parameter may normally be filled from either side. kwonly
lets a function declare that some parameters can only be passed by name,
and rejects calls that break the rule with the diagnostics a runtime with
native keyword-only parameters produces:

	f() missing 1 required keyword-only argument: 'c'
	f() missing 2 required positional arguments: 'a' and 'b'
	f() got multiple values for argument 'd'
	f() got an unexpected keyword argument 'e'
	f() takes from 1 to 2 positional arguments but 3 positional arguments (and 1 keyword-only argument) were given

# Decorating functions

Parameters are declared explicitly, in order. Without WithKeywordOnly,
every parameter that has a default becomes keyword-only.

	func Connect(ctx context.Context, host string, port int, timeout int) (string, error) { ... }

	f, err := kwonly.Wrap(Connect, []kwonly.Param{
		kwonly.Required("host"),
		kwonly.Required("port"),
		kwonly.Optional("timeout", 30),
	})

	f.Call(ctx, []any{"db", 5432}, map[string]any{"timeout": 5}) // ok
	f.Call(ctx, []any{"db", 5432, 5}, nil)                        // takes 2 positional arguments but 3 were given

Decorate does the same for a Target that receives the bound Call directly,
and Configure builds a standalone Binder.

# Serving functions

App exposes decorated functions as CLI calls, an HTTP API and MCP tools:

	app := kwonly.New(kwonly.Config{Name: "db-tools", Version: "1.0.0"})
	app.Register(f, "Opens a connection")
	app.Run()

	$ db-tools call Connect <<< '{"args": ["db", 5432], "kwargs": {"timeout": 5}}'
	$ db-tools serve --port 8080
	$ db-tools mcp
*/
package kwonly
