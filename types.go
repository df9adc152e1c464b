package kwonly

// Param declares one parameter of a decorated function.
// Params are always supplied as an ordered list; the order is the
// declaration order used for positional binding and for error messages.
type Param struct {
	// Name is the parameter name callers use to pass the value by name.
	Name string
	// HasDefault reports whether Default is used when the caller omits the parameter.
	HasDefault bool
	// Default is the value bound when the parameter is omitted.
	Default any
}

// Required declares a parameter without a default value.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional declares a parameter that falls back to def when omitted.
func Optional(name string, def any) Param {
	return Param{
		Name:       name,
		HasDefault: true,
		Default:    def,
	}
}

// Config holds the application configuration.
// Name and Version appear in CLI help, the OpenAPI document and the MCP
// server implementation info.
type Config struct {
	// Name is the name of the application.
	Name string `validate:"required"`
	// Version is the version of the application.
	Version string `validate:"required"`
}
