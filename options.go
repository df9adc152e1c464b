package kwonly

import "github.com/rs/zerolog"

// Option configures a Binder at decoration time.
type Option func(*Binder)

// WithKeywordOnly marks the named parameters as keyword-only.
// Without this option every parameter that has a default is keyword-only.
func WithKeywordOnly(names ...string) Option {
	return func(b *Binder) {
		b.explicit = append(b.explicit, names...)
	}
}

// WithVarArgs lets surplus positional values through to the target
// instead of rejecting the call.
func WithVarArgs() Option {
	return func(b *Binder) {
		b.varArgs = true
	}
}

// WithVarKwargs lets named values that match no parameter through to the
// target instead of rejecting the call.
func WithVarKwargs() Option {
	return func(b *Binder) {
		b.varKwargs = true
	}
}

// WithLogger sets the logger used to report rejected calls.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Binder) {
		b.logger = l
	}
}

// AppOption is a functional option for configuring the App during initialization.
type AppOption func(*App)

// WithName sets the application name.
func WithName(name string) AppOption {
	return func(a *App) {
		a.config.Name = name
	}
}

// WithAppLogger replaces the logger built from the --log-level and
// --log-format flags.
func WithAppLogger(l zerolog.Logger) AppOption {
	return func(a *App) {
		a.logger = l
		a.fixedLogger = true
	}
}
