package kwonly

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// Binder holds the classification of a function's parameters and turns
// each call's positional and named values into the argument list the
// function expects.
//
// A Binder is immutable after Configure and safe for concurrent use.
type Binder struct {
	name   string
	params []Param
	index  map[string]int

	keywordOnly map[string]bool
	// positional holds the indexes of positional-or-keyword params, in order.
	positional []int
	minPos     int

	explicit  []string
	varArgs   bool
	varKwargs bool
	logger    zerolog.Logger
}

// Call is the normalized form of one invocation.
type Call struct {
	// Args holds one value per declared parameter, in declaration order.
	Args []any
	// Extra holds surplus positional values captured by the variadic sink.
	Extra []any
	// Kwargs holds named values that match no parameter.
	Kwargs map[string]any
}

// Positional returns Args followed by Extra.
func (c *Call) Positional() []any {
	return append(slices.Clip(c.Args), c.Extra...)
}

// Configure classifies params for the function called name.
//
// Keyword-only parameters come from WithKeywordOnly. When none are given,
// every parameter with a default is keyword-only.
func Configure(name string, params []Param, opts ...Option) (*Binder, error) {
	b := &Binder{
		name:        name,
		params:      slices.Clone(params),
		index:       make(map[string]int, len(params)),
		keywordOnly: make(map[string]bool),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	for i, p := range b.params {
		if p.Name == "" {
			return nil, &ConfigError{Func: name, Reason: "empty parameter name"}
		}
		if _, dup := b.index[p.Name]; dup {
			return nil, &ConfigError{Func: name, Param: p.Name, Reason: "duplicate parameter name"}
		}
		b.index[p.Name] = i
	}

	if len(b.explicit) > 0 {
		for _, n := range b.explicit {
			if _, ok := b.index[n]; !ok {
				return nil, &ConfigError{Func: name, Param: n, Reason: "keyword-only name is not a declared parameter"}
			}
			b.keywordOnly[n] = true
		}
	} else {
		for _, p := range b.params {
			if p.HasDefault {
				b.keywordOnly[p.Name] = true
			}
		}
	}

	sawDefault := false
	for i, p := range b.params {
		if b.keywordOnly[p.Name] {
			continue
		}
		if p.HasDefault {
			sawDefault = true
		} else {
			if sawDefault {
				return nil, &ConfigError{Func: name, Param: p.Name, Reason: "non-default argument follows default argument"}
			}
			b.minPos++
		}
		b.positional = append(b.positional, i)
	}
	b.explicit = nil

	return b, nil
}

// Name returns the function name used in error messages.
func (b *Binder) Name() string {
	return b.name
}

// Params returns a copy of the declared parameters.
func (b *Binder) Params() []Param {
	return slices.Clone(b.params)
}

// KeywordOnly returns the keyword-only parameter names in declaration order.
func (b *Binder) KeywordOnly() []string {
	var names []string
	for _, p := range b.params {
		if b.keywordOnly[p.Name] {
			names = append(names, p.Name)
		}
	}
	return names
}

// IsKeywordOnly reports whether name must be passed by name.
func (b *Binder) IsKeywordOnly(name string) bool {
	return b.keywordOnly[name]
}

// VarArgs reports whether surplus positional values are accepted.
func (b *Binder) VarArgs() bool { return b.varArgs }

// VarKwargs reports whether unknown named values are accepted.
func (b *Binder) VarKwargs() bool { return b.varKwargs }

// Bind validates one call and returns its normalized form.
//
// Missing keyword-only parameters are reported first, then missing
// positional ones; only then are named values checked against the
// positional ones and the declared arity.
func (b *Binder) Bind(args []any, kwargs map[string]any) (*Call, error) {
	covered := func(p Param) bool {
		if p.HasDefault {
			return true
		}
		_, ok := kwargs[p.Name]
		return ok
	}

	var missing []string
	for _, p := range b.params {
		if b.keywordOnly[p.Name] && !covered(p) {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return nil, b.reject(missingArgumentError(b.name, MissingKeywordOnlyArgument, missing))
	}

	for _, p := range b.params {
		if !covered(p) {
			missing = append(missing, p.Name)
		}
	}
	if len(args) < len(missing) {
		return nil, b.reject(missingArgumentError(b.name, MissingPositionalArgument, missing[len(args):]))
	}

	call := &Call{Args: make([]any, len(b.params))}
	bound := make([]bool, len(b.params))

	fromArgs := min(len(args), len(b.positional))
	for i := 0; i < fromArgs; i++ {
		call.Args[b.positional[i]] = args[i]
		bound[b.positional[i]] = true
	}

	// Map order is random; sorting keeps the reported name stable.
	kwGiven := 0
	for _, name := range slices.Sorted(maps.Keys(kwargs)) {
		i, ok := b.index[name]
		if !ok {
			if !b.varKwargs {
				return nil, b.reject(unexpectedKeywordError(b.name, name))
			}
			if call.Kwargs == nil {
				call.Kwargs = make(map[string]any)
			}
			call.Kwargs[name] = kwargs[name]
			continue
		}
		if bound[i] {
			return nil, b.reject(multipleValuesError(b.name, name))
		}
		if b.keywordOnly[name] {
			kwGiven++
		}
		call.Args[i] = kwargs[name]
		bound[i] = true
	}

	if len(args) > len(b.positional) {
		if !b.varArgs {
			return nil, b.reject(tooManyPositionalError(b.name, b.minPos, len(b.positional), len(args), kwGiven))
		}
		call.Extra = slices.Clone(args[len(b.positional):])
	}

	missing = missing[:0]
	for i, p := range b.params {
		if bound[i] {
			continue
		}
		if !p.HasDefault {
			missing = append(missing, p.Name)
			continue
		}
		call.Args[i] = p.Default
	}
	if len(missing) > 0 {
		return nil, b.reject(missingArgumentError(b.name, MissingPositionalArgument, missing))
	}

	return call, nil
}

func (b *Binder) reject(err *ArgumentError) error {
	b.logger.Debug().
		Str("func", err.Func).
		Str("kind", err.Kind.String()).
		Strs("names", err.Names).
		Msg("call rejected")
	return err
}
