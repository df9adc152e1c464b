package kwonly

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies a rejected call.
type ErrorKind int

const (
	// MissingKeywordOnlyArgument: a keyword-only parameter has neither a
	// named value nor a default.
	MissingKeywordOnlyArgument ErrorKind = iota + 1
	// MissingPositionalArgument: too few positional values to cover the
	// parameters not satisfied by name or default.
	MissingPositionalArgument
	// MultipleValuesForArgument: a parameter received a positional and a named value.
	MultipleValuesForArgument
	// UnexpectedKeywordArgument: a named value matches no parameter and
	// the function has no named sink.
	UnexpectedKeywordArgument
	// TooManyPositionalArguments: surplus positional values and no variadic sink.
	TooManyPositionalArguments
	// InvalidArgumentValue: a bound value cannot be converted to the Go
	// type of the parameter it was bound to.
	InvalidArgumentValue
)

func (k ErrorKind) String() string {
	switch k {
	case MissingKeywordOnlyArgument:
		return "missing_keyword_only_argument"
	case MissingPositionalArgument:
		return "missing_positional_argument"
	case MultipleValuesForArgument:
		return "multiple_values_for_argument"
	case UnexpectedKeywordArgument:
		return "unexpected_keyword_argument"
	case TooManyPositionalArguments:
		return "too_many_positional_arguments"
	case InvalidArgumentValue:
		return "invalid_argument_value"
	default:
		return "unknown"
	}
}

// ArgumentError reports a call whose arguments cannot be bound.
// Names lists the offending parameter names in declaration order.
type ArgumentError struct {
	Func  string
	Kind  ErrorKind
	Names []string

	msg   string
	cause error
}

func (e *ArgumentError) Error() string {
	return e.msg
}

// Unwrap returns the conversion failure behind an InvalidArgumentValue error.
func (e *ArgumentError) Unwrap() error {
	return e.cause
}

// Is matches ErrArgument and the per-kind sentinels.
func (e *ArgumentError) Is(target error) bool {
	if target == ErrArgument {
		return true
	}
	t, ok := target.(*ArgumentError)
	return ok && t.msg == "" && t.Kind == e.Kind
}

var (
	// ErrArgument matches every *ArgumentError.
	ErrArgument = errors.New("kwonly: invalid call arguments")

	// Per-kind sentinels for errors.Is.
	ErrMissingKeywordOnly = &ArgumentError{Kind: MissingKeywordOnlyArgument}
	ErrMissingPositional  = &ArgumentError{Kind: MissingPositionalArgument}
	ErrMultipleValues     = &ArgumentError{Kind: MultipleValuesForArgument}
	ErrUnexpectedKeyword  = &ArgumentError{Kind: UnexpectedKeywordArgument}
	ErrTooManyPositional  = &ArgumentError{Kind: TooManyPositionalArguments}
	ErrInvalidValue       = &ArgumentError{Kind: InvalidArgumentValue}
)

// ConfigError reports an invalid parameter declaration.
type ConfigError struct {
	Func   string
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("kwonly: %s(): %s", e.Func, e.Reason)
	}
	return fmt.Sprintf("kwonly: %s(): parameter '%s': %s", e.Func, e.Param, e.Reason)
}

func missingArgumentError(fn string, kind ErrorKind, names []string) *ArgumentError {
	label := "positional"
	if kind == MissingKeywordOnlyArgument {
		label = "keyword-only"
	}
	return &ArgumentError{
		Func:  fn,
		Kind:  kind,
		Names: names,
		msg: fmt.Sprintf("%s() missing %d required %s argument%s: %s",
			fn, len(names), label, plural(len(names)), joinNames(names)),
	}
}

func multipleValuesError(fn, name string) *ArgumentError {
	return &ArgumentError{
		Func:  fn,
		Kind:  MultipleValuesForArgument,
		Names: []string{name},
		msg:   fmt.Sprintf("%s() got multiple values for argument '%s'", fn, name),
	}
}

func unexpectedKeywordError(fn, name string) *ArgumentError {
	return &ArgumentError{
		Func:  fn,
		Kind:  UnexpectedKeywordArgument,
		Names: []string{name},
		msg:   fmt.Sprintf("%s() got an unexpected keyword argument '%s'", fn, name),
	}
}

// invalidValueError reports a value that cannot be forwarded. what names
// the slot, e.g. "argument 'x'" or "variadic argument 0".
func invalidValueError(fn, what string, names []string, cause error) *ArgumentError {
	return &ArgumentError{
		Func:  fn,
		Kind:  InvalidArgumentValue,
		Names: names,
		msg:   fmt.Sprintf("%s() %s: %v", fn, what, cause),
		cause: cause,
	}
}

// tooManyPositionalError renders the arity message for a function taking
// between min and max positional values, of which given were supplied
// alongside kwGiven named keyword-only values.
func tooManyPositionalError(fn string, min, max, given, kwGiven int) *ArgumentError {
	var sig string
	if min == max {
		sig = fmt.Sprintf("%d positional argument%s", max, plural(max))
	} else {
		sig = fmt.Sprintf("from %d to %d positional arguments", min, max)
	}
	var kwSig string
	if kwGiven > 0 {
		kwSig = fmt.Sprintf(" positional argument%s (and %d keyword-only argument%s)",
			plural(given), kwGiven, plural(kwGiven))
	}
	verb := "were"
	if given == 1 && kwGiven == 0 {
		verb = "was"
	}
	return &ArgumentError{
		Func: fn,
		Kind: TooManyPositionalArguments,
		msg:  fmt.Sprintf("%s() takes %s but %d%s %s given", fn, sig, given, kwSig, verb),
	}
}

// joinNames quotes names and joins them as 'a', 'b' and 'c'.
func joinNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	switch len(quoted) {
	case 0:
		return ""
	case 1:
		return quoted[0]
	default:
		return strings.Join(quoted[:len(quoted)-1], ", ") + " and " + quoted[len(quoted)-1]
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
