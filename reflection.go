package kwonly

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Target receives a bound call. It is the function being decorated.
type Target func(ctx context.Context, call *Call) ([]any, error)

// Func is a decorated function: a Binder in front of a Target.
type Func struct {
	binder *Binder
	target Target
}

// Decorate puts a Binder configured from params and opts in front of target.
func Decorate(name string, params []Param, target Target, opts ...Option) (*Func, error) {
	if target == nil {
		return nil, &ConfigError{Func: name, Reason: "nil target"}
	}
	b, err := Configure(name, params, opts...)
	if err != nil {
		return nil, err
	}
	return &Func{binder: b, target: target}, nil
}

// Name returns the name of the wrapped function.
func (f *Func) Name() string {
	return f.binder.name
}

// Binder returns the binder that validates calls to f.
func (f *Func) Binder() *Binder {
	return f.binder
}

// Call binds args and kwargs and invokes the wrapped function.
// Binding failures are returned as *ArgumentError without invoking it,
// as are values Wrap cannot convert to the Go parameter types.
func (f *Func) Call(ctx context.Context, args []any, kwargs map[string]any) ([]any, error) {
	call, err := f.binder.Bind(args, kwargs)
	if err != nil {
		return nil, err
	}
	return f.target(ctx, call)
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	kwargsType  = reflect.TypeOf(map[string]any(nil))
)

// Wrap decorates a Go function. params names its parameters in order.
//
// The function may take a context.Context first. After the declared
// parameters it may take a map[string]any, which receives unknown named
// values, and it may be variadic, in which case the variadic parameter
// receives surplus positional values. Its last return value must be error.
//
// Values are converted to the Go parameter types when forwarded, so
// decoded JSON (float64 numbers, numeric strings) can reach typed params.
func Wrap(fn any, params []Param, opts ...Option) (*Func, error) {
	val := reflect.ValueOf(fn)
	if val.Kind() != reflect.Func {
		return nil, &ConfigError{Func: fmt.Sprintf("%T", fn), Reason: "expected a function"}
	}
	typ := val.Type()
	name := funcName(val)

	if typ.NumOut() == 0 || typ.Out(typ.NumOut()-1) != errorType {
		return nil, &ConfigError{Func: name, Reason: "last return value must be error"}
	}

	w := &reflectTarget{fn: val, name: name}
	first, last := 0, typ.NumIn()
	if last > 0 && typ.In(0) == contextType {
		w.withCtx = true
		first = 1
	}
	if typ.IsVariadic() {
		w.variadic = true
		last--
		opts = append(opts[:len(opts):len(opts)], WithVarArgs())
	}
	if last-first == len(params)+1 && typ.In(last-1) == kwargsType {
		w.withKwargs = true
		last--
		opts = append(opts[:len(opts):len(opts)], WithVarKwargs())
	}
	if last-first != len(params) {
		return nil, &ConfigError{Func: name, Reason: fmt.Sprintf("%d parameters declared for %d function arguments", len(params), last-first)}
	}
	for i := first; i < last; i++ {
		w.in = append(w.in, typ.In(i))
	}

	b, err := Configure(name, params, opts...)
	if err != nil {
		return nil, err
	}
	w.params = b.params
	return &Func{binder: b, target: w.call}, nil
}

type reflectTarget struct {
	fn         reflect.Value
	name       string
	in         []reflect.Type
	params     []Param
	withCtx    bool
	withKwargs bool
	variadic   bool
}

func (w *reflectTarget) call(ctx context.Context, call *Call) ([]any, error) {
	typ := w.fn.Type()
	in := make([]reflect.Value, 0, typ.NumIn()+len(call.Extra))

	if w.withCtx {
		if ctx == nil {
			ctx = context.Background()
		}
		in = append(in, reflect.ValueOf(ctx))
	}
	for i, v := range call.Args {
		rv, err := convertValue(v, w.in[i])
		if err != nil {
			name := w.params[i].Name
			return nil, invalidValueError(w.name, fmt.Sprintf("argument '%s'", name), []string{name}, err)
		}
		in = append(in, rv)
	}
	if w.withKwargs {
		kws := call.Kwargs
		if kws == nil {
			kws = map[string]any{}
		}
		in = append(in, reflect.ValueOf(kws))
	}
	if w.variadic {
		elem := typ.In(typ.NumIn() - 1).Elem()
		for i, v := range call.Extra {
			rv, err := convertValue(v, elem)
			if err != nil {
				return nil, invalidValueError(w.name, fmt.Sprintf("variadic argument %d", i), nil, err)
			}
			in = append(in, rv)
		}
	}

	out := w.fn.Call(in)

	if errVal := out[len(out)-1]; !errVal.IsNil() {
		return nil, errVal.Interface().(error)
	}

	var results []any
	for i := 0; i < len(out)-1; i++ {
		results = append(results, out[i].Interface())
	}
	return results, nil
}

// funcName extracts the simple name of a function value,
// e.g. "main.Add" -> "Add" and "main.(*T).Method-fm" -> "Method".
func funcName(val reflect.Value) string {
	fn := runtime.FuncForPC(val.Pointer())
	if fn == nil {
		return "func"
	}
	parts := strings.Split(fn.Name(), ".")
	return strings.TrimSuffix(parts[len(parts)-1], "-fm")
}

// convertValue converts v to targetType.
func convertValue(v any, targetType reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(targetType), nil
	}
	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(targetType) {
		return val, nil
	}

	switch targetType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if err := checkIntegral(v); err != nil {
			return reflect.Value{}, err
		}
		n, err := cast.ToInt64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(targetType).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, errors.Errorf("%d overflows %v", n, targetType)
		}
		out.SetInt(n)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if err := checkIntegral(v); err != nil {
			return reflect.Value{}, err
		}
		n, err := cast.ToUint64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(targetType).Elem()
		if out.OverflowUint(n) {
			return reflect.Value{}, errors.Errorf("%d overflows %v", n, targetType)
		}
		out.SetUint(n)
		return out, nil
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(targetType), nil
	case reflect.Bool:
		bv, err := cast.ToBoolE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(bv).Convert(targetType), nil
	case reflect.String:
		s, err := cast.ToStringE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s).Convert(targetType), nil
	case reflect.Slice:
		// JSON arrays decode as []any.
		if val.Kind() == reflect.Slice {
			out := reflect.MakeSlice(targetType, val.Len(), val.Len())
			for i := 0; i < val.Len(); i++ {
				ev, err := convertValue(val.Index(i).Interface(), targetType.Elem())
				if err != nil {
					return reflect.Value{}, errors.Wrapf(err, "element %d", i)
				}
				out.Index(i).Set(ev)
			}
			return out, nil
		}
	}

	if val.Type().ConvertibleTo(targetType) {
		return val.Convert(targetType), nil
	}
	return reflect.Value{}, errors.Errorf("cannot convert %v to %v", val.Type(), targetType)
}

// checkIntegral rejects floats with a fractional part or no finite value.
// cast truncates them silently.
func checkIntegral(v any) error {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return nil
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return errors.Errorf("%v is not an integer", v)
	}
	return nil
}
