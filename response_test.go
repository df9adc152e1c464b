package kwonly

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestBuildSuccessResponse(t *testing.T) {
	tests := []struct {
		name    string
		results []any
		want    map[string]any
	}{
		{
			name:    "single return value",
			results: []any{10},
			want:    map[string]any{"result": 10},
		},
		{
			name:    "multiple return values",
			results: []any{10, "hello"},
			want:    map[string]any{"result0": 10, "result1": "hello"},
		},
		{
			name:    "no return values (empty slice)",
			results: []any{},
			want:    map[string]any{},
		},
		{
			name:    "nil results",
			results: nil,
			want:    map[string]any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSuccessResponse(tt.results)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildErrorResponse(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want map[string]any
	}{
		{
			name: "simple error message",
			msg:  "something went wrong",
			want: map[string]any{"error": "something went wrong"},
		},
		{
			name: "empty message",
			msg:  "",
			want: map[string]any{"error": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildErrorResponse(tt.msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildCallErrorResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]any
	}{
		{
			name: "missing keyword-only argument",
			err:  missingArgumentError("f", MissingKeywordOnlyArgument, []string{"c"}),
			want: map[string]any{
				"error": "f() missing 1 required keyword-only argument: 'c'",
				"kind":  "missing_keyword_only_argument",
				"names": []string{"c"},
			},
		},
		{
			name: "too many positional has no names",
			err:  tooManyPositionalError("f", 1, 1, 2, 0),
			want: map[string]any{
				"error": "f() takes 1 positional argument but 2 were given",
				"kind":  "too_many_positional_arguments",
			},
		},
		{
			name: "function error",
			err:  errors.New("boom"),
			want: map[string]any{"error": "boom"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildCallErrorResponse(tt.err))
		})
	}
}
