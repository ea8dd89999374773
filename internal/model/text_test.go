package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Text
	}{
		{name: "string verbatim", raw: `"  Hello <b>world</b>  "`, want: "  Hello <b>world</b>  "},
		{name: "empty string", raw: `""`, want: ""},
		{name: "null", raw: `null`, want: ""},
		{name: "false", raw: `false`, want: ""},
		{name: "true", raw: `true`, want: "true"},
		{name: "zero", raw: `0`, want: ""},
		{name: "float zero", raw: `0.0`, want: ""},
		{name: "number", raw: `42`, want: "42"},
		{name: "empty array", raw: `[]`, want: ""},
		{name: "empty array with spaces", raw: `[ ]`, want: ""},
		{name: "empty object", raw: `{}`, want: ""},
		{name: "array", raw: `[1, "a"]`, want: `[1,"a"]`},
		{name: "object", raw: `{"a": 1}`, want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got Text
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSubmission_Validate(t *testing.T) {
	t.Parallel()

	t.Run("complete submission is valid", func(t *testing.T) {
		t.Parallel()

		sub := &Submission{Name: "Ann", Email: "a@x.io", Subject: "Hi", Message: "Hello"}
		require.NoError(t, sub.Validate())
	})

	t.Run("whitespace counts as present", func(t *testing.T) {
		t.Parallel()

		sub := &Submission{Name: " ", Email: " ", Subject: " ", Message: " "}
		require.NoError(t, sub.Validate())
	})

	t.Run("missing field is rejected", func(t *testing.T) {
		t.Parallel()

		sub := &Submission{Name: "Ann", Email: "a@x.io", Subject: "Hi"}
		require.Error(t, sub.Validate())
	})

	t.Run("decoded falsy values are rejected", func(t *testing.T) {
		t.Parallel()

		var sub Submission
		raw := `{"name": null, "email": false, "subject": 0, "message": []}`
		require.NoError(t, json.Unmarshal([]byte(raw), &sub))
		require.Error(t, sub.Validate())
	})
}
