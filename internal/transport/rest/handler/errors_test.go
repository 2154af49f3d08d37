package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"formforge/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePipelineError(t *testing.T) {
	cases := []struct {
		kind   pipeline.ErrorKind
		status int
	}{
		{pipeline.KindParseError, http.StatusUnprocessableEntity},
		{pipeline.KindInvalidResponse, http.StatusUnprocessableEntity},
		{pipeline.KindInvalidQuestion, http.StatusUnprocessableEntity},
		{pipeline.KindInvalidOptions, http.StatusUnprocessableEntity},
		{pipeline.KindNotImplemented, http.StatusBadRequest},
		{pipeline.KindConversionInput, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			err := &pipeline.Error{Kind: tc.kind, Message: "raw parser detail", QuestionIndex: -1}

			rec := httptest.NewRecorder()
			handled := writePipelineError(rec, err)
			require.True(t, handled)
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tc.kind), body["code"])
			// Internal diagnostics never reach the client.
			assert.NotContains(t, body["error"], "raw parser detail")
		})
	}

	t.Run("foreign errors are not handled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		assert.False(t, writePipelineError(rec, errors.New("database down")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("wrapped pipeline errors are recognized", func(t *testing.T) {
		wrapped := &wrapErr{inner: &pipeline.Error{Kind: pipeline.KindParseError, QuestionIndex: -1}}
		rec := httptest.NewRecorder()
		assert.True(t, writePipelineError(rec, wrapped))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

type wrapErr struct{ inner error }

func (w *wrapErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w *wrapErr) Unwrap() error { return w.inner }
