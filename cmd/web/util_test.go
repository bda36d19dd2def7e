package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mailvet/mailvet/cmd/web/mailhttp"

	testLog "github.com/sirupsen/logrus/hooks/test"
)

func Test_writeErrorJSONResponse(t *testing.T) {
	t.Run("unable to write", func(t *testing.T) {
		logger, hook := testLog.NewNullLogger()
		writer := &brokenResponseWriter{ResponseWriter: httptest.NewRecorder()}
		writer.writeErr = fmt.Errorf("boop")
		writeErrorJSONResponse(logger, writer, &mailhttp.VerifyResponse{})

		if hook.LastEntry().Message != "Failed to write response" {
			t.Errorf("Expected an error log")
		}
	})

	t.Run("error is serialized", func(t *testing.T) {
		logger, _ := testLog.NewNullLogger()
		recorder := httptest.NewRecorder()
		writeErrorJSONResponse(logger, recorder, &mailhttp.VerifyResponse{Error: "boop"})

		if got := recorder.Body.String(); got == "" || recorder.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected a JSON body, got %q", got)
		}
	})
}

type brokenResponseWriter struct {
	http.ResponseWriter
	writeErr error
}

func (b *brokenResponseWriter) Write(bytes []byte) (int, error) {
	if b.writeErr == nil {
		return b.ResponseWriter.Write(bytes)
	}

	return len(bytes), b.writeErr
}
