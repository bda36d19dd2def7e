package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mailvet/mailvet/cmd/web/config"
	"github.com/mailvet/mailvet/cmd/web/mailhttp"

	"github.com/sirupsen/logrus"
)

func headersToHTTP(conf config.Headers) http.Header {
	headers := http.Header{}
	for name, value := range conf {
		headers.Add(name, value)
	}

	return headers
}

func newLogger(conf config.Config) (*logrus.Logger, error) {
	var err error
	logger := logrus.New()
	logger.Formatter = &logrus.JSONFormatter{}
	logger.Out = os.Stdout
	logger.Level, err = logrus.ParseLevel(conf.Server.Log.Level)

	return logger, err
}

func writeErrorJSONResponse(logger logrus.FieldLogger, w http.ResponseWriter, response *mailhttp.VerifyResponse) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(response)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal response")
		return
	}

	_, err = w.Write(body)
	if err != nil {
		logger.WithError(err).Error("Failed to write response")
	}
}

func deferClose(toClose io.Closer, log logrus.FieldLogger) {
	if toClose == nil {
		return
	}

	err := toClose.Close()
	if err != nil {
		if log == nil {
			fmt.Printf("error failed to close handle %s", err)
			return
		}

		log.WithError(err).Error("Failed to close handle")
	}
}
