package main

import (
	"encoding/json"
	"net/http"

	"github.com/mailvet/mailvet/cmd/web/mailhttp"
	"github.com/mailvet/mailvet/cmd/web/mailhttp/handlers"
	"github.com/mailvet/mailvet/cmd/web/services"

	"github.com/sirupsen/logrus"
)

const (
	failedRequestError  = "Request failed, unable to parse request body. Expected JSON."
	failedResponseError = "Generating response failed."
)

// NewVerifyHandler constructs the handler behind the verify endpoint. It
// accepts a POST with a JSON body, or a GET with an "email" query parameter.
func NewVerifyHandler(logger logrus.FieldLogger, svc *services.VerifySvc, maxBodySize int64) http.HandlerFunc {

	logger = logger.WithField("handler", "verify")
	return func(w http.ResponseWriter, r *http.Request) {

		logger := logger.WithField(handlers.RequestID.String(), r.Context().Value(handlers.RequestID))

		defer deferClose(r.Body, logger)

		email, err := emailFromRequest(r, maxBodySize)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"error":          err,
				"content_length": r.ContentLength,
			}).Errorf("Error handling request %s", err)

			w.WriteHeader(http.StatusBadRequest)

			// err is expected to be safe to expose to the client
			writeErrorJSONResponse(logger, w, &mailhttp.VerifyResponse{Error: err.Error()})
			return
		}

		result := svc.HandleVerifyRequest(r.Context(), email, true)

		response, err := json.Marshal(mailhttp.VerifyResponse{
			Email:       result.Email,
			Valid:       result.Valid,
			Checks:      result.Checks,
			Reason:      result.Reason,
			Alternative: result.Alternative,
		})

		if err != nil {
			logger.WithFields(logrus.Fields{
				"response": response,
				"error":    err,
			}).Error("Failed to marshal the response")

			w.WriteHeader(http.StatusInternalServerError)
			writeErrorJSONResponse(logger, w, &mailhttp.VerifyResponse{Error: failedResponseError})
			return
		}

		logger.WithFields(logrus.Fields{
			"email":  email,
			"valid":  result.Valid,
			"reason": result.Reason,
		}).Debugf("Done performing verification")

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(response)
	}
}

// emailFromRequest extracts the address to verify from either the query
// string or the JSON request body, depending on the method used.
func emailFromRequest(r *http.Request, maxBodySize int64) (string, error) {
	if r.Method == http.MethodGet {
		email := r.URL.Query().Get("email")
		if email == "" {
			return "", mailhttp.ErrMissingEmailParameter
		}

		return email, nil
	}

	body, err := mailhttp.GetBodyFromHTTPRequest(r, maxBodySize)
	if err != nil {
		return "", err
	}

	var req mailhttp.VerifyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", mailhttp.ErrInvalidRequest
	}

	if req.Email == "" {
		return "", mailhttp.ErrMissingEmailParameter
	}

	return req.Email, nil
}

// NewIndexHandler serves a small welcome banner on the root path.
func NewIndexHandler(logger logrus.FieldLogger) http.HandlerFunc {

	logger = logger.WithField("handler", "index")
	return func(w http.ResponseWriter, r *http.Request) {

		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		response, err := json.Marshal(mailhttp.IndexResponse{
			Message: "Welcome to the Email Verifier API!",
			Usage:   "POST /verify with a JSON body, or GET /verify?email=you@example.org",
		})

		if err != nil {
			logger.WithError(err).Error("Failed to marshal the banner")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(response)
	}
}

func NewHealthHandler(logger logrus.FieldLogger) http.HandlerFunc {

	logger = logger.WithField("handler", "health")
	return func(w http.ResponseWriter, r *http.Request) {

		logger := logger.WithField(handlers.RequestID.String(), r.Context().Value(handlers.RequestID))

		w.Header().Set("content-type", "text/plain")
		w.WriteHeader(http.StatusOK)

		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.WithError(err).Error("failed to write in health handler")
		}
	}
}
