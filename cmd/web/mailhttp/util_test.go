package mailhttp

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetBodyFromHTTPRequest(t *testing.T) {
	const maxBodySize = 1 << 10

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
	}{
		{name: "valid", body: `{"email":"john@example.org"}`, contentType: "application/json"},
		{name: "wrong content type", body: `{}`, contentType: "text/plain", wantErr: ErrUnsupportedContentType},
		{name: "abusive content type", body: `{}`, contentType: strings.Repeat("x", 200), wantErr: ErrUnsupportedContentType},
		{name: "body too large", body: strings.Repeat("a", maxBodySize+1), contentType: "application/json", wantErr: ErrBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/verify", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", tt.contentType)

			b, err := GetBodyFromHTTPRequest(r, maxBodySize)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetBodyFromHTTPRequest() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetBodyFromHTTPRequest() error = %v", err)
			}

			if string(b) != tt.body {
				t.Errorf("GetBodyFromHTTPRequest() = %q, want %q", b, tt.body)
			}
		})
	}
}
