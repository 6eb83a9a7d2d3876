package shared

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Version int64  `json:"version" validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		errContains string
	}{
		{name: "valid json", body: `{"name":"widget","version":3}`},
		{name: "trailing comma", body: `{"name":"widget",}`, errContains: "invalid character"},
		{name: "empty body", body: "", errContains: "EOF"},
		{name: "unknown field", body: `{"name":"widget","price":3}`, errContains: "unknown field"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tc.body))

			var got createRequest
			err := DecodeJSON(req, &got)

			if tc.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, createRequest{Name: "widget", Version: 3}, got)
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/products", errorReader{})

	var target createRequest
	err := DecodeJSON(req, &target)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))

	var target createRequest
	err := DecodeJSON(req, &target)

	var tooLarge *http.MaxBytesError
	assert.ErrorAs(t, err, &tooLarge)
}

type selfValidating struct {
	Name string
}

func (s *selfValidating) Validate() error {
	if s.Name == "invalid" {
		return errors.New("name is invalid")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{name: "tagged struct valid", req: &createRequest{Name: "widget"}},
		{name: "tagged struct missing name", req: &createRequest{}, wantErr: true},
		{name: "tagged struct negative version", req: &createRequest{Name: "widget", Version: -1}, wantErr: true},
		{name: "custom validator valid", req: &selfValidating{Name: "ok"}},
		{name: "custom validator invalid", req: &selfValidating{Name: "invalid"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
