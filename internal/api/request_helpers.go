package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/catalog/internal/api/shared"
)

// getPathUUID parses the UUID path parameter paramName.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", ErrInvalidID, paramName)
	}
	return id, nil
}

// getDeleteVersion reads the expected version of a delete from the
// "version" query parameter, falling back to a DeleteProductRequest body.
func getDeleteVersion(r *http.Request) (int64, error) {
	if raw := r.URL.Query().Get("version"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 1 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
		}
		return v, nil
	}

	var req DeleteProductRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: version is required", ErrInvalidVersion)
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := shared.ValidateRequest(&req); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidVersion, err)
	}
	return req.Version, nil
}
