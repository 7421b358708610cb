package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies read by ParseJSONBody
const MaxBodyBytes = 1 << 20

// DataResponse is the success envelope
type DataResponse struct {
	Data interface{} `json:"data"`
}

// RespondJSON sends data wrapped in the success envelope
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// ParseJSONBody decodes a JSON request body with a size limit. An empty
// body decodes as the zero value so field validation reports what is missing.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
