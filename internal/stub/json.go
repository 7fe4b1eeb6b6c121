package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// envelope is the uniform response wrapper every stub endpoint emits. The
// client refuses bodies without the data key, so even empty collections go
// out wrapped.
type envelope struct {
	Data any `json:"data"`
}

// writeData writes an enveloped JSON response. Encoding happens into a
// buffer first so a marshal failure never produces a half-written body.
func writeData(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(envelope{Data: data}); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		// Client went away mid-response; nothing left to salvage.
		return
	}
}

// errorParams groups the pieces of a JSON error response.
type errorParams struct {
	status int
	code   string
	err    error
}

// writeError writes the {"error": code, "message": detail} body the real
// backend uses for failures.
func writeError(w http.ResponseWriter, p errorParams) {
	var buf bytes.Buffer
	body := map[string]string{"error": p.code, "message": p.err.Error()}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.status)
	if _, err := buf.WriteTo(w); err != nil {
		return
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields so
// payload typos surface during development instead of silently dropping.
// Returns false after writing the error response.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, errorParams{status: http.StatusBadRequest, code: "invalid_json", err: err})
		return false
	}

	return true
}
