package shared

import (
	"encoding/json"
	"io"
	"net/http"
)

// maxRequestBody caps decoded request bodies. Note content is the largest
// payload this API accepts and 1 MiB is far beyond any reasonable note.
const maxRequestBody = 1 << 20

// DecodeJSON decodes the request body into v, refusing bodies over
// maxRequestBody bytes.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
}
