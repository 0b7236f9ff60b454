package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/constants"

	"github.com/go-chi/chi/v5"
)

// backendParam resolves the {db} path segment. Unknown tags get a 422 and
// ok == false.
func backendParam(w http.ResponseWriter, r *http.Request, initTime time.Time) (constants.BackendKind, bool) {
	tag := chi.URLParam(r, "db")
	kind, ok := constants.ParseBackend(tag)
	if !ok {
		common.RespondError(w, initTime, fmt.Errorf("%s: %q", constants.MsgUnknownBackend, tag), "", http.StatusUnprocessableEntity)
		return constants.BackendUnknown, false
	}
	return kind, true
}

// idParam parses a positive integer path parameter.
func idParam(w http.ResponseWriter, r *http.Request, initTime time.Time, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		common.RespondError(w, initTime, nil, fmt.Sprintf("%s: %q", constants.MsgInvalidID, raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// optionalIDQuery parses an optional integer query parameter. Absent or
// empty yields nil.
func optionalIDQuery(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %s must be an integer", constants.MsgInvalidQuery, name)
	}
	return &v, nil
}

// decodeBody reads a JSON body into dst and runs its validate tags. Any
// failure has already been answered with a 400 when ok is false.
func decodeBody(w http.ResponseWriter, r *http.Request, initTime time.Time, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		msg := constants.MsgInvalidBody
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			msg = fmt.Sprintf("%s: %v", constants.MsgInvalidBody, err)
		}
		common.RespondError(w, initTime, nil, msg, http.StatusBadRequest)
		return false
	}

	if err := common.ValidateStruct(dst); err != nil {
		common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
		return false
	}
	return true
}
