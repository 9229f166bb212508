package handler

import (
	"encoding/json"
	"net/http"

	"quiz_week/internal/common"
)

// decodeJSON reads the request body into dst. On a malformed body it
// writes the 400 itself and returns false, so handlers can bail with a
// bare return.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}
