package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/application"
	"github.com/tdex-network/token-launcher/pkg/near"
)

type errorResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	E       json.RawMessage `json:"e,omitempty"`
	Intent  string          `json:"intent,omitempty"`
}

type response map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write response body")
	}
}

// writeSuccess writes the given fields along with success:true.
func writeSuccess(w http.ResponseWriter, fields response) {
	if fields == nil {
		fields = response{}
	}
	fields["success"] = true
	writeJSON(w, http.StatusOK, fields)
}

func writeResult(w http.ResponseWriter, result interface{}) {
	writeSuccess(w, response{"result": result})
}

// writeError maps a service error to a 403 response. Ledger rejections are
// reported verbatim under "e", the intent of an interrupted workflow under
// "intent".
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var txErr *near.TxError
	if errors.As(err, &txErr) {
		resp.E = txErr.Raw
	}
	var wfErr *application.WorkflowError
	if errors.As(err, &wfErr) {
		resp.Intent = wfErr.Intent.ID
	}

	log.WithError(err).Debug("request failed")
	writeJSON(w, http.StatusForbidden, resp)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
}
