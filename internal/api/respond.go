package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/viyakaptan/internal/errs"
)

type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorBody struct {
	Error wireError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

// writeErr maps err onto the wire.  Internal errors are logged and their
// text is not sent.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.Status(err)
	body := wireError{Code: errs.Code(err), Message: errs.Message(err)}

	var e *errs.Error
	if errors.As(err, &e) {
		body.Field = e.Field
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("api handler", zap.String("path", r.URL.Path), zap.Error(err))
		body.Message = "Sunucu hatası"
	}
	writeJSON(w, status, errorBody{Error: body})
}

func writeStatus(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: wireError{Code: code, Message: msg}})
}

// decodeBody reads one JSON value from a size-limited body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return errs.PayloadTooLarge(fmt.Sprintf("istek gövdesi %d baytı aşıyor", tooBig.Limit))
		}
		return errs.Validation("", "geçersiz JSON: "+err.Error())
	}
	return nil
}
