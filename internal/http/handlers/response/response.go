package response

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every JSON body the API returns.
type Response struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	Errors  error  `json:"errors,omitempty"`
}

type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

func RenderSuccess(rw http.ResponseWriter, msg string, status int) {
	Render(rw, Response{Success: true, Msg: msg}, status)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	Render(rw, Response{Success: false, Msg: msg}, status)
}

// RenderInvalidInput renders field errors produced by ozzo-validation next to
// a human readable message.
func RenderInvalidInput(rw http.ResponseWriter, msg string, errs error) {
	Render(rw, Response{Success: false, Msg: msg, Errors: errs}, http.StatusBadRequest)
}

func RenderInvalidRequestData(rw http.ResponseWriter) {
	RenderError(rw, "invalid request data", http.StatusBadRequest)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
