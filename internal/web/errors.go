package web

// errors.go renders failures for the three kinds of client: JSON API
// callers, HTMX fragments, and plain browsers. The technical error is
// logged with the request id; the client only sees the mapped message.

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/explorer/internal/core"
	"github.com/JonMunkholm/explorer/internal/logging"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user message with the status
// derived from its code.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	status := statusFor(msg.Code)

	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	switch {
	case isHTMX(r):
		renderErrorFragment(r.Context(), w, msg, status)
	case wantsJSON(r):
		writeJSONStatus(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	default:
		http.Error(w, core.FormatUserError(err), status)
	}
}

func statusFor(code string) int {
	switch code {
	case "DS002", "DS004":
		return http.StatusNotFound
	case "DS001", "DS003", "REQ001", "FILE002", "FILE003", "FILE004", "FILE005":
		return http.StatusBadRequest
	case "FILE001":
		return http.StatusRequestEntityTooLarge
	case "UPL001", "DB001":
		return http.StatusServiceUnavailable
	case "UPL003", "DB004":
		return http.StatusGatewayTimeout
	case "RATE001":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// errorAlert is the HTMX swap target for a failed request.
func errorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="error-alert" role="alert"><p class="error-message">`)
		b.WriteString(templ.EscapeString(msg.Message))
		b.WriteString(`</p>`)
		if msg.Action != "" {
			b.WriteString(`<p class="error-action">`)
			b.WriteString(templ.EscapeString(msg.Action))
			b.WriteString(`</p>`)
		}
		b.WriteString(`<p class="error-code">Code: `)
		b.WriteString(templ.EscapeString(msg.Code))
		b.WriteString(`</p></div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func renderErrorFragment(ctx context.Context, w http.ResponseWriter, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := errorAlert(msg).Render(ctx, w); err != nil {
		slog.Error("render error fragment", "error", err)
	}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
