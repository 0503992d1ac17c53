package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
)

// errorEnvelope mirrors the failure body written by httputil.WriteError.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   *struct {
		Code      string            `json:"code"`
		Fields    map[string]string `json:"fields"`
		RequestID string            `json:"requestId"`
	} `json:"error"`
}

// ParseResponseError reads a non-2xx response and turns it into an
// *apperrors.AppError carrying the server's status, code and message.
// Bodies that are not an error envelope produce a plain error.
// The body is consumed and closed.
func ParseResponseError(resp *http.Response, source string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (read body: %w)", source, resp.StatusCode, err)
	}

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && !env.Success && env.Message != "" {
		code := ""
		if env.Error != nil {
			code = env.Error.Code
		}
		return apperrors.FromStatus(resp.StatusCode, code, env.Message)
	}

	return fmt.Errorf("%s returned status %d: %s", source, resp.StatusCode, string(body))
}

// IsClientError reports whether status is a 4xx code.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
