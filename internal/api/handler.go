// Package api serves generation requests arriving through API Gateway.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/kda-constructs/generator/internal/config"
	"github.com/kda-constructs/generator/internal/generator"
	"github.com/kda-constructs/generator/internal/result"
)

// Request is the generation request carried in the proxy body.
type Request struct {
	Kind    generator.Kind  `json:"kind"`
	Config  json.RawMessage `json:"config"`
	Formats []string        `json:"formats,omitempty"`
}

// Response is returned to the client as the proxy body.
type Response struct {
	Success  bool              `json:"success"`
	Errors   []result.Error    `json:"errors,omitempty"`
	Warnings []result.Warning  `json:"warnings,omitempty"`
	Files    map[string]string `json:"files,omitempty"` // filename -> content (base64)
}

// Handler serves generation requests behind an API Gateway proxy integration.
type Handler struct {
	opts   generator.Options
	logger *slog.Logger
}

// NewHandler returns a handler rendering with opts; a request may override opts.Formats.
func NewHandler(opts generator.Options, logger *slog.Logger) *Handler {
	opts.Logger = logger
	return &Handler{opts: opts, logger: logger}
}

// HandleRequest renders the requested kind and returns the files base64
// encoded. A failed result is a 422 carrying the result errors; malformed
// requests are a 400.
func (h *Handler) HandleRequest(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		dec, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return h.reject(ctx, http.StatusBadRequest, "invalid_input", "invalid base64 body: "+err.Error()), nil
		}
		body = dec
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return h.reject(ctx, http.StatusBadRequest, "invalid_json", "invalid request JSON: "+err.Error()), nil
	}
	if len(req.Config) == 0 {
		return h.reject(ctx, http.StatusBadRequest, "invalid_input", "config is required"), nil
	}

	opts := h.opts
	if len(req.Formats) > 0 {
		formats, err := generator.ParseFormats(req.Formats)
		if err != nil {
			return h.reject(ctx, http.StatusBadRequest, "invalid_input", err.Error()), nil
		}
		opts.Formats = formats
	}
	gen := generator.New(opts)

	var res *result.GenerateResult
	var err error
	switch req.Kind {
	case generator.KindMonitoring:
		var cfg config.MonitoringConfig
		if err := config.Decode(req.Config, ".json", &cfg); err != nil {
			return h.reject(ctx, http.StatusBadRequest, "invalid_json", "invalid monitoring config: "+err.Error()), nil
		}
		res, err = gen.Monitoring(ctx, &cfg)
	case generator.KindStudio:
		var cfg config.StudioConfig
		if err := config.Decode(req.Config, ".json", &cfg); err != nil {
			return h.reject(ctx, http.StatusBadRequest, "invalid_json", "invalid studio config: "+err.Error()), nil
		}
		res, err = gen.Studio(ctx, &cfg)
	default:
		return h.reject(ctx, http.StatusBadRequest, "invalid_input", `kind must be "monitoring" or "studio"`), nil
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "cannot generate resources",
			slog.String("kind", string(req.Kind)),
			slog.String("error", err.Error()),
		)
		return h.reject(ctx, http.StatusInternalServerError, result.TypeGeneration, err.Error()), nil
	}

	out := Response{Success: res.Success, Errors: res.Errors, Warnings: res.Warnings}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	} else if len(res.Files) > 0 {
		out.Files = make(map[string]string, len(res.Files))
		for name, content := range res.Files {
			out.Files[name] = base64.StdEncoding.EncodeToString(content)
		}
	}
	return wrap(status, out), nil
}

func (h *Handler) reject(ctx context.Context, status int, errType, message string) events.APIGatewayProxyResponse {
	h.logger.WarnContext(ctx, "rejected request",
		slog.Int("status", status),
		slog.String("error", message),
	)
	return wrap(status, Response{Errors: []result.Error{{Type: errType, Severity: result.SeverityError, Message: message}}})
}

func wrap(status int, out Response) events.APIGatewayProxyResponse {
	bodyBytes, _ := json.Marshal(out)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}
