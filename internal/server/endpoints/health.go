package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/shrreku/ai-studyagent/internal/api"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/svcctx"
)

// maxJSONBody bounds request bodies; raw plans are long but not this long.
const maxJSONBody = 8 << 20

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server     string           `json:"server"`
	Providers  ProvidersStatus  `json:"providers"`
	Structurer StructurerStatus `json:"structurer"`
}

// ProvidersStatus shows registered LLM providers.
type ProvidersStatus struct {
	LLM        []string `json:"llm"`
	Default    string   `json:"default,omitempty"`
	Configured bool     `json:"configured"`
}

// StructurerStatus shows the active structuring settings.
type StructurerStatus struct {
	Mode           string  `json:"mode"`
	HoursMode      string  `json:"hours_mode"`
	ParallelChunks bool    `json:"parallel_chunks"`
	Model          string  `json:"model,omitempty"`
	CallTimeout    string  `json:"call_timeout"`
	MaxAttempts    int     `json:"max_attempts"`
	Temperature    float64 `json:"temperature"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Registered LLM providers and the active structuring settings
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Server: "running"}

	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Providers.LLM = registry.ListLLM()
		_, err := registry.Default()
		resp.Providers.Configured = err == nil
	}
	if resp.Providers.LLM == nil {
		resp.Providers.LLM = []string{}
	}

	if cfg := svcctx.ConfigFrom(r.Context()); cfg != nil {
		resp.Providers.Default = cfg.Defaults.LLMProvider
		resp.Structurer = StructurerStatus{
			Mode:           string(cfg.StructurerMode()),
			HoursMode:      string(cfg.HoursMode()),
			ParallelChunks: cfg.Structurer.ParallelChunks,
			Model:          cfg.DefaultModel(),
			CallTimeout:    cfg.CallTimeout().String(),
			MaxAttempts:    cfg.Structurer.MaxAttempts,
			Temperature:    cfg.Structurer.Temperature,
		}
	} else {
		resp.Server = "initializing"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// decodeJSON reads a JSON request body into v. Unknown fields are allowed
// since the frontend sends extra keys.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind plan.Kind) int {
	switch kind {
	case plan.KindTransport:
		return http.StatusBadGateway
	case plan.KindParse, plan.KindValidation:
		return http.StatusUnprocessableEntity
	case plan.KindConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writePlanResponse writes a pipeline response with the status its error
// kind maps to.
func writePlanResponse(w http.ResponseWriter, resp plan.Response) {
	if resp.Failed() {
		writeJSON(w, statusFor(resp.Failure.Kind), resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
