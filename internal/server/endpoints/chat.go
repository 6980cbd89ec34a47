package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/shrreku/ai-studyagent/internal/api"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/svcctx"
	"github.com/shrreku/ai-studyagent/internal/tutor"
)

// ChatEndpoint handles POST /api/chat.
type ChatEndpoint struct{}

func (e *ChatEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/chat", e.handler
}

func (e *ChatEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Ask the study tutor
//	@Description	Answers a student question, optionally grounded in study materials and the plan
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tutor.ChatRequest	true	"Chat message"
//	@Success		200		{object}	tutor.ChatResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/chat [post]
func (e *ChatEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	tu := svcctx.TutorFrom(r.Context())
	if tu == nil {
		writeError(w, http.StatusServiceUnavailable, "tutor not initialized")
		return
	}

	var req tutor.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := tu.Ask(r.Context(), req)
	if err != nil {
		if errors.Is(err, tutor.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		svcctx.LoggerFrom(r.Context()).Warn("chat request failed", "session_id", req.SessionID, "error", err)
		writeJSON(w, statusFor(plan.KindOf(err)), ErrorResponse{
			Error:   "Error processing chat request",
			Details: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ChatEndpoint) Command(getServerURL func() string) *cobra.Command {
	var sessionID, materials, studyPlan string
	cmd := &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask the study tutor a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := tutor.ChatRequest{UserQuery: args[0], SessionID: sessionID}
			if materials != "" {
				req.StudyMaterialsContext = &materials
			}
			if studyPlan != "" {
				req.StudyPlanContext = &studyPlan
			}
			var resp tutor.ChatResponse
			client := api.NewClient(getServerURL())
			if err := client.Post(cmd.Context(), "/api/chat", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID to continue")
	cmd.Flags().StringVar(&materials, "materials", "", "Study materials excerpt for context")
	cmd.Flags().StringVar(&studyPlan, "plan", "", "Study plan excerpt for context")
	return cmd
}
