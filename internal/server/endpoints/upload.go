package endpoints

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shrreku/ai-studyagent/internal/api"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/svcctx"
	"github.com/shrreku/ai-studyagent/internal/textextract"
	"github.com/shrreku/ai-studyagent/internal/workflow"
)

const (
	maxUploadSize = 64 << 20
	previewChars  = 500

	uploadMessage = "Files processed. Study plan generation attempted."
)

// UploadResponse is the response for POST /api/upload.
type UploadResponse struct {
	Message                   string        `json:"message"`
	NotesFilename             string        `json:"notes_filename,omitempty"`
	QuestionsFilename         string        `json:"questions_filename,omitempty"`
	ExtractedNotesPreview     string        `json:"extracted_notes_text_preview"`
	ExtractedQuestionsPreview string        `json:"extracted_questions_text_preview"`
	RequestID                 string        `json:"request_id,omitempty"`
	Fallback                  bool          `json:"fallback"`
	StudyPlanResult           plan.Response `json:"study_plan_result"`
}

// UploadEndpoint handles POST /api/upload.
type UploadEndpoint struct{}

func (e *UploadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/upload", e.handler
}

func (e *UploadEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Upload study materials
//	@Description	Extracts text from notes and questions files and generates a study plan from it
//	@Tags			plans
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			notes				formData	file	false	"Notes (PDF or text)"
//	@Param			questions			formData	file	false	"Practice questions (PDF or text)"
//	@Param			study_duration_days	formData	int		false	"Study days"			default(7)
//	@Param			study_hours_per_day	formData	number	false	"Study hours per day"	default(2)
//	@Success		200					{object}	UploadResponse
//	@Failure		400					{object}	ErrorResponse
//	@Failure		502					{object}	UploadResponse
//	@Router			/api/upload [post]
func (e *UploadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		writeError(w, http.StatusServiceUnavailable, "workflow not initialized")
		return
	}
	logger := svcctx.LoggerFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	days, err := formInt(r, "study_duration_days", workflow.DefaultStudyDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hours, err := formFloat(r, "study_hours_per_day", workflow.DefaultStudyHours)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := UploadResponse{Message: uploadMessage}
	var notes, questions string
	for _, field := range []string{"notes", "questions"} {
		file, header, err := r.FormFile(field)
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", field, err))
			return
		}
		text, err := extractUpload(r, file, header)
		file.Close()
		if err != nil {
			logger.Warn("failed to extract upload", "field", field, "filename", header.Filename, "error", err)
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to extract %s: %v", field, err))
			return
		}
		if field == "notes" {
			notes, resp.NotesFilename = text, header.Filename
		} else {
			questions, resp.QuestionsFilename = text, header.Filename
		}
	}
	resp.ExtractedNotesPreview = textPreview(notes)
	resp.ExtractedQuestionsPreview = textPreview(questions)

	g, err := wf.GeneratePlan(r.Context(), workflow.GenerateRequest{
		Notes:     notes,
		Questions: questions,
		Days:      days,
		Hours:     hours,
	})
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	resp.RequestID = g.RequestID
	resp.Fallback = g.Fallback
	resp.StudyPlanResult = g.Response

	status := http.StatusOK
	if g.Response.Failed() {
		status = statusFor(g.Response.Failure.Kind)
	}
	writeJSON(w, status, resp)
}

// extractUpload saves an uploaded file under the home uploads directory,
// extracts its text and removes it again. Without a home directory the
// upload is read straight from the request.
func extractUpload(r *http.Request, file multipart.File, header *multipart.FileHeader) (string, error) {
	h := svcctx.HomeFrom(r.Context())
	if h == nil {
		return textextract.ExtractReader(header.Filename, file)
	}

	path := h.UploadPath(header.Filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return textextract.Extract(path)
}

// textPreview returns the first previewChars runes of s.
func textPreview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewChars {
		return s
	}
	return string(runes[:previewChars]) + "..."
}

func formInt(r *http.Request, name string, def int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func formFloat(r *http.Request, name string, def float64) (float64, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

func (e *UploadEndpoint) Command(getServerURL func() string) *cobra.Command {
	var questions string
	var days int
	var hours float64
	cmd := &cobra.Command{
		Use:   "upload <notes-file>",
		Short: "Upload study materials and generate a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp UploadResponse
			client := api.NewClient(getServerURL())
			err := client.PostFiles(cmd.Context(), "/api/upload",
				map[string]string{"notes": args[0], "questions": questions},
				map[string]string{
					"study_duration_days": strconv.Itoa(days),
					"study_hours_per_day": strconv.FormatFloat(hours, 'f', -1, 64),
				}, &resp)
			if err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&questions, "questions", "", "Practice questions file")
	cmd.Flags().IntVar(&days, "days", workflow.DefaultStudyDays, "Study duration in days")
	cmd.Flags().Float64Var(&hours, "hours", workflow.DefaultStudyHours, "Study hours per day")
	return cmd
}
