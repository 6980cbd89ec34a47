package plan

import "encoding/json"

// Error tags returned to callers.
const (
	TagStructureFailed  = "Failed to structure the study plan"
	TagValidationFailed = "Failed to validate structured plan"
	TagTransportFailed  = "Completion request failed"
	TagNotConfigured    = "Study plan structurer is not configured"
)

// SuccessPayload is returned when a plan was structured.
type SuccessPayload struct {
	StructuredPlan *FrontendPlan `json:"structuredPlan"`
	Message        string        `json:"message"`
}

// ErrorPayload is the well-formed error object returned instead of a failure.
type ErrorPayload struct {
	Error       string `json:"error"`
	Details     string `json:"details"`
	ParsedJSON  any    `json:"parsedJson,omitempty"`
	RawResponse string `json:"rawResponse,omitempty"`

	Kind Kind `json:"-"`
}

// Response is either a success or an error payload, never both.
type Response struct {
	Success *SuccessPayload
	Failure *ErrorPayload
}

// Success builds a success response.
func Success(fp *FrontendPlan, message string) Response {
	return Response{Success: &SuccessPayload{StructuredPlan: fp, Message: message}}
}

// Failure builds an error response from a pipeline error. The tag is derived
// from the error kind when empty.
func Failure(tag string, err error) Response {
	kind := KindOf(err)
	if tag == "" {
		tag = TagFor(kind)
	}
	details := ""
	if err != nil {
		details = err.Error()
	}
	return Response{Failure: &ErrorPayload{
		Error:       tag,
		Details:     details,
		ParsedJSON:  ParsedOf(err),
		RawResponse: RawOf(err),
		Kind:        kind,
	}}
}

// TagFor returns the user-facing error tag for a kind.
func TagFor(kind Kind) string {
	switch kind {
	case KindValidation:
		return TagValidationFailed
	case KindTransport:
		return TagTransportFailed
	case KindConfiguration:
		return TagNotConfigured
	default:
		return TagStructureFailed
	}
}

// Failed reports whether the response carries an error payload.
func (r Response) Failed() bool {
	return r.Failure != nil
}

// MarshalJSON encodes whichever payload is set.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Failure != nil {
		return json.Marshal(r.Failure)
	}
	if r.Success != nil {
		return json.Marshal(r.Success)
	}
	return json.Marshal(ErrorPayload{Error: TagStructureFailed, Details: "empty response"})
}

// UnmarshalJSON decodes either payload shape; an "error" key selects the failure form.
func (r *Response) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		var fail ErrorPayload
		if err := json.Unmarshal(data, &fail); err != nil {
			return err
		}
		*r = Response{Failure: &fail}
		return nil
	}
	var ok SuccessPayload
	if err := json.Unmarshal(data, &ok); err != nil {
		return err
	}
	*r = Response{Success: &ok}
	return nil
}
