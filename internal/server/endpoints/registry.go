package endpoints

import (
	"github.com/shrreku/ai-studyagent/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},
		&MetricsEndpoint{},

		// Plan endpoints
		&StructureEndpoint{},
		&GenerateEndpoint{},
		&PreviewEndpoint{},
		&FallbackEndpoint{},
		&AdaptEndpoint{},
		&SampleEndpoint{},
		&PlanSchemaEndpoint{},
		&UploadEndpoint{},

		// Tutor
		&ChatEndpoint{},

		// LLM call history endpoints
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},

		// Prompt endpoints
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},
	}
}
