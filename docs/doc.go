// Package docs provides generated OpenAPI documentation.
//
// Study Agent API
//
//	@title			Study Agent API
//	@version		1.0
//	@description	Turns study materials and free-form plans into validated, structured study plans.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/shrreku/ai-studyagent
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/studyagent/serve.go -o ./swagger --parseDependency --parseInternal
