package config

import (
	"time"

	"github.com/qrisq/qrisq/pkg/domain/types"
)

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewGroqForTest creates a Groq config for testing purposes
func NewGroqForTest(apiKey, model string) *Groq {
	return &Groq{
		APIKey:  apiKey,
		model:   model,
		baseURL: DefaultGroqBaseURL,
	}
}

// NewLLMForTest creates an LLM config without credentials for testing purposes
func NewLLMForTest(provider types.ModelProvider) *LLM {
	return &LLM{provider: string(provider)}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

// NewCacheForTest creates a Cache config for testing purposes
func NewCacheForTest(addr string, ttl time.Duration) *Cache {
	return &Cache{addr: addr, ttl: ttl}
}

// NewSimulatorForTest creates a Simulator config for testing purposes
func NewSimulatorForTest(shots int, mock bool, seed uint64) *Simulator {
	return &Simulator{shots: shots, mock: mock, seed: seed}
}

// NewProfileForTest creates a Profile config for testing purposes
func NewProfileForTest(path string) *Profile {
	return &Profile{path: path}
}

// NewServerForTest creates a Server config for testing purposes
func NewServerForTest(corsOrigins []string, upstreamURL string) *Server {
	return &Server{corsOrigins: corsOrigins, upstreamURL: upstreamURL}
}
