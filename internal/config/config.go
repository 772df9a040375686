package config

const (
	BackendGroq      = "groq"
	BackendOpenAI    = "openai"
	BackendOllama    = "ollama"
	BackendAnthropic = "anthropic"
)

const (
	StoreSlot   = "slot"
	StoreSQLite = "sqlite"
)

// Config holds application configuration
type Config struct {
	Addr        string // HTTP listen address
	Backend     string // completion backend (groq|openai|ollama|anthropic)
	StoreKind   string // conversation store backend (slot|sqlite)
	StorePath   string // slot file or sqlite database path
	OllamaModel string // Model specification in format "model:version" (e.g., "llama3:latest")
	Debug       bool
}
