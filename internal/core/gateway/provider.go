package gateway

import (
	"fmt"
	"os"
)

// Provider is the interface for WhatsApp gateway integrations. The gateway
// runs as an external service; this side only consumes its REST API.
type Provider interface {
	// SendText sends a text message through the given instance and returns
	// the gateway's message id.
	SendText(instance, phoneNumber, text string) (string, error)

	// GetConnectionState returns the gateway's connection state for an
	// instance (e.g. "open", "close", "connecting").
	GetConnectionState(instance string) (string, error)

	// GetProviderName returns the provider name for logging.
	GetProviderName() string
}

// ProviderType for the factory.
type ProviderType string

const (
	ProviderEvolution ProviderType = "evolution"
)

// ProviderConfig holds provider settings.
type ProviderConfig struct {
	Type ProviderType

	// Evolution API specific
	EvolutionBaseURL string
	EvolutionAPIKey  string
}

// NewProvider creates a provider from config.
func NewProvider(cfg *ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case ProviderEvolution:
		if cfg.EvolutionBaseURL == "" {
			return nil, fmt.Errorf("EVOLUTION_API_URL is required")
		}
		return NewEvolutionProvider(cfg.EvolutionBaseURL, cfg.EvolutionAPIKey), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// LoadProviderFromEnv loads provider config from environment variables.
func LoadProviderFromEnv() (*ProviderConfig, error) {
	providerType := os.Getenv("WHATSAPP_PROVIDER")
	if providerType == "" {
		providerType = "evolution" // default
	}

	return &ProviderConfig{
		Type:             ProviderType(providerType),
		EvolutionBaseURL: os.Getenv("EVOLUTION_API_URL"),
		EvolutionAPIKey:  os.Getenv("EVOLUTION_API_KEY"),
	}, nil
}
