package gateway

import "log"

// Service is the application-facing wrapper around the gateway provider.
type Service struct {
	provider Provider
}

// NewService builds a service with the provider selected by environment.
func NewService() *Service {
	cfg, err := LoadProviderFromEnv()
	if err != nil {
		log.Fatalf("❌ Failed to load provider config: %v", err)
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create provider: %v", err)
	}

	log.Printf("✅ Using WhatsApp provider: %s", provider.GetProviderName())

	return &Service{provider: provider}
}

// NewServiceWithProvider builds a service with a specific provider (tests).
func NewServiceWithProvider(provider Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) SendText(instance, phoneNumber, text string) (string, error) {
	return s.provider.SendText(instance, phoneNumber, text)
}

func (s *Service) GetConnectionState(instance string) (string, error) {
	return s.provider.GetConnectionState(instance)
}

func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
