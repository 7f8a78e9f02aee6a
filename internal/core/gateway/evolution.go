package gateway

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// EvolutionProvider talks to an Evolution API deployment over REST.
type EvolutionProvider struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

func NewEvolutionProvider(baseURL, apiKey string) *EvolutionProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	if apiKey != "" {
		client.SetHeader("apikey", apiKey)
	}

	return &EvolutionProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

func (p *EvolutionProvider) GetProviderName() string {
	return "Evolution API"
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type sendTextResponse struct {
	Key struct {
		ID        string `json:"id"`
		RemoteJid string `json:"remoteJid"`
	} `json:"key"`
	Status string `json:"status"`
}

func (p *EvolutionProvider) SendText(instance, phoneNumber, text string) (string, error) {
	var result sendTextResponse

	resp, err := p.client.R().
		SetBody(sendTextRequest{Number: phoneNumber, Text: text}).
		SetResult(&result).
		Post(fmt.Sprintf("/message/sendText/%s", instance))
	if err != nil {
		return "", fmt.Errorf("failed to send text via Evolution: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("Evolution returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return result.Key.ID, nil
}

func (p *EvolutionProvider) GetConnectionState(instance string) (string, error) {
	var result struct {
		Instance struct {
			State string `json:"state"`
		} `json:"instance"`
	}

	resp, err := p.client.R().
		SetResult(&result).
		Get(fmt.Sprintf("/instance/connectionState/%s", instance))
	if err != nil {
		return "", fmt.Errorf("failed to get connection state: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("Evolution returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return result.Instance.State, nil
}
