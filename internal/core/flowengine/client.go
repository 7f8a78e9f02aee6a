package flowengine

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// TriggerRequest is the payload posted to the external flow engine (n8n).
// Field names are part of the integration contract.
type TriggerRequest struct {
	ConversaID      uuid.UUID `json:"conversaId"`
	IniciarFluxo    bool      `json:"iniciarFluxo,omitempty"`
	MensagemCliente string    `json:"mensagemCliente,omitempty"`
	Source          string    `json:"source"`
}

// Client posts flow triggers to the external engine. Callers treat
// failures as best-effort: the inbound message is already durable.
type Client interface {
	Trigger(req TriggerRequest) error
}

type httpClient struct {
	webhookURL string
	client     *resty.Client
}

// NewClient builds an HTTP flow-engine client. An empty webhookURL yields
// a disabled client whose Trigger always errors.
func NewClient(webhookURL string) Client {
	return &httpClient{
		webhookURL: webhookURL,
		client: resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

func (c *httpClient) Trigger(req TriggerRequest) error {
	if c.webhookURL == "" {
		return fmt.Errorf("flow engine webhook URL not configured")
	}

	req.Source = "evolution_webhook"

	resp, err := c.client.R().
		SetBody(req).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to call flow engine: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("flow engine returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
