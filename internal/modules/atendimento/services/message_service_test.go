package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/gateway"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

func TestEnviarTexto(t *testing.T) {
	conversas := newFakeConversaRepo()
	contatos := newFakeContatoRepo()
	mensagens := newFakeMensagemRepo()
	provider := &fakeGatewayProvider{messageID: "OUT1"}
	empresaID := uuid.New()

	contato := &models.Contato{EmpresaID: empresaID, Telefone: "5511999999999", Nome: "Maria"}
	require.NoError(t, contatos.Create(contato))

	conversa := conversas.add(&models.Conversa{
		EmpresaID: empresaID,
		ContatoID: contato.ID,
		Status:    models.StatusEmAtendimento,
	})

	svc := NewMessageService(
		conversas,
		contatos,
		mensagens,
		&fakeResolver{empresaID: empresaID, instance: "principal"},
		gateway.NewServiceWithProvider(provider),
	)

	agenteID := uuid.New()
	mensagem, err := svc.EnviarTexto(conversa.ID, "Bom dia, como posso ajudar?", &agenteID)
	require.NoError(t, err)

	require.Len(t, provider.sent, 1)
	assert.Equal(t, "principal", provider.sent[0].Instance)
	assert.Equal(t, "5511999999999", provider.sent[0].Phone)
	assert.Equal(t, "Bom dia, como posso ajudar?", provider.sent[0].Text)

	assert.Equal(t, models.RemetenteAgente, mensagem.RemetenteTipo)
	require.NotNil(t, mensagem.RemetenteID)
	assert.Equal(t, agenteID, *mensagem.RemetenteID)
	require.NotNil(t, mensagem.GatewayID)
	assert.Equal(t, "OUT1", *mensagem.GatewayID)

	assert.Len(t, mensagens.mensagens, 1)
	assert.Equal(t, 1, conversas.touched)
}

func TestEnviarTexto_ConversaNaoEncontrada(t *testing.T) {
	svc := NewMessageService(
		newFakeConversaRepo(),
		newFakeContatoRepo(),
		newFakeMensagemRepo(),
		&fakeResolver{},
		gateway.NewServiceWithProvider(&fakeGatewayProvider{}),
	)

	_, err := svc.EnviarTexto(uuid.New(), "oi", nil)
	require.ErrorIs(t, err, ErrConversaNaoEncontrada)
}

func TestEnviarTexto_FalhaDoGatewayNaoGravaMensagem(t *testing.T) {
	conversas := newFakeConversaRepo()
	contatos := newFakeContatoRepo()
	mensagens := newFakeMensagemRepo()
	empresaID := uuid.New()

	contato := &models.Contato{EmpresaID: empresaID, Telefone: "5511999999999"}
	require.NoError(t, contatos.Create(contato))
	conversa := conversas.add(&models.Conversa{
		EmpresaID: empresaID,
		ContatoID: contato.ID,
		Status:    models.StatusEmAtendimento,
	})

	svc := NewMessageService(
		conversas,
		contatos,
		mensagens,
		&fakeResolver{empresaID: empresaID, instance: "principal"},
		gateway.NewServiceWithProvider(&fakeGatewayProvider{err: assert.AnError}),
	)

	_, err := svc.EnviarTexto(conversa.ID, "oi", nil)
	require.Error(t, err)
	assert.Empty(t, mensagens.mensagens)
}
