package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

func TestSweep_AtribuiConversasPendentes(t *testing.T) {
	conversas := newFakeConversaRepo()
	perfis := newFakeProfileRepo()
	empresaID := uuid.New()

	conversa := conversas.add(&models.Conversa{
		EmpresaID: empresaID,
		ContatoID: uuid.New(),
		Status:    models.StatusPendente,
	})

	sweeper := NewFilaSweeper(conversas, NewDistributionService(conversas, perfis))

	// No agents yet, the conversation stays queued.
	sweeper.Sweep()
	atual, _ := conversas.GetByID(conversa.ID)
	assert.Equal(t, models.StatusPendente, atual.Status)

	agente := perfis.add(agenteOnline(empresaID, "Ana", models.CargoAgente, nil))

	sweeper.Sweep()
	atual, err := conversas.GetByID(conversa.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmAtendimento, atual.Status)
	require.NotNil(t, atual.AgenteID)
	assert.Equal(t, agente.ID, *atual.AgenteID)
}
