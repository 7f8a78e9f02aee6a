package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/repositories"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/utils"
)

// Distribution actions. Wire values are part of the API contract.
const (
	ActionMantido   = "mantido"
	ActionAtribuido = "atribuido"
	ActionFila      = "fila"
)

// presencaTTL is how recent an agent's last activity must be for the agent
// to count as online. Stale presence is treated as offline.
const presencaTTL = 15 * time.Minute

// limitesPorCargo maps a role to its maximum number of concurrent
// conversations (status ativo/em-atendimento).
var limitesPorCargo = map[string]int{
	models.CargoAgente:     5,
	models.CargoSupervisor: 8,
	models.CargoAdmin:      10,
}

const limitePadrao = 10

// LimiteParaCargo returns the workload limit for a role.
func LimiteParaCargo(cargo string) int {
	if limite, ok := limitesPorCargo[cargo]; ok {
		return limite
	}
	return limitePadrao
}

// ErrConversaNaoEncontrada is returned when the conversation id does not
// resolve to a row.
var ErrConversaNaoEncontrada = errors.New("conversa não encontrada")

// ErrConversaEncerrada is returned when distribution is requested for a
// finished conversation. Closed conversations are never re-opened here.
var ErrConversaEncerrada = errors.New("conversa já finalizada")

// DistributionResult is the tri-state outcome of a distribution run.
type DistributionResult struct {
	Action     string     `json:"action"`
	AgenteID   *uuid.UUID `json:"agente_id,omitempty"`
	AgenteNome string     `json:"agente,omitempty"`
	Message    string     `json:"message"`
}

// DistributionService assigns conversations to eligible agents, or queues
// them when nobody can take the work.
type DistributionService struct {
	conversaRepo repositories.ConversaRepo
	profileRepo  repositories.ProfileRepo

	now func() time.Time
}

func NewDistributionService(conversaRepo repositories.ConversaRepo, profileRepo repositories.ProfileRepo) *DistributionService {
	return &DistributionService{
		conversaRepo: conversaRepo,
		profileRepo:  profileRepo,
		now:          time.Now,
	}
}

type candidato struct {
	perfil models.Profile
	carga  int64
}

// Distribute decides what happens to the conversation: keep the current
// agent, assign a new one, or queue it.
func (s *DistributionService) Distribute(conversaID uuid.UUID) (*DistributionResult, error) {
	conversa, err := s.conversaRepo.GetByID(conversaID)
	if err != nil {
		return nil, err
	}
	if conversa == nil {
		return nil, ErrConversaNaoEncontrada
	}
	if conversa.Status == models.StatusFinalizado {
		return nil, ErrConversaEncerrada
	}

	// Short-circuit: current agent still eligible keeps the conversation.
	if conversa.AgenteID != nil && conversa.EmAtendimento() {
		perfil, err := s.profileRepo.GetByID(*conversa.AgenteID)
		if err != nil {
			return nil, err
		}
		if perfil != nil {
			carga, err := s.conversaRepo.CountAtendimentosByAgente(perfil.ID)
			if err != nil {
				return nil, err
			}
			if s.elegivel(perfil, carga) {
				return &DistributionResult{
					Action:     ActionMantido,
					AgenteID:   &perfil.ID,
					AgenteNome: perfil.Nome,
					Message:    "Conversa mantida com o agente atual",
				}, nil
			}
		}
	}

	candidatos, err := s.listarCandidatos(conversa.EmpresaID)
	if err != nil {
		return nil, err
	}
	ordenarCandidatos(candidatos, conversa.Setor)

	for _, c := range candidatos {
		ok, err := s.conversaRepo.AtribuirAgente(conversaID, c.perfil.ID, LimiteParaCargo(c.perfil.Cargo))
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost the workload guard to a concurrent assignment; try the
			// next candidate.
			utils.LogWarn("candidato perdeu disputa de atribuição", map[string]interface{}{
				"conversa_id": conversaID,
				"agente_id":   c.perfil.ID,
			})
			continue
		}
		agenteID := c.perfil.ID
		return &DistributionResult{
			Action:     ActionAtribuido,
			AgenteID:   &agenteID,
			AgenteNome: c.perfil.Nome,
			Message:    fmt.Sprintf("Conversa atribuída para %s", c.perfil.Nome),
		}, nil
	}

	if err := s.conversaRepo.MoverParaFila(conversaID); err != nil {
		return nil, err
	}
	return &DistributionResult{
		Action:  ActionFila,
		Message: "Nenhum agente disponível, conversa adicionada à fila",
	}, nil
}

func (s *DistributionService) listarCandidatos(empresaID uuid.UUID) ([]candidato, error) {
	perfis, err := s.profileRepo.ListOnlineByEmpresa(empresaID)
	if err != nil {
		return nil, err
	}

	candidatos := make([]candidato, 0, len(perfis))
	for i := range perfis {
		carga, err := s.conversaRepo.CountAtendimentosByAgente(perfis[i].ID)
		if err != nil {
			return nil, err
		}
		if !s.elegivel(&perfis[i], carga) {
			continue
		}
		candidatos = append(candidatos, candidato{perfil: perfis[i], carga: carga})
	}
	return candidatos, nil
}

// elegivel checks presence freshness and workload headroom.
func (s *DistributionService) elegivel(perfil *models.Profile, carga int64) bool {
	if perfil.Status != models.PresencaOnline {
		return false
	}
	if perfil.UltimoAcesso == nil || s.now().Sub(*perfil.UltimoAcesso) > presencaTTL {
		return false
	}
	return carga < int64(LimiteParaCargo(perfil.Cargo))
}

// ordenarCandidatos orders candidates for selection: a stable partition
// putting same-sector agents first, then a stable sort by current workload.
// Other-sector agents stay candidates, just after equally loaded same-sector
// ones.
func ordenarCandidatos(candidatos []candidato, setor *string) {
	if setor != nil && *setor != "" {
		sort.SliceStable(candidatos, func(i, j int) bool {
			iMesmo := candidatos[i].perfil.Setor != nil && *candidatos[i].perfil.Setor == *setor
			jMesmo := candidatos[j].perfil.Setor != nil && *candidatos[j].perfil.Setor == *setor
			return iMesmo && !jMesmo
		})
	}
	sort.SliceStable(candidatos, func(i, j int) bool {
		return candidatos[i].carga < candidatos[j].carga
	})
}
