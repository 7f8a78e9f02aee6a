package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/repositories"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/utils"
)

const sweepBatchSize = 50

// FilaSweeper periodically re-runs distribution over queued (pendente)
// conversations so they get picked up once agents come online or free up.
type FilaSweeper struct {
	conversaRepo repositories.ConversaRepo
	distribution *DistributionService
	cron         *cron.Cron
}

func NewFilaSweeper(conversaRepo repositories.ConversaRepo, distribution *DistributionService) *FilaSweeper {
	return &FilaSweeper{
		conversaRepo: conversaRepo,
		distribution: distribution,
		cron:         cron.New(),
	}
}

// Start schedules the sweep at the given interval.
func (s *FilaSweeper) Start(interval time.Duration) error {
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.Sweep); err != nil {
		return fmt.Errorf("failed to schedule fila sweep: %w", err)
	}
	s.cron.Start()
	utils.LogInfo("fila sweeper iniciado", map[string]interface{}{
		"interval": interval.String(),
	})
	return nil
}

func (s *FilaSweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one pass over the pending queue. Failures on individual
// conversations are logged and do not stop the pass.
func (s *FilaSweeper) Sweep() {
	pendentes, err := s.conversaRepo.ListPendentes(sweepBatchSize)
	if err != nil {
		utils.LogError("falha ao listar conversas pendentes", err, nil)
		return
	}
	if len(pendentes) == 0 {
		return
	}

	atribuidas := 0
	for _, conversa := range pendentes {
		result, err := s.distribution.Distribute(conversa.ID)
		if err != nil {
			utils.LogError("falha ao redistribuir conversa pendente", err, map[string]interface{}{
				"conversa_id": conversa.ID,
			})
			continue
		}
		if result.Action == ActionAtribuido {
			atribuidas++
		}
	}

	utils.LogInfo("varredura da fila concluída", map[string]interface{}{
		"pendentes":  len(pendentes),
		"atribuidas": atribuidas,
	})
}
