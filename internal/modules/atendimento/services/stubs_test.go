package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/flowengine"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/tenant"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/models"
)

// In-memory fakes for the repository interfaces. Workload counts are kept
// in an explicit map so tests can set up load without creating rows.

type fakeConversaRepo struct {
	conversas map[uuid.UUID]*models.Conversa
	cargas    map[uuid.UUID]int64
	// claimFalha makes the next N atomic claims for an agent fail,
	// simulating a lost race.
	claimFalha map[uuid.UUID]int

	criadas int
	touched int
}

func newFakeConversaRepo() *fakeConversaRepo {
	return &fakeConversaRepo{
		conversas:  make(map[uuid.UUID]*models.Conversa),
		cargas:     make(map[uuid.UUID]int64),
		claimFalha: make(map[uuid.UUID]int),
	}
}

func (f *fakeConversaRepo) add(c *models.Conversa) *models.Conversa {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.conversas[c.ID] = c
	return c
}

func (f *fakeConversaRepo) GetByID(id uuid.UUID) (*models.Conversa, error) {
	c, ok := f.conversas[id]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (f *fakeConversaRepo) GetAbertaByContato(contatoID uuid.UUID) (*models.Conversa, error) {
	var abertas []*models.Conversa
	for _, c := range f.conversas {
		if c.ContatoID != contatoID {
			continue
		}
		for _, s := range models.AbertoStatuses {
			if c.Status == s {
				abertas = append(abertas, c)
				break
			}
		}
	}
	if len(abertas) == 0 {
		return nil, nil
	}
	sort.Slice(abertas, func(i, j int) bool {
		return abertas[i].UpdatedAt.After(abertas[j].UpdatedAt)
	})
	copia := *abertas[0]
	return &copia, nil
}

func (f *fakeConversaRepo) Create(c *models.Conversa) error {
	f.add(c)
	f.criadas++
	return nil
}

func (f *fakeConversaRepo) Touch(id uuid.UUID) error {
	if c, ok := f.conversas[id]; ok {
		c.UpdatedAt = time.Now()
	}
	f.touched++
	return nil
}

func (f *fakeConversaRepo) MoverParaFila(id uuid.UUID) error {
	c, ok := f.conversas[id]
	if !ok {
		return nil
	}
	c.Status = models.StatusPendente
	c.AgenteID = nil
	return nil
}

func (f *fakeConversaRepo) AtribuirAgente(conversaID, agenteID uuid.UUID, limite int) (bool, error) {
	if n := f.claimFalha[agenteID]; n > 0 {
		f.claimFalha[agenteID] = n - 1
		return false, nil
	}
	if f.cargas[agenteID] >= int64(limite) {
		return false, nil
	}
	c, ok := f.conversas[conversaID]
	if !ok {
		return false, nil
	}
	c.AgenteID = &agenteID
	c.Status = models.StatusEmAtendimento
	c.UpdatedAt = time.Now()
	f.cargas[agenteID]++
	return true, nil
}

func (f *fakeConversaRepo) CountAtendimentosByAgente(agenteID uuid.UUID) (int64, error) {
	return f.cargas[agenteID], nil
}

func (f *fakeConversaRepo) ListPendentes(limit int) ([]models.Conversa, error) {
	var pendentes []models.Conversa
	for _, c := range f.conversas {
		if c.Status == models.StatusPendente {
			pendentes = append(pendentes, *c)
		}
	}
	sort.Slice(pendentes, func(i, j int) bool {
		return pendentes[i].UpdatedAt.Before(pendentes[j].UpdatedAt)
	})
	if len(pendentes) > limit {
		pendentes = pendentes[:limit]
	}
	return pendentes, nil
}

type fakeProfileRepo struct {
	perfis map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{perfis: make(map[uuid.UUID]*models.Profile)}
}

func (f *fakeProfileRepo) add(p *models.Profile) *models.Profile {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.perfis[p.ID] = p
	return p
}

func (f *fakeProfileRepo) GetByID(id uuid.UUID) (*models.Profile, error) {
	p, ok := f.perfis[id]
	if !ok {
		return nil, nil
	}
	copia := *p
	return &copia, nil
}

func (f *fakeProfileRepo) ListOnlineByEmpresa(empresaID uuid.UUID) ([]models.Profile, error) {
	var ids []uuid.UUID
	for id := range f.perfis {
		ids = append(ids, id)
	}
	// Deterministic iteration order for tests.
	sort.Slice(ids, func(i, j int) bool {
		return f.perfis[ids[i]].Nome < f.perfis[ids[j]].Nome
	})

	var online []models.Profile
	for _, id := range ids {
		p := f.perfis[id]
		if p.EmpresaID != empresaID || p.Status != models.PresencaOnline {
			continue
		}
		ok := false
		for _, cargo := range models.AtendimentoCargos {
			if p.Cargo == cargo {
				ok = true
				break
			}
		}
		if ok {
			online = append(online, *p)
		}
	}
	return online, nil
}

func (f *fakeProfileRepo) Heartbeat(id uuid.UUID) error {
	p, ok := f.perfis[id]
	if !ok {
		return nil
	}
	now := time.Now()
	p.Status = models.PresencaOnline
	p.UltimoAcesso = &now
	return nil
}

type fakeContatoRepo struct {
	contatos map[uuid.UUID]*models.Contato
	criados  int
}

func newFakeContatoRepo() *fakeContatoRepo {
	return &fakeContatoRepo{contatos: make(map[uuid.UUID]*models.Contato)}
}

func (f *fakeContatoRepo) GetByID(id uuid.UUID) (*models.Contato, error) {
	c, ok := f.contatos[id]
	if !ok {
		return nil, nil
	}
	copia := *c
	return &copia, nil
}

func (f *fakeContatoRepo) GetByTelefone(empresaID uuid.UUID, telefone string) (*models.Contato, error) {
	for _, c := range f.contatos {
		if c.EmpresaID == empresaID && c.Telefone == telefone {
			copia := *c
			return &copia, nil
		}
	}
	return nil, nil
}

func (f *fakeContatoRepo) Create(c *models.Contato) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.contatos[c.ID] = c
	f.criados++
	return nil
}

type fakeMensagemRepo struct {
	mensagens  []*models.Mensagem
	gatewayIDs map[string]*models.Mensagem
}

func newFakeMensagemRepo() *fakeMensagemRepo {
	return &fakeMensagemRepo{gatewayIDs: make(map[string]*models.Mensagem)}
}

func (f *fakeMensagemRepo) Create(m *models.Mensagem) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	f.mensagens = append(f.mensagens, m)
	if m.GatewayID != nil {
		f.gatewayIDs[*m.GatewayID] = m
	}
	return nil
}

func (f *fakeMensagemRepo) CreateIdempotent(m *models.Mensagem) (bool, error) {
	if m.GatewayID != nil {
		if existente, ok := f.gatewayIDs[*m.GatewayID]; ok {
			*m = *existente
			return false, nil
		}
	}
	return true, f.Create(m)
}

type fakeSessionRepo struct {
	sessoes map[uuid.UUID]*models.ChatbotSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessoes: make(map[uuid.UUID]*models.ChatbotSession)}
}

func (f *fakeSessionRepo) GetAtivaByConversa(conversaID uuid.UUID) (*models.ChatbotSession, error) {
	s, ok := f.sessoes[conversaID]
	if !ok || s.Status != models.SessaoAtiva {
		return nil, nil
	}
	copia := *s
	return &copia, nil
}

func (f *fakeSessionRepo) Upsert(s *models.ChatbotSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.sessoes[s.ConversaID] = s
	return nil
}

type fakeFlowClient struct {
	calls []flowengine.TriggerRequest
	err   error
}

func (f *fakeFlowClient) Trigger(req flowengine.TriggerRequest) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, req)
	return nil
}

type fakeResolver struct {
	empresaID uuid.UUID
	instance  string
	// falhas makes the next N resolutions fail, simulating a transient
	// database error during ingestion.
	falhas int
	err    error
}

func (f *fakeResolver) ResolveFromInstance(instance string) (*tenant.TenantContext, error) {
	if f.falhas > 0 {
		f.falhas--
		return nil, f.err
	}
	return &tenant.TenantContext{EmpresaID: f.empresaID, Instance: instance}, nil
}

func (f *fakeResolver) InstanceForEmpresa(empresaID uuid.UUID) (string, error) {
	return f.instance, nil
}

type fakeGatewayProvider struct {
	sent []struct {
		Instance string
		Phone    string
		Text     string
	}
	messageID string
	err       error
}

func (f *fakeGatewayProvider) SendText(instance, phoneNumber, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, struct {
		Instance string
		Phone    string
		Text     string
	}{instance, phoneNumber, text})
	return f.messageID, nil
}

func (f *fakeGatewayProvider) GetConnectionState(instance string) (string, error) {
	return "open", nil
}

func (f *fakeGatewayProvider) GetProviderName() string {
	return "fake"
}
