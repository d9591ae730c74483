package financeiro

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/realtime"
	"github.com/inspecar/vistorias/internal/util"
)

// Nomes de coleção publicados no hub.
const (
	ColecaoLancamentos = "lancamentos"
	ColecaoContas      = "contas"
)

type repository interface {
	ListLancamentos(ctx context.Context) ([]Lancamento, error)
	GetLancamento(ctx context.Context, id uuid.UUID) (*Lancamento, error)
	CreateLancamento(ctx context.Context, l Lancamento) (*Lancamento, error)
	UpdateLancamento(ctx context.Context, l Lancamento) (*Lancamento, error)
	BaixarLancamento(ctx context.Context, id uuid.UUID, contaID uuid.UUID, dataPagamento time.Time) (*Lancamento, error)
	DeleteLancamento(ctx context.Context, id uuid.UUID) error
	ListContas(ctx context.Context) ([]Conta, error)
	GetConta(ctx context.Context, id uuid.UUID) (*Conta, error)
	CreateConta(ctx context.Context, c Conta) (*Conta, error)
	UpdateConta(ctx context.Context, c Conta) (*Conta, error)
	DeleteConta(ctx context.Context, id uuid.UUID) error
}

// Service concentra regras do módulo financeiro.
type Service struct {
	repo repository
	hub  *realtime.Hub
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository, hub *realtime.Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Input agrupa os campos editáveis de um lançamento.
type Input struct {
	Descricao     string
	Tipo          string
	Valor         float64
	Data          time.Time
	Categoria     string
	ContaID       *uuid.UUID
	TerceiroID    *uuid.UUID
	VistoriaID    *uuid.UUID
	Observacoes   string
	APagarReceber bool
	Vencimento    *time.Time
}

func (in *Input) validar() error {
	in.Descricao = strings.TrimSpace(in.Descricao)
	in.Categoria = strings.TrimSpace(in.Categoria)

	if in.Descricao == "" {
		return errors.New("descrição obrigatória")
	}
	if in.Categoria == "" {
		return errors.New("categoria obrigatória")
	}
	if in.Tipo != TipoReceita && in.Tipo != TipoDespesa {
		return ErrTipoInvalido
	}
	if in.Valor <= 0 {
		return ErrValorInvalido
	}
	if in.Data.IsZero() {
		return errors.New("data obrigatória")
	}
	if in.APagarReceber && in.Vencimento == nil {
		return errors.New("vencimento obrigatório para a pagar/receber")
	}
	return nil
}

// ListLancamentos devolve todos os lançamentos com o status efetivo derivado
// no momento da leitura (Pendente vencido exibido como Vencida).
func (s *Service) ListLancamentos(ctx context.Context) ([]Lancamento, error) {
	lancamentos, err := s.repo.ListLancamentos(ctx)
	if err != nil {
		return nil, err
	}
	hoje := util.Now()
	for i := range lancamentos {
		lancamentos[i].Status = StatusEfetivo(lancamentos[i], hoje)
	}
	return lancamentos, nil
}

// GetLancamento busca um lançamento com status efetivo.
func (s *Service) GetLancamento(ctx context.Context, id uuid.UUID) (*Lancamento, error) {
	l, err := s.repo.GetLancamento(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Status = StatusEfetivo(*l, util.Now())
	return l, nil
}

// CriarLancamento registra um movimento; a pagar/receber nasce Pendente.
func (s *Service) CriarLancamento(ctx context.Context, in Input) (*Lancamento, error) {
	if err := in.validar(); err != nil {
		return nil, err
	}

	l := Lancamento{
		ID:            uuid.New(),
		Descricao:     in.Descricao,
		Tipo:          in.Tipo,
		Valor:         in.Valor,
		Data:          in.Data,
		Categoria:     in.Categoria,
		ContaID:       in.ContaID,
		TerceiroID:    in.TerceiroID,
		VistoriaID:    in.VistoriaID,
		Observacoes:   in.Observacoes,
		APagarReceber: in.APagarReceber,
		Vencimento:    in.Vencimento,
	}
	if in.APagarReceber {
		l.Status = StatusPendente
	}

	criado, err := s.repo.CreateLancamento(ctx, l)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ColecaoLancamentos)
	return criado, nil
}

// AtualizarLancamento edita um lançamento. A baixa não passa por aqui: o
// status armazenado é preservado.
func (s *Service) AtualizarLancamento(ctx context.Context, id uuid.UUID, in Input) (*Lancamento, error) {
	if err := in.validar(); err != nil {
		return nil, err
	}

	atual, err := s.repo.GetLancamento(ctx, id)
	if err != nil {
		return nil, err
	}

	l := Lancamento{
		ID:            id,
		Descricao:     in.Descricao,
		Tipo:          in.Tipo,
		Valor:         in.Valor,
		Data:          in.Data,
		Categoria:     in.Categoria,
		ContaID:       in.ContaID,
		TerceiroID:    in.TerceiroID,
		VistoriaID:    in.VistoriaID,
		Observacoes:   in.Observacoes,
		APagarReceber: in.APagarReceber,
		Vencimento:    in.Vencimento,
		Status:        atual.Status,
		DataPagamento: atual.DataPagamento,
	}
	if in.APagarReceber && atual.Status == "" {
		l.Status = StatusPendente
	}
	if !in.APagarReceber {
		l.Status = ""
		l.Vencimento = nil
	}

	atualizado, err := s.repo.UpdateLancamento(ctx, l)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ColecaoLancamentos)
	return atualizado, nil
}

// Baixar marca um a pagar/receber como Paga, movendo a data efetiva para a
// data do pagamento e fixando a conta de liquidação.
func (s *Service) Baixar(ctx context.Context, id uuid.UUID, contaID uuid.UUID, dataPagamento time.Time) (*Lancamento, error) {
	if dataPagamento.IsZero() {
		return nil, errors.New("data de pagamento obrigatória")
	}
	if _, err := s.repo.GetConta(ctx, contaID); err != nil {
		return nil, err
	}

	baixado, err := s.repo.BaixarLancamento(ctx, id, contaID, dataPagamento)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ColecaoLancamentos)
	s.hub.Publish(ColecaoContas)
	return baixado, nil
}

// ExcluirLancamento remove um lançamento.
func (s *Service) ExcluirLancamento(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteLancamento(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(ColecaoLancamentos)
	return nil
}

// ListContasComSaldo devolve as contas com saldo derivado na leitura.
func (s *Service) ListContasComSaldo(ctx context.Context) ([]ContaComSaldo, error) {
	contas, err := s.repo.ListContas(ctx)
	if err != nil {
		return nil, err
	}
	lancamentos, err := s.repo.ListLancamentos(ctx)
	if err != nil {
		return nil, err
	}

	resultado := make([]ContaComSaldo, 0, len(contas))
	for _, conta := range contas {
		resultado = append(resultado, ContaComSaldo{
			Conta:      conta,
			SaldoAtual: SaldoAtual(conta, lancamentos),
		})
	}
	return resultado, nil
}

// CriarConta registra uma nova conta.
func (s *Service) CriarConta(ctx context.Context, c Conta) (*Conta, error) {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return nil, errors.New("nome obrigatório")
	}
	c.ID = uuid.New()

	criada, err := s.repo.CreateConta(ctx, c)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ColecaoContas)
	return criada, nil
}

// AtualizarConta edita uma conta existente.
func (s *Service) AtualizarConta(ctx context.Context, c Conta) (*Conta, error) {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return nil, errors.New("nome obrigatório")
	}

	atualizada, err := s.repo.UpdateConta(ctx, c)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ColecaoContas)
	return atualizada, nil
}

// ExcluirConta remove a conta, recusando quando houver lançamentos vinculados.
func (s *Service) ExcluirConta(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteConta(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(ColecaoContas)
	return nil
}

// Resumo calcula os agregados do painel para a janela de datas.
func (s *Service) Resumo(ctx context.Context, inicio, fim time.Time) (*Resumo, error) {
	lancamentos, err := s.repo.ListLancamentos(ctx)
	if err != nil {
		return nil, err
	}
	resumo := CalcularResumo(lancamentos, inicio, fim)
	return &resumo, nil
}
