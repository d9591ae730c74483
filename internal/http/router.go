package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/inspecar/vistorias/internal/config"
	"github.com/inspecar/vistorias/internal/financeiro"
	httpmiddleware "github.com/inspecar/vistorias/internal/http/middleware"
	"github.com/inspecar/vistorias/internal/importacao"
	"github.com/inspecar/vistorias/internal/pendencia"
	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/preferencia"
	"github.com/inspecar/vistorias/internal/realtime"
	"github.com/inspecar/vistorias/internal/repo"
	"github.com/inspecar/vistorias/internal/service"
	"github.com/inspecar/vistorias/internal/settings"
	"github.com/inspecar/vistorias/internal/terceiro"
	"github.com/inspecar/vistorias/internal/vistoria"
)

const readyTimeout = 3 * time.Second

// Handler agrega as dependências dos handlers HTTP.
type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	auth          *service.AuthService
	users         *service.UserService
	vistorias     *vistoria.Service
	pendencias    *pendencia.Service
	financeiro    *financeiro.Service
	terceiros     *terceiro.Service
	settings      *settings.Service
	importacoes   *importacao.Service
	preferencias  *preferencia.Service
	hub           *realtime.Hub
	publicLimiter *httpmiddleware.RateLimiter
	authLimiter   *httpmiddleware.RateLimiter
}

// NewRouter monta os serviços de domínio e devolve o roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, authService *service.AuthService, hub *realtime.Hub) (http.Handler, error) {
	repository := repo.New(pool)
	userService := service.NewUserService(repository, hub)

	vistoriaRepo := vistoria.NewRepository(pool)
	vistoriaService := vistoria.NewService(vistoriaRepo, hub)

	pendenciaRepo := pendencia.NewRepository(pool)
	pendenciaService := pendencia.NewService(pendenciaRepo, vistoriaRepo, userService, hub)

	financeiroRepo := financeiro.NewRepository(pool)
	financeiroService := financeiro.NewService(financeiroRepo, hub)

	terceiroRepo := terceiro.NewRepository(pool)
	terceiroService := terceiro.NewService(terceiroRepo, hub)

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo)

	importService := importacao.NewService(redisClient, vistoriaService, cfg.ImportTTL)
	prefService := preferencia.NewService(redisClient)

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		auth:          authService,
		users:         userService,
		vistorias:     vistoriaService,
		pendencias:    pendenciaService,
		financeiro:    financeiroService,
		terceiros:     terceiroService,
		settings:      settingsService,
		importacoes:   importService,
		preferencias:  prefService,
		hub:           hub,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		authLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst),
	}

	exigir := func(modulo permission.Modulo, nivel permission.Nivel) func(http.Handler) http.Handler {
		return httpmiddleware.RequireNivel(userService, modulo, nivel)
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
			auth.Post("/recuperacao", h.SolicitarRecuperacao)
			auth.Post("/recuperacao/redefinir", h.RedefinirSenha)
		})
	})

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Auth(authService.JWT()))
		private.Use(httpmiddleware.UserRateLimit(h.authLimiter))

		private.Get("/me", h.Me)
		private.Post("/me/senha", h.AlterarSenha)
		private.Get("/eventos", h.Eventos)

		private.Route("/preferencias", func(p chi.Router) {
			p.Get("/", h.GetPreferencias)
			p.Put("/", h.PutPreferencias)
			p.Delete("/", h.DeletePreferencias)
		})

		private.Route("/vistorias", func(v chi.Router) {
			v.With(exigir(permission.ModuloVistorias, permission.NivelVisualizar)).Get("/", h.ListVistorias)
			v.With(exigir(permission.ModuloVistorias, permission.NivelVisualizar)).Get("/{id}", h.GetVistoria)
			v.With(exigir(permission.ModuloVistorias, permission.NivelVisualizar)).Post("/", h.CreateVistoria)
			v.With(exigir(permission.ModuloVistorias, permission.NivelAtualizar)).Put("/{id}", h.UpdateVistoria)
			v.With(exigir(permission.ModuloVistorias, permission.NivelEditar)).Delete("/{id}", h.DeleteVistoria)
			v.With(exigir(permission.ModuloVistorias, permission.NivelEditar)).Post("/lote/excluir", h.DeleteVistoriasLote)
			v.With(exigir(permission.ModuloVistorias, permission.NivelVisualizar)).Get("/{id}/mensagens", h.ListMensagens)
			v.With(exigir(permission.ModuloVistorias, permission.NivelVisualizar)).Post("/{id}/mensagens", h.CreateMensagem)
		})

		private.Route("/solicitacoes", func(s chi.Router) {
			s.With(exigir(permission.ModuloSolicitacoes, permission.NivelVisualizar)).Get("/", h.ListSolicitacoes)
			s.With(exigir(permission.ModuloSolicitacoes, permission.NivelEditar)).Post("/aprovar", h.AprovarSolicitacoes)

			s.Route("/importacoes", func(i chi.Router) {
				i.Use(exigir(permission.ModuloSolicitacoes, permission.NivelEditar))
				i.Post("/", h.UploadImportacao)
				i.Get("/{id}", h.GetImportacao)
				i.Post("/{id}/confirmar", h.ConfirmarImportacao)
			})
		})

		private.Route("/pendencias", func(p chi.Router) {
			p.With(exigir(permission.ModuloPendencias, permission.NivelVisualizar)).Get("/", h.ListPendencias)
			p.With(exigir(permission.ModuloPendencias, permission.NivelVisualizar)).Get("/responsaveis", h.ListResponsaveis)
			p.With(exigir(permission.ModuloPendencias, permission.NivelVisualizar)).Get("/{id}", h.GetPendencia)
			p.With(exigir(permission.ModuloPendencias, permission.NivelVisualizar)).Post("/", h.CreatePendencia)
			p.With(exigir(permission.ModuloPendencias, permission.NivelAtualizar)).Put("/{id}", h.UpdatePendencia)
			p.With(exigir(permission.ModuloPendencias, permission.NivelEditar)).Delete("/{id}", h.DeletePendencia)
		})

		private.Route("/financeiro", func(f chi.Router) {
			f.With(exigir(permission.ModuloFinanceiro, permission.NivelVisualizar)).Get("/resumo", h.ResumoFinanceiro)
			f.With(exigir(permission.ModuloFinanceiro, permission.NivelVisualizar)).Post("/senha-master/verificar", h.VerificarSenhaMaster)

			f.Route("/lancamentos", func(l chi.Router) {
				l.With(exigir(permission.ModuloFinanceiro, permission.NivelVisualizar)).Get("/", h.ListLancamentos)
				l.With(exigir(permission.ModuloFinanceiro, permission.NivelAtualizar)).Post("/", h.CreateLancamento)
				l.With(exigir(permission.ModuloFinanceiro, permission.NivelAtualizar)).Post("/{id}/baixa", h.BaixarLancamento)
				l.With(exigir(permission.ModuloFinanceiro, permission.NivelEditar)).Put("/{id}", h.UpdateLancamento)
				l.With(exigir(permission.ModuloFinanceiro, permission.NivelEditar)).Delete("/{id}", h.DeleteLancamento)
			})

			f.Route("/contas", func(c chi.Router) {
				c.With(exigir(permission.ModuloFinanceiro, permission.NivelVisualizar)).Get("/", h.ListContas)
				c.With(exigir(permission.ModuloFinanceiro, permission.NivelEditar)).Post("/", h.CreateConta)
				c.With(exigir(permission.ModuloFinanceiro, permission.NivelEditar)).Put("/{id}", h.UpdateConta)
				c.With(exigir(permission.ModuloFinanceiro, permission.NivelEditar)).Delete("/{id}", h.DeleteConta)
			})

			f.Route("/terceiros", func(t chi.Router) {
				t.With(exigir(permission.ModuloFinanceiro, permission.NivelVisualizar)).Get("/", h.ListTerceiros)
				t.With(exigir(permission.ModuloFinanceiro, permission.NivelAtualizar)).Post("/", h.CreateTerceiro)
				t.With(exigir(permission.ModuloFinanceiro, permission.NivelAtualizar)).Put("/{id}", h.UpdateTerceiro)
				t.With(exigir(permission.ModuloFinanceiro, permission.NivelEditar)).Delete("/{id}", h.DeleteTerceiro)
			})
		})

		private.Route("/relatorios", func(rel chi.Router) {
			rel.Use(exigir(permission.ModuloRelatorios, permission.NivelVisualizar))
			rel.Get("/vistorias.xlsx", h.RelatorioVistoriasXLSX)
			rel.Get("/vistorias.pdf", h.RelatorioVistoriasPDF)
			rel.Get("/lancamentos.xlsx", h.RelatorioLancamentosXLSX)
		})

		private.Route("/usuarios", func(u chi.Router) {
			u.With(exigir(permission.ModuloUsuarios, permission.NivelVisualizar)).Get("/", h.ListUsuarios)
			u.With(exigir(permission.ModuloUsuarios, permission.NivelVisualizar)).Get("/{id}", h.GetUsuario)
			u.With(exigir(permission.ModuloUsuarios, permission.NivelEditar)).Post("/", h.CreateUsuario)
			u.With(exigir(permission.ModuloUsuarios, permission.NivelEditar)).Put("/{id}", h.UpdateUsuario)
			u.With(exigir(permission.ModuloUsuarios, permission.NivelEditar)).Post("/{id}/senha", h.ResetarSenhaUsuario)
			u.With(exigir(permission.ModuloUsuarios, permission.NivelEditar)).Delete("/{id}", h.DeleteUsuario)
		})

		private.Route("/configuracoes", func(c chi.Router) {
			c.With(exigir(permission.ModuloConfiguracoes, permission.NivelVisualizar)).Get("/", h.GetConfiguracao)
			c.With(exigir(permission.ModuloConfiguracoes, permission.NivelEditar)).Put("/", h.UpdateConfiguracao)
		})
	})

	return r, nil
}

// Health responde o liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// Ready confere banco e Redis antes de declarar prontidão.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "banco indisponível", nil)
		return
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "redis indisponível", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
