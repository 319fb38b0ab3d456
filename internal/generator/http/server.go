package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/lotto-2d-generator/internal/generator/backup"
	"github.com/radieske/lotto-2d-generator/internal/generator/combo"
	"github.com/radieske/lotto-2d-generator/internal/generator/dto"
	"github.com/radieske/lotto-2d-generator/internal/generator/repo"
	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
)

const maxBodyBytes = 1 << 20

// Store define a persistência de bilhetes usada pelos handlers
type Store interface {
	Create(ctx context.Context, t *repo.Ticket) (string, error)
	Get(ctx context.Context, id string) (*repo.Ticket, error)
}

// Cache guarda respostas de bilhete já montadas
type Cache interface {
	Get(ctx context.Context, id string, dst any) (bool, error)
	Set(ctx context.Context, id string, v any) error
}

type Publisher interface {
	PublishTicketGenerated(ctx context.Context, e events.TicketGenerated) error
}

// Server expõe a API HTTP do gerador de combinações
type Server struct {
	log     *zap.Logger
	store   Store
	cache   Cache
	publ    Publisher
	preview http.HandlerFunc // WebSocket do monitor de custo

	version string
	appURL  string
	now     func() time.Time

	OnGenerated func(t combo.Totals) // métricas
	OnError     func(stage string)   // métricas por fase
}

// NewServer instancia o servidor HTTP do gerador.
// version é o rótulo do rodapé do relatório (vazio omite a linha); preview pode ser nil.
func NewServer(log *zap.Logger, st Store, c Cache, p Publisher, preview http.HandlerFunc, version, appURL string) *Server {
	return &Server{
		log:     log,
		store:   st,
		cache:   c,
		publ:    p,
		preview: preview,
		version: version,
		appURL:  appURL,
		now:     time.Now,
	}
}

// Router retorna o roteador HTTP com os endpoints REST
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(withCORS)
	r.Post("/v1/tickets", s.createTicket)          // Gera relatório e persiste
	r.Get("/v1/tickets/{id}", s.getTicket)         // Relatório gerado anteriormente
	r.Post("/v1/tickets/preview", s.previewTotals) // Totais para o monitor de custo
	r.Post("/v1/backup/export", s.exportBackup)    // Arquivo de backup
	r.Post("/v1/backup/import", s.importBackup)    // Restaura combinações de um backup
	r.Get("/api/version", s.getVersion)
	r.Get("/version.json", s.getVersion)
	if s.preview != nil {
		r.Get("/ws/preview", s.preview)
	}
	return r
}

// createTicket expande as combinações, monta o relatório, persiste, faz cache e publica o evento
func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	for i, rec := range req.Combinations {
		if err := combo.Validate(rec); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("combination %d: %v", i+1, err))
			return
		}
	}

	now := s.now()
	rep, err := combo.Generate(req.Combinations, combo.FormatTimestamp(now), s.version)
	if errors.Is(err, combo.ErrNoRecords) {
		writeError(w, http.StatusUnprocessableEntity, "please add at least one valid combination")
		return
	}
	if err != nil {
		s.fail("generate")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ticket := &repo.Ticket{
		Combinations:      req.Combinations,
		Output:            rep.Text,
		TotalCombinations: rep.Totals.TotalCombinations,
		TotalCost:         rep.Totals.TotalCost,
		Version:           s.version,
	}
	id, err := s.store.Create(r.Context(), ticket)
	if err != nil {
		s.log.Error("ticket persist failed", zap.Error(err))
		s.fail("db_insert")
		writeError(w, http.StatusInternalServerError, "could not store ticket")
		return
	}

	// cache e publicação não bloqueiam a resposta
	if err := s.cache.Set(r.Context(), id, toTicketResponse(ticket)); err != nil {
		s.log.Warn("ticket cache set failed", zap.String("ticket_id", id), zap.Error(err))
		s.fail("cache")
	}
	if err := s.publ.PublishTicketGenerated(r.Context(), toEvent(ticket, now)); err != nil {
		s.log.Warn("ticket publish failed", zap.String("ticket_id", id), zap.Error(err))
		s.fail("publish")
	}

	if s.OnGenerated != nil {
		s.OnGenerated(rep.Totals)
	}
	s.log.Info("ticket generated",
		zap.String("ticket_id", id),
		zap.Int("combinations", rep.Totals.TotalCombinations),
		zap.Int64("total_cost", rep.Totals.TotalCost),
	)

	writeJSON(w, http.StatusCreated, dto.GenerateResponse{
		TicketID:          id,
		TotalCombinations: rep.Totals.TotalCombinations,
		TotalCost:         rep.Totals.TotalCost,
		TotalCostLabel:    combo.FormatPeso(rep.Totals.TotalCost),
		Output:            rep.Text,
	})
}

// getTicket retorna um bilhete, preferencialmente do cache
func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fromCache dto.TicketResponse
	if ok, err := s.cache.Get(r.Context(), id, &fromCache); ok && err == nil {
		writeJSON(w, http.StatusOK, fromCache)
		return
	} else if err != nil {
		s.log.Warn("ticket cache get failed", zap.String("ticket_id", id), zap.Error(err))
	}

	t, err := s.store.Get(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.log.Error("ticket load failed", zap.String("ticket_id", id), zap.Error(err))
		s.fail("db_select")
		writeError(w, http.StatusInternalServerError, "could not load ticket")
		return
	}

	resp := toTicketResponse(t)
	if err := s.cache.Set(r.Context(), id, resp); err != nil {
		s.log.Warn("ticket cache set failed", zap.String("ticket_id", id), zap.Error(err))
		s.fail("cache")
	}
	writeJSON(w, http.StatusOK, resp)
}

// previewTotals calcula os totais sem gerar o relatório; lista vazia devolve zeros
func (s *Server) previewTotals(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, dto.NewPreviewResponse(combo.PreviewTotals(req.Combinations)))
}

// exportBackup devolve o arquivo de backup para download
func (s *Server) exportBackup(w http.ResponseWriter, r *http.Request) {
	var req dto.ExportRequest
	if !s.decode(w, r, &req) {
		return
	}

	now := s.now()
	meta := backup.NewMetadata(req.Combinations, s.version, s.appURL, now)

	var buf bytes.Buffer
	if err := backup.Export(&buf, meta, req.Output, now); err != nil {
		if errors.Is(err, backup.ErrNoOutput) || errors.Is(err, backup.ErrNoRecords) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.fail("backup_export")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=lotto-backup-%d.txt", now.UnixMilli()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// importBackup lê um arquivo de backup enviado no corpo
func (s *Server) importBackup(w http.ResponseWriter, r *http.Request) {
	meta, err := backup.Import(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := dto.ImportResponse{Combinations: meta.Combinations, ExportDate: meta.ExportDate}
	if meta.AppVersion != nil {
		resp.AppVersion = *meta.AppVersion
	}
	s.log.Info("backup imported", zap.Int("combinations", len(meta.Combinations)))
	writeJSON(w, http.StatusOK, resp)
}

// getVersion expõe o rótulo de versão; 404 quando não configurado
func (s *Server) getVersion(w http.ResponseWriter, _ *http.Request) {
	if s.version == "" {
		writeError(w, http.StatusNotFound, "version unknown")
		return
	}
	writeJSON(w, http.StatusOK, dto.VersionResponse{Version: s.version})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	return true
}

func (s *Server) fail(stage string) {
	if s.OnError != nil {
		s.OnError(stage)
	}
}

func toTicketResponse(t *repo.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		TicketID:          t.ID,
		Combinations:      t.Combinations,
		TotalCombinations: t.TotalCombinations,
		TotalCost:         t.TotalCost,
		Output:            t.Output,
		Version:           t.Version,
		CreatedAt:         t.CreatedAt,
	}
}

func toEvent(t *repo.Ticket, at time.Time) events.TicketGenerated {
	combos := make([]events.Combination, len(t.Combinations))
	for i, c := range t.Combinations {
		combos[i] = events.Combination{
			Num1:        c.Num1,
			Num2:        c.Num2,
			Amount:      c.Amount,
			Buffer:      c.Buffer,
			IsRambolito: c.IsRambolito,
		}
	}
	return events.TicketGenerated{
		TicketID:          t.ID,
		Combinations:      combos,
		TotalCombinations: t.TotalCombinations,
		TotalCost:         t.TotalCost,
		Version:           t.Version,
		GeneratedAt:       at.UTC(),
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// withCORS libera o cliente web (página estática) a chamar a API
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
