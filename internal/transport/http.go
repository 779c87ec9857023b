// Package transport exposes the read-only ledger explorer over HTTP. All
// state changes go through the MCP tools; these endpoints only observe.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/crowdvault/internal/addr"
	"github.com/rpggio/crowdvault/internal/domain/funding"
)

const defaultJournalLimit = 50

// Ledger defines the read operations needed by the explorer.
type Ledger interface {
	Counter(ctx context.Context) (*funding.Counter, error)
	Project(ctx context.Context, project addr.Address) (*funding.Project, error)
	Projects(ctx context.Context) ([]funding.Project, error)
	Vault(ctx context.Context, project addr.Address) (*funding.Vault, error)
	Contributions(ctx context.Context, project addr.Address) ([]funding.Contribution, error)
	Balance(ctx context.Context, address addr.Address) (uint64, error)
	RecentJournal(ctx context.Context, limit int) ([]funding.JournalEntry, error)
}

// Server wires explorer HTTP handlers.
type Server struct {
	ledger Ledger
	logger *slog.Logger
}

// NewRouter creates the explorer router.
func NewRouter(ledger Ledger, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	srv := &Server{ledger: ledger, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Get("/v1/counter", srv.handleCounter)
	r.Get("/v1/projects", srv.handleListProjects)
	r.Get("/v1/projects/{address}", srv.handleGetProject)
	r.Get("/v1/projects/{address}/vault", srv.handleGetVault)
	r.Get("/v1/projects/{address}/contributions", srv.handleListContributions)
	r.Get("/v1/accounts/{address}/balance", srv.handleGetBalance)
	r.Get("/v1/journal", srv.handleJournal)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCounter(w http.ResponseWriter, r *http.Request) {
	counter, err := s.ledger.Counter(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, counter)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.ledger.Projects(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if projects == nil {
		projects = []funding.Project{}
	}
	s.writeJSON(w, map[string]any{"projects": projects})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	address, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	project, err := s.ledger.Project(r.Context(), address)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, project)
}

func (s *Server) handleGetVault(w http.ResponseWriter, r *http.Request) {
	address, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	vault, err := s.ledger.Vault(r.Context(), address)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, vault)
}

func (s *Server) handleListContributions(w http.ResponseWriter, r *http.Request) {
	address, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	contributions, err := s.ledger.Contributions(r.Context(), address)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if contributions == nil {
		contributions = []funding.Contribution{}
	}
	s.writeJSON(w, map[string]any{"contributions": contributions})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	address, ok := s.pathAddress(w, r)
	if !ok {
		return
	}
	balance, err := s.ledger.Balance(r.Context(), address)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"address": address.String(), "balance": balance})
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}
	entries, err := s.ledger.RecentJournal(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []funding.JournalEntry{}
	}
	s.writeJSON(w, map[string]any{"entries": entries})
}

func (s *Server) pathAddress(w http.ResponseWriter, r *http.Request) (addr.Address, bool) {
	address, err := addr.Parse(chi.URLParam(r, "address"))
	if err != nil {
		http.Error(w, "invalid address", http.StatusBadRequest)
		return addr.Address{}, false
	}
	return address, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, funding.ErrProjectNotFound),
		errors.Is(err, funding.ErrVaultNotFound),
		errors.Is(err, funding.ErrContributionNotFound),
		errors.Is(err, funding.ErrCounterNotInitialized):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		if s.logger != nil {
			s.logger.Error("explorer request failed", "error", err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
