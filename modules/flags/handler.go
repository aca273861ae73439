package flags

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/flagkit/pkg/flag"
)

// handleError maps service errors onto HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, flag.ErrFlagNotFound):
		respondError(w, http.StatusNotFound, "flag_not_found", "flag not found")
	case errors.Is(err, flag.ErrFlagExists):
		respondError(w, http.StatusConflict, "flag_exists", "flag with this key already exists")
	case errors.Is(err, flag.ErrInvalidFlag):
		respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	case errors.Is(err, ErrInvalidWebhookURL):
		respondError(w, http.StatusUnprocessableEntity, "invalid_webhook_url", err.Error())
	case errors.Is(err, errMalformedBody):
		respondError(w, http.StatusBadRequest, "malformed_body", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Service) handleCreateFlag(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	created, err := s.CreateFlag(r.Context(), req.toFlag())
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, created)
}

func (s *Service) handleListFlags(w http.ResponseWriter, r *http.Request) {
	list, err := s.ListFlags(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (s *Service) handleGetFlag(w http.ResponseWriter, r *http.Request) {
	f, err := s.GetFlag(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, f)
}

func (s *Service) handleUpdateFlag(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	updated, err := s.UpdateFlag(r.Context(), chi.URLParam(r, "key"), req.toFlag())
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, updated)
}

func (s *Service) handleDeleteFlag(w http.ResponseWriter, r *http.Request) {
	if err := s.DeleteFlag(r.Context(), chi.URLParam(r, "key")); err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (s *Service) handleAddWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := s.AddWebhook(r.Context(), req.URL); err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"url": req.URL})
}

func (s *Service) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	urls, err := s.ListWebhooks(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, urls)
}

func (s *Service) handleRemoveWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := s.RemoveWebhook(r.Context(), req.URL); err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}

func (s *Service) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	decision, err := s.Evaluate(r.Context(), chi.URLParam(r, "key"), req.context(), req.Record, req.metric())
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, decision)
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	from, err := parseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_window", "from must be RFC 3339")
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_window", "to must be RFC 3339")
		return
	}

	summary, err := s.Summarize(r.Context(), chi.URLParam(r, "key"), from, to)
	if err != nil {
		handleError(w, err)
		return
	}
	respond(w, http.StatusOK, summary)
}

// parseTimeParam parses an optional RFC 3339 query parameter; empty
// means an open bound.
func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
