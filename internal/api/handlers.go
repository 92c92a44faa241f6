package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen/internal/model"
	"github.com/sells-group/leadgen/internal/pipeline"
	"github.com/sells-group/leadgen/internal/store"
)

// SearchSuccessMessage is returned with every completed search.
const SearchSuccessMessage = "Leads encontrados com sucesso!"

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.leads != nil {
		if err := s.leads.Ping(r.Context()); err != nil {
			zap.L().Warn("api: health check store ping failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": "unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// searchRequest accepts the Portuguese field name "termo" and "term".
type searchRequest struct {
	UserID string   `json:"id_user"`
	Termo  string   `json:"termo"`
	Term   string   `json:"term"`
	Num    int      `json:"num"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

func (req searchRequest) toPipeline() (pipeline.Request, error) {
	if req.Lat == nil || req.Lng == nil {
		return pipeline.Request{}, eris.New("lat and lng are required")
	}
	return pipeline.Request{
		TenantID:    req.UserID,
		Term:        model.FirstNonEmpty(strings.TrimSpace(req.Termo), strings.TrimSpace(req.Term)),
		TargetCount: req.Num,
		Latitude:    *req.Lat,
		Longitude:   *req.Lng,
	}, nil
}

type searchResponse struct {
	Message string              `json:"message"`
	Leads   []model.StorageLead `json:"leads"`
	Stored  int                 `json:"stored"`
}

func (s *Server) handleSearchLeads(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := body.toPipeline()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.runner.Run(context.WithoutCancel(r.Context()), req)
	if err != nil {
		if eris.Is(err, pipeline.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("api: search failed", zap.String("tenant_id", req.TenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Message: SearchSuccessMessage,
		Leads:   res.Leads,
		Stored:  res.Stored,
	})
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.LeadFilter{TenantID: strings.TrimSpace(q.Get("tenant_id"))}
	if filter.TenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}

	leads, err := s.leads.ListLeads(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list leads failed", zap.String("tenant_id", filter.TenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list leads failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		writeError(w, http.StatusServiceUnavailable, "no model backend configured")
		return
	}

	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	text, err := s.chat.Chat(r.Context(), body.Prompt)
	if err != nil {
		zap.L().Error("api: chat failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "model call failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": text})
}
