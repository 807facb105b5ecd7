package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"networth/internal/amqp"
	"networth/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.traceMiddleware.GetMetrics()
	NewHTMXResponse().
		BodyJSON(map[string]any{
			"status":         "ok",
			"timestamp":      time.Now().Format(time.RFC3339),
			"uptime":         time.Since(s.started).Round(time.Second).String(),
			"requests_total": metrics.TotalRequests,
			"server_errors":  metrics.ServerErrors,
		}).
		Write(w)
}

// handleReady reports whether templates are loaded and the store answers a ping
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if err := s.svc.Ready(ctx); err != nil {
		s.logger.WarnContext(ctx, "Readiness check failed", log.FieldError, err)
		checks["storage"] = "failed: " + err.Error()
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	NewHTMXResponse().
		Status(httpStatus).
		BodyJSON(map[string]any{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"checks":    checks,
		}).
		Write(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	items, err := s.svc.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, false, log.OpList, err)
		return
	}
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, false, log.OpSnapshot, err)
		return
	}

	data := struct {
		Items   []itemView
		Summary summaryView
	}{
		Items:   newItemViews(items, s.currency),
		Summary: newSummaryView(sum, s.currency),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", "template", "index.html", log.FieldError, err)
	}
}

// handleItemsPartial renders the line item table.
func (s *Server) handleItemsPartial(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, false, log.OpList, err)
		return
	}
	s.renderPartial(w, r, "items", newItemViews(items, s.currency))
}

// handleEditPartial renders the inline edit row for one item.
func (s *Server) handleEditPartial(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		s.writeError(w, r, false, log.OpRead, err)
		return
	}
	li, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, false, log.OpRead, err)
		return
	}
	s.renderPartial(w, r, "item_edit", newItemView(li, s.currency))
}

// handleSummaryPartial renders totals and composition.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, false, log.OpSnapshot, err)
		return
	}
	s.renderPartial(w, r, "summary", newSummaryView(sum, s.currency))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	parseErr := p.Parse()
	asJSON := wantsJSON(r, p)
	if parseErr != nil {
		s.writeBadBody(w, asJSON)
		return
	}

	li, err := s.svc.Create(r.Context(), p.LineItemInput())
	if err != nil {
		s.writeError(w, r, asJSON, log.OpCreate, err)
		return
	}

	if asJSON {
		NewHTMXResponse().
			Status(http.StatusCreated).
			Header("Location", "/items/"+strconv.FormatInt(li.ID, 10)).
			BodyJSON(newLineItemResponse(li)).
			Write(w)
		return
	}
	SuccessResponse("Added "+li.Name).
		TriggerLineItemsChanged(li.ID, string(amqp.ActionCreated)).
		TriggerSuccessNotification("Added "+li.Name).
		Write(w)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		s.writeError(w, r, true, log.OpRead, err)
		return
	}
	li, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, true, log.OpRead, err)
		return
	}
	NewHTMXResponse().BodyJSON(newLineItemResponse(li)).Write(w)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	parseErr := p.Parse()
	asJSON := wantsJSON(r, p)

	id, err := parseItemID(r)
	if err != nil {
		s.writeError(w, r, asJSON, log.OpUpdate, err)
		return
	}
	if parseErr != nil {
		s.writeBadBody(w, asJSON)
		return
	}

	if err := s.svc.Update(r.Context(), id, p.LineItemInput()); err != nil {
		s.writeError(w, r, asJSON, log.OpUpdate, err)
		return
	}

	if asJSON {
		li, err := s.svc.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, asJSON, log.OpRead, err)
			return
		}
		NewHTMXResponse().BodyJSON(newLineItemResponse(li)).Write(w)
		return
	}
	SuccessResponse("Saved").
		TriggerLineItemsChanged(id, string(amqp.ActionUpdated)).
		TriggerSuccessNotification("Line item saved").
		Write(w)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	asJSON := wantsJSON(r, nil)

	id, err := parseItemID(r)
	if err != nil {
		s.writeError(w, r, asJSON, log.OpDelete, err)
		return
	}
	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, asJSON, log.OpDelete, err)
		return
	}

	if asJSON {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	SuccessResponse("Deleted").
		TriggerLineItemsChanged(id, string(amqp.ActionDeleted)).
		TriggerSuccessNotification("Line item deleted").
		Write(w)
}

func (s *Server) handleAPIItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, true, log.OpList, err)
		return
	}
	out := make([]lineItemResponse, 0, len(items))
	for _, li := range sortByName(items) {
		out = append(out, newLineItemResponse(li))
	}
	NewHTMXResponse().BodyJSON(out).Write(w)
}

func (s *Server) handleAPITotals(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, true, log.OpSnapshot, err)
		return
	}
	NewHTMXResponse().BodyJSON(newTotalsResponse(sum.Totals, s.currency)).Write(w)
}

func (s *Server) handleAPIComposition(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, true, log.OpSnapshot, err)
		return
	}
	NewHTMXResponse().BodyJSON(newShareResponses(sum.Shares)).Write(w)
}
