package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
	"github.com/tanpawarit/customer-support-api/agent/normalize"
)

// handleRoot serves the web UI when an index.html is present.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if s.staticDir != "" {
		index := filepath.Join(s.staticDir, "index.html")
		if info, err := os.Stat(index); err == nil && !info.IsDir() {
			http.ServeFile(w, r, index)
			return
		}
	}
	writeJSON(w, http.StatusOK, contractx.NewAPIInfo())
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, contractx.NewAPIInfo())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, contractx.NewHealth())
}

func (s *Server) handleInquiry(w http.ResponseWriter, r *http.Request) {
	req, fieldErrs := decodeInquiry(w, r)
	if len(fieldErrs) > 0 {
		inquiriesTotal.WithLabelValues(outcomeInvalid).Inc()
		WriteValidationError(w, fieldErrs)
		return
	}

	// The processor runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())
	if s.cfg.InquiryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.InquiryTimeout)
		defer cancel()
	}

	result, err := s.processor.ProcessInquiry(ctx, req.Customer, req.Person, req.Inquiry)
	if err != nil {
		inquiriesTotal.WithLabelValues(outcomeFailure).Inc()
		s.logger.Error().
			Err(err).
			Str("request_id", GetRequestID(r.Context())).
			Str("customer", req.Customer).
			Msg("process inquiry failed")
		WriteDetail(w, http.StatusInternalServerError, "Error processing inquiry: "+err.Error())
		return
	}

	inquiriesTotal.WithLabelValues(outcomeSuccess).Inc()
	writeJSON(w, http.StatusOK, contractx.Answered(normalize.Text(result)))
}
