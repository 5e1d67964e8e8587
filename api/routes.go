package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /{$}", s.handleRoot)
	s.router.HandleFunc("GET "+contractx.APIInfoPath, s.handleAPIInfo)
	s.router.HandleFunc("GET "+contractx.HealthPath, s.handleHealth)
	s.router.HandleFunc("POST "+contractx.InquiryPath, s.handleInquiry)

	s.router.Handle("GET /metrics", promhttp.Handler())

	if s.staticDir != "" {
		s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	}
}
