package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pdf-assistant/internal/usecase"
)

type Server struct {
	chatUC    usecase.ChatUseCase
	fileUC    usecase.FileUseCase
	signer    *DownloadSigner
	hub       *Hub
	maxUpload int64
	log       *zerolog.Logger
}

func NewServer(
	chatUC usecase.ChatUseCase,
	fileUC usecase.FileUseCase,
	signer *DownloadSigner,
	hub *Hub,
	maxUploadBytes int64,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		chatUC:    chatUC,
		fileUC:    fileUC,
		signer:    signer,
		hub:       hub,
		maxUpload: maxUploadBytes,
		log:       logger,
	}
}

// Router builds the full route tree. Everything under /api/v1 is a thin
// adapter over the use cases; expected pipeline failures come back as
// composed messages with HTTP 200, never as transport faults.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "message": "PDF Assistant API is running"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/chat", func(r chi.Router) {
			r.Post("/message", s.handleSendMessage)
			r.Get("/history/{sessionID}", s.handleHistory)
			r.Delete("/history/{sessionID}", s.handleClearHistory)
			r.Get("/sessions", s.handleSessions)
		})
		r.Route("/files", func(r chi.Router) {
			r.Post("/upload", s.handleUpload)
			r.Get("/list/{sessionID}", s.handleListFiles)
			r.Delete("/{fileID}", s.handleDeleteFile)
			r.Post("/set-current", s.handleSetCurrent)
			r.Get("/info/{sessionID}/{fileID}", s.handleFileInfo)
			r.Get("/download/{token}", s.handleDownload)
		})
		r.Route("/pdf", func(r chi.Router) {
			r.Get("/operations", s.handleOperations)
		})
	})

	r.Get("/ws/{clientID}", func(w http.ResponseWriter, r *http.Request) {
		s.hub.Serve(w, r, chi.URLParam(r, "clientID"))
	})

	return r
}
