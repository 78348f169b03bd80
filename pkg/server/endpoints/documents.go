package endpoints

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/monish1402/insurance-llm-system1/pkg/audit"
	"github.com/monish1402/insurance-llm-system1/pkg/identity"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// DocumentListResponse is a paginated document listing.
type DocumentListResponse struct {
	Documents []model.Document `json:"documents"`
	Total     int64            `json:"total"`
	Skip      int              `json:"skip"`
	Limit     int              `json:"limit"`
}

// RegisterDocumentsEndpoints registers the document management endpoints
func RegisterDocumentsEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/api/v1/documents").Subrouter()
	router.Use(s.JWTMiddleware.Middleware)

	router.HandleFunc("/upload", handleUploadDocument(s)).Methods("POST")
	router.HandleFunc("", handleListDocuments(s.DocumentsStore)).Methods("GET")
	router.HandleFunc("/{id}", handleGetDocument(s.DocumentsStore)).Methods("GET")
	router.HandleFunc("/{id}", handleDeleteDocument(s)).Methods("DELETE")
}

func handleUploadDocument(s *server.Server) http.HandlerFunc {
	cfg := s.Config
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := identity.Get(r.Context())
		userID := "anonymous"
		if id != nil {
			userID = id.UserID
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxFileSize)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			respondWithError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "multipart field 'file' is required")
			return
		}
		defer func() { _ = file.Close() }()

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
		if !cfg.IsFileTypeAllowed(ext) {
			audit.Log(audit.DocumentUploadEvent{
				UserID:       userID,
				ClientIP:     clientIP(r),
				Filename:     header.Filename,
				FileType:     ext,
				Success:      false,
				ErrorMessage: "file type not allowed",
			})
			respondWithError(w, http.StatusBadRequest, "file type not allowed: "+ext)
			return
		}

		documentType := r.FormValue("document_type")
		if documentType == "" {
			documentType = "policy"
		}

		docID := uuid.New()
		storedName := docID.String() + "." + ext
		path := filepath.Join(cfg.UploadDir, storedName)

		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to store file")
			return
		}
		dest, err := os.Create(path)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to store file")
			return
		}
		size, err := io.Copy(dest, file)
		closeErr := dest.Close()
		if err != nil || closeErr != nil {
			_ = os.Remove(path)
			respondWithError(w, http.StatusInternalServerError, "failed to store file")
			return
		}

		doc := &model.Document{
			ID:               docID,
			Filename:         storedName,
			OriginalFilename: header.Filename,
			FilePath:         path,
			FileSize:         size,
			FileType:         ext,
			DocumentType:     documentType,
			ProcessingStatus: model.StatusPending,
		}
		if err := s.DocumentsStore.CreateDocument(doc); err != nil {
			_ = os.Remove(path)
			respondWithError(w, http.StatusInternalServerError, "failed to create document record")
			return
		}

		if err := s.Processor.Enqueue(docID); err != nil {
			_ = s.DocumentsStore.DeleteDocument(docID)
			_ = os.Remove(path)
			respondWithError(w, http.StatusServiceUnavailable, "processing queue is full, try again later")
			return
		}

		audit.Log(audit.DocumentUploadEvent{
			UserID:     userID,
			ClientIP:   clientIP(r),
			DocumentID: docID.String(),
			Filename:   header.Filename,
			FileType:   ext,
			Success:    true,
		})

		respondWithJSON(w, http.StatusCreated, doc)
	}
}

func handleListDocuments(documents store.DocumentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.DocumentFilter{
			Skip:         queryInt(r, "skip", 0),
			Limit:        queryInt(r, "limit", 100),
			DocumentType: r.URL.Query().Get("document_type"),
		}

		docs, total, err := documents.ListDocuments(filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list documents")
			return
		}

		respondWithJSON(w, http.StatusOK, DocumentListResponse{
			Documents: docs,
			Total:     total,
			Skip:      filter.Skip,
			Limit:     filter.Limit,
		})
	}
}

func handleGetDocument(documents store.DocumentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid document id")
			return
		}

		doc, err := documents.GetDocument(docID)
		if err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch document")
			return
		}

		respondWithJSON(w, http.StatusOK, doc)
	}
}

func handleDeleteDocument(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid document id")
			return
		}

		id, _ := identity.Get(r.Context())
		userID := "anonymous"
		if id != nil {
			userID = id.UserID
		}

		doc, err := s.DocumentsStore.GetDocument(docID)
		if err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				respondWithError(w, http.StatusNotFound, "document not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch document")
			return
		}

		if err := s.ChunksStore.DeleteChunksForDocument(docID); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete document chunks")
			return
		}
		if err := s.DocumentsStore.DeleteDocument(docID); err != nil {
			audit.Log(audit.DocumentDeleteEvent{
				UserID:       userID,
				ClientIP:     clientIP(r),
				DocumentID:   docID.String(),
				Success:      false,
				ErrorMessage: err.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "failed to delete document")
			return
		}

		// Stored file removal is best effort
		_ = os.Remove(doc.FilePath)

		audit.Log(audit.DocumentDeleteEvent{
			UserID:     userID,
			ClientIP:   clientIP(r),
			DocumentID: docID.String(),
			Success:    true,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return fallback
	}
	return i
}
