package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

// ImportHandler handles dataset uploads
type ImportHandler struct {
	ticketService ports.TicketService
	errorHandler  *ErrorHandler
	maxBytes      int64
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(
	ticketService ports.TicketService,
	errorHandler *ErrorHandler,
	maxBytes int64,
	logger *slog.Logger,
) *ImportHandler {
	return &ImportHandler{
		ticketService: ticketService,
		errorHandler:  errorHandler,
		maxBytes:      maxBytes,
		logger:        logger.With("handler", "import"),
	}
}

// Routes returns the routing for import endpoints. uploadMiddlewares wrap
// the upload endpoint only.
func (h *ImportHandler) Routes(uploadMiddlewares ...func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.With(uploadMiddlewares...).Post("/", h.HandleUpload)
		r.Get("/latest", h.HandleLatest)
	}
}

// HandleUpload handles POST /imports with a multipart "file" field.
// The optional "format" field overrides detection from the file name.
func (h *ImportHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r, h.errorHandler)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.Handle(w, r, apperrors.ErrUploadTooLarge)
			return
		}
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Request must be multipart/form-data with a file field"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Missing file field"))
		return
	}
	defer file.Close()

	if header.Size == 0 {
		h.errorHandler.Handle(w, r, apperrors.ErrEmptyUpload)
		return
	}

	imp, err := h.ticketService.ImportTickets(r.Context(), ports.ImportTicketsParams{
		Session:  session,
		FileName: header.Filename,
		Format:   domain.ImportFormat(r.FormValue("format")),
		Content:  file,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset uploaded",
		"import_id", imp.ID,
		"file_name", imp.FileName,
		"bytes", header.Size,
	)

	WriteCreated(w, domain.NewImportSnapshot(imp))
}

// HandleLatest handles GET /imports/latest
func (h *ImportHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r, h.errorHandler)
	if !ok {
		return
	}

	imp, err := h.ticketService.LatestImport(r.Context(), session)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, domain.NewImportSnapshot(imp))
}
