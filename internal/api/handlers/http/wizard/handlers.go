package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"hazardsync/internal/capture"
	"hazardsync/internal/domain"
	"hazardsync/internal/middleware"
	"hazardsync/pkg/e"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Wizard interface {
	Snapshot() capture.View
	SetDetails(d capture.Details) error
	ArmLocation(lat, lng float64) error
	ConfirmLocation(ctx context.Context) (domain.Location, error)
	AttachPhoto(filename string, data []byte) error
	SetContact(c capture.Contact) error
	Next() (capture.Step, error)
	Back() (capture.Step, error)
	Submit(ctx context.Context) (domain.SubmitResult, error)
	Reset()
}

type Handler struct {
	logger        *slog.Logger
	Wizard        Wizard
	maxPhotoBytes int64
}

func NewHandler(logger *slog.Logger, wizard Wizard, maxPhotoBytes int64) *Handler {
	return &Handler{
		logger:        logger,
		Wizard:        wizard,
		maxPhotoBytes: maxPhotoBytes,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) CaptureGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Wizard.Snapshot())
}

func (h *Handler) CaptureDetails(w http.ResponseWriter, r *http.Request) {
	var req capture.Details
	if err := middleware.BindJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.Wizard.SetDetails(req); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Wizard.Snapshot())
}

type armRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

func (h *Handler) CaptureArmLocation(w http.ResponseWriter, r *http.Request) {
	var req armRequest
	if err := middleware.BindJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.Wizard.ArmLocation(*req.Lat, *req.Lng); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.log(r).Debug("location armed", slog.Float64("lat", *req.Lat), slog.Float64("lng", *req.Lng))
	writeJSON(w, http.StatusAccepted, h.Wizard.Snapshot())
}

func (h *Handler) CaptureConfirmLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := h.Wizard.ConfirmLocation(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (h *Handler) CapturePhoto(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	// multipart framing on top of the photo itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+(1<<20))

	file, header, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.handleError(w, r, e.NewValidationError("photo", "exceeds the upload size limit"))
		case errors.Is(err, http.ErrMissingFile):
			h.handleError(w, r, e.NewValidationError("photo", "is required"))
		default:
			l.Warn("invalid multipart body", slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected multipart form with a photo file"})
		}
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxPhotoBytes+1))
	if err != nil {
		h.handleError(w, r, e.Wrap("read photo", e.ErrInvalidInput))
		return
	}

	if err := h.Wizard.AttachPhoto(header.Filename, data); err != nil {
		h.handleError(w, r, err)
		return
	}
	l.Info("photo attached", slog.String("filename", header.Filename), slog.Int("bytes", len(data)))
	writeJSON(w, http.StatusOK, h.Wizard.Snapshot())
}

func (h *Handler) CaptureContact(w http.ResponseWriter, r *http.Request) {
	var req capture.Contact
	if err := middleware.BindJSON(w, r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.Wizard.SetContact(req); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Wizard.Snapshot())
}

func (h *Handler) CaptureNext(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Wizard.Next(); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Wizard.Snapshot())
}

func (h *Handler) CaptureBack(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Wizard.Back(); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Wizard.Snapshot())
}

func (h *Handler) CaptureSubmit(w http.ResponseWriter, r *http.Request) {
	res, err := h.Wizard.Submit(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.Status == domain.SubmitQueued {
		status = http.StatusAccepted
	}
	h.log(r).Info("capture submitted",
		slog.String("local_id", res.LocalID),
		slog.String("status", string(res.Status)))
	writeJSON(w, status, res)
}

func (h *Handler) CaptureReset(w http.ResponseWriter, r *http.Request) {
	h.Wizard.Reset()
	writeJSON(w, http.StatusOK, h.Wizard.Snapshot())
}
