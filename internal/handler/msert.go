package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getmsert/logmailer/internal/intake"
	"github.com/getmsert/logmailer/internal/mailer"
)

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// MsertHandler receives Microsoft Safety Scanner logs and forwards them by
// email.
type MsertHandler struct {
	BaseHandler
	sender         Sender
	from           string
	recipients     []string
	maxUploadBytes int64
}

// NewMsertHandler creates the log intake handler. maxUploadBytes caps the
// request body; zero leaves it uncapped.
func NewMsertHandler(logger *slog.Logger, sender Sender, from string, recipients []string, maxUploadBytes int64) *MsertHandler {
	return &MsertHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		sender:         sender,
		from:           from,
		recipients:     recipients,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload emails the first file in the multipart body to the configured
// recipients and answers with an empty 200.
func (h *MsertHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		h.Logger.Warn("msert: not a multipart request", "error", err)
		h.badRequestResponse(w, r, fmt.Errorf("%w: %v", intake.ErrMissingUpload, err))
		return
	}

	upload, err := intake.ReadUpload(mr)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			h.Logger.Warn("msert: upload too large", "limit", maxBytesError.Limit)
			h.errorResponse(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("body must not be larger than %d bytes", maxBytesError.Limit))
		case errors.Is(err, intake.ErrMissingUpload):
			h.Logger.Warn("msert: request rejected", "error", err)
			h.badRequestResponse(w, r, err)
		default:
			h.Logger.Warn("msert: form parse failed", "error", err)
			h.badRequestResponse(w, r, errors.New("invalid multipart body"))
		}
		return
	}

	req, err := intake.Parse(*upload)
	if err != nil {
		h.Logger.Warn("msert: request rejected", "error", err)
		h.badRequestResponse(w, r, err)
		return
	}

	h.Logger.Info("msert: log received",
		"computer", req.ComputerName,
		"filename", req.SanitizedFilename,
		"bytes", len(upload.Data),
	)

	if err := h.sender.Send(r.Context(), req.Message(h.from, h.recipients)); err != nil {
		h.serverErrorResponse(w, r, fmt.Errorf("msert: email delivery failed: %w", err))
		return
	}

	h.Logger.Info("msert: log delivered", "computer", req.ComputerName, "recipients", len(h.recipients))
	w.WriteHeader(http.StatusOK)
}
