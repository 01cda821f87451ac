package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	apperrors "github.com/UjjawalSah/MailScheduler/internal/errors"
	"github.com/UjjawalSah/MailScheduler/internal/repository"
)

// A 1x1 transparent GIF, served for every open callback.
var trackingGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackingHandler receives engagement callbacks fired from inside delivered
// emails. Both endpoints are best-effort: counter failures are logged, never
// surfaced, because the caller is a mail client rendering an image or a
// recipient following a link.
type TrackingHandler struct {
	ScheduleRepo repository.ScheduleRepositoryInterface
	Log          *logrus.Logger
}

// TrackOpen handles GET /track_open. It always answers 200 with the pixel
// bytes so broken tracking never shows up in the email body.
func (h *TrackingHandler) TrackOpen(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		h.Log.Error("track_open called without job_id")
	} else if err := h.ScheduleRepo.IncrementCounter(jobID, repository.CounterOpen, 1); err != nil {
		if apperrors.IsNotFound(err) {
			h.Log.WithField("job_id", jobID).Warn("open tracked for unknown job")
		} else {
			h.Log.WithField("job_id", jobID).WithError(err).Error("failed to record open")
		}
	}

	w.Header().Set("Content-Type", "image/gif")
	w.WriteHeader(http.StatusOK)
	w.Write(trackingGIF)
}

// TrackClick handles GET /track_click. It records the click and redirects to
// the original destination, which arrives percent-encoded in the url param
// and is decoded exactly once by the query parser.
func (h *TrackingHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	jobID := query.Get("job_id")
	target := query.Get("url")
	if jobID == "" || target == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.ScheduleRepo.IncrementCounter(jobID, repository.CounterClick, 1); err != nil {
		if apperrors.IsNotFound(err) {
			h.Log.WithField("job_id", jobID).Warn("click tracked for unknown job")
		} else {
			h.Log.WithField("job_id", jobID).WithError(err).Error("failed to record click")
		}
	}

	http.Redirect(w, r, target, http.StatusFound)
}
