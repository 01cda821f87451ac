package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/UjjawalSah/MailScheduler/internal/errors"
	"github.com/UjjawalSah/MailScheduler/internal/handler"
	"github.com/UjjawalSah/MailScheduler/internal/model"
	"github.com/UjjawalSah/MailScheduler/internal/repository"
)

type counterRepo struct {
	mu     sync.Mutex
	opens  map[string]int
	clicks map[string]int
}

func newCounterRepo(jobIDs ...string) *counterRepo {
	r := &counterRepo{opens: make(map[string]int), clicks: make(map[string]int)}
	for _, id := range jobIDs {
		r.opens[id] = 0
		r.clicks[id] = 0
	}
	return r
}

func (r *counterRepo) IncrementCounter(jobID string, counter repository.Counter, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.opens[jobID]; !ok {
		return apperrors.NewNotFound("schedule", jobID)
	}
	switch counter {
	case repository.CounterOpen:
		r.opens[jobID] += delta
	case repository.CounterClick:
		r.clicks[jobID] += delta
	}
	return nil
}

func (r *counterRepo) Upsert(rec *model.ScheduleRecord) error { return nil }

func (r *counterRepo) FindByJobID(jobID string) (*model.ScheduleRecord, error) {
	return nil, apperrors.NewNotFound("schedule", jobID)
}

func (r *counterRepo) FindByForm(formID, accountEmail string) (*model.ScheduleRecord, error) {
	return nil, apperrors.NewNotFound("schedule", formID)
}

func (r *counterRepo) MarkStatusByJobID(jobID string, status model.EmailStatus, sentAt time.Time) error {
	return nil
}

func (r *counterRepo) MarkStatusByForm(formID, accountEmail string, status model.EmailStatus) error {
	return nil
}

func (r *counterRepo) ListScheduled() ([]*model.ScheduleRecord, error) { return nil, nil }

func newTrackingHandler(repo repository.ScheduleRepositoryInterface) *handler.TrackingHandler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &handler.TrackingHandler{ScheduleRepo: repo, Log: log}
}

func TestTrackOpenIncrementsAndServesPixel(t *testing.T) {
	repo := newCounterRepo("job-1")
	h := newTrackingHandler(repo)

	rr := httptest.NewRecorder()
	h.TrackOpen(rr, httptest.NewRequest(http.MethodGet, "/track_open?job_id=job-1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/gif", rr.Header().Get("Content-Type"))
	assert.Equal(t, byte('G'), rr.Body.Bytes()[0])
	assert.Equal(t, 1, repo.opens["job-1"])
}

func TestTrackOpenUnknownJobStillServesPixel(t *testing.T) {
	h := newTrackingHandler(newCounterRepo())

	rr := httptest.NewRecorder()
	h.TrackOpen(rr, httptest.NewRequest(http.MethodGet, "/track_open?job_id=missing", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/gif", rr.Header().Get("Content-Type"))
}

func TestTrackOpenMissingJobIDStillServesPixel(t *testing.T) {
	h := newTrackingHandler(newCounterRepo())

	rr := httptest.NewRecorder()
	h.TrackOpen(rr, httptest.NewRequest(http.MethodGet, "/track_open", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.Bytes())
}

func TestTrackClickRedirectsToOriginalURL(t *testing.T) {
	repo := newCounterRepo("job-1")
	h := newTrackingHandler(repo)

	original := "https://example.com/search?q=a&b=c"
	target := "/track_click?job_id=job-1&url=" + url.QueryEscape(original)
	rr := httptest.NewRecorder()
	h.TrackClick(rr, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, original, rr.Header().Get("Location"))
	assert.Equal(t, 1, repo.clicks["job-1"])
}

func TestTrackClickMissingParams(t *testing.T) {
	h := newTrackingHandler(newCounterRepo("job-1"))

	for _, target := range []string{
		"/track_click",
		"/track_click?job_id=job-1",
		"/track_click?url=https%3A%2F%2Fexample.com",
	} {
		rr := httptest.NewRecorder()
		h.TrackClick(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestTrackClickUnknownJobStillRedirects(t *testing.T) {
	h := newTrackingHandler(newCounterRepo())

	rr := httptest.NewRecorder()
	h.TrackClick(rr, httptest.NewRequest(
		http.MethodGet, "/track_click?job_id=missing&url=https%3A%2F%2Fexample.com", nil,
	))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://example.com", rr.Header().Get("Location"))
}

func TestTrackClickConcurrentCountsExact(t *testing.T) {
	repo := newCounterRepo("job-1")
	h := newTrackingHandler(repo)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := httptest.NewRecorder()
			h.TrackClick(rr, httptest.NewRequest(
				http.MethodGet, "/track_click?job_id=job-1&url=https%3A%2F%2Fexample.com", nil,
			))
		}()
	}
	wg.Wait()

	require.Equal(t, 50, repo.clicks["job-1"])
}
