package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/events/:id", "200"))
	RecordHTTPRequest("GET", "/events/:id", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/events/:id", "200"))
	assert.Equal(t, before+1, after)

	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 1.0)
}

func TestRecordAnnouncementPublish(t *testing.T) {
	ok := testutil.ToFloat64(AnnouncementsPublished.WithLabelValues("ok"))
	failed := testutil.ToFloat64(AnnouncementsPublished.WithLabelValues("error"))

	RecordAnnouncementPublish(nil)
	RecordAnnouncementPublish(errors.New("relay down"))

	assert.Equal(t, ok+1, testutil.ToFloat64(AnnouncementsPublished.WithLabelValues("ok")))
	assert.Equal(t, failed+1, testutil.ToFloat64(AnnouncementsPublished.WithLabelValues("error")))
}
