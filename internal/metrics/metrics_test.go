// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/posts/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/posts/{slug}", "418"))
	for _, slug := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/"+slug, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/posts/{slug}", "418"))

	if after-before != 3 {
		t.Errorf("requests_total delta: got %v, want 3", after-before)
	}
}

func TestDomainCounters(t *testing.T) {
	views := testutil.ToFloat64(postViews)
	RecordView()
	if got := testutil.ToFloat64(postViews); got != views+1 {
		t.Errorf("views: got %v, want %v", got, views+1)
	}

	pending := testutil.ToFloat64(commentsCreated.WithLabelValues("PENDING"))
	RecordComment("PENDING")
	if got := testutil.ToFloat64(commentsCreated.WithLabelValues("PENDING")); got != pending+1 {
		t.Errorf("comments: got %v, want %v", got, pending+1)
	}

	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))
	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)
	if got := testutil.ToFloat64(cacheLookups.WithLabelValues("hit")); got != hits+1 {
		t.Errorf("hits: got %v", got)
	}
	if got := testutil.ToFloat64(cacheLookups.WithLabelValues("miss")); got != misses+2 {
		t.Errorf("misses: got %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordView()
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "inkwell_posts_views_total") {
		t.Error("views counter missing from exposition")
	}
}
