package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorsRegistered(t *testing.T) {
	Mutations.WithLabelValues("posts", "create", "ok").Inc()
	CacheHits.WithLabelValues("posts").Inc()
	UploadRejections.Inc()

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	want := map[string]bool{
		"viya_api_mutations_total":     false,
		"viya_cache_hits_total":        false,
		"viya_upload_rejections_total": false,
	}
	for _, mf := range mfs {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("%s not gathered", name)
		}
	}
}
