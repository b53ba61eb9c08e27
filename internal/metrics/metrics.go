package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"studyhub/internal/db"
)

var (
	keywordUsageDesc = prometheus.NewDesc(
		"studyhub_keyword_usage",
		"Keyword usage count by canonical key and content bucket",
		[]string{"keyword", "bucket"},
		nil,
	)
	keywordCountDesc = prometheus.NewDesc(
		"studyhub_keywords_tracked",
		"Number of keywords currently in the usage ledger",
		nil,
		nil,
	)
)

// KeywordCollector is a custom Prometheus collector that reads the keyword
// usage ledger from the database on each scrape.
type KeywordCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *KeywordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- keywordUsageDesc
	ch <- keywordCountDesc
}

// Collect queries the ledger and emits one gauge per keyword and bucket.
// Counters are wrong here: a sweep can shrink the values.
func (c *KeywordCollector) Collect(ch chan<- prometheus.Metric) {
	rows, err := c.db.AllKeywords(context.Background())
	if err != nil {
		slog.Error("failed to collect keyword usage metrics", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(keywordCountDesc, prometheus.GaugeValue, float64(len(rows)))

	for _, k := range rows {
		buckets := map[string]int64{
			"lecture":    k.Usage.Lecture,
			"document":   k.Usage.Document,
			"collection": k.Usage.Collection,
		}
		for bucket, count := range buckets {
			if count == 0 {
				continue
			}
			ch <- prometheus.MustNewConstMetric(
				keywordUsageDesc,
				prometheus.GaugeValue,
				float64(count),
				k.CanonicalKey,
				bucket,
			)
		}
	}
}

var registerOnce sync.Once

// Init registers the custom collector. Must be called once at startup.
func Init(database *db.DB) {
	registerOnce.Do(func() {
		prometheus.MustRegister(&KeywordCollector{db: database})
	})
}
