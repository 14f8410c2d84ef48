package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transcription metrics
	transcriptionsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transcript_service_transcriptions_in_flight",
		Help: "Number of transcription requests currently being processed",
	})

	transcriptionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcript_service_transcriptions_total",
		Help: "Total number of transcription requests by outcome",
	}, []string{"outcome"}) // outcome: "success" or an error kind

	transcriptionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transcript_service_transcription_duration_seconds",
		Help:    "End-to-end duration of transcription requests in seconds",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	segmentsParsed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transcript_service_segments_per_transcript",
		Help:    "Number of segments produced per parsed transcript",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})

	// Gemini capability metrics
	geminiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcript_service_gemini_requests_total",
		Help: "Total number of Gemini API requests",
	}, []string{"status"})

	geminiLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transcript_service_gemini_latency_seconds",
		Help:    "Gemini API call latency in seconds",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})

	// Storage metrics
	storageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transcript_service_storage_operations_total",
		Help: "Total number of object storage operations",
	}, []string{"operation", "status"}) // operation: "presign", "download", "delete"

	storageBytesDownloaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcript_service_storage_bytes_downloaded_total",
		Help: "Total bytes downloaded from object storage",
	})

	// Session metrics
	segmentEdits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcript_service_segment_edits_total",
		Help: "Total number of in-place segment text edits",
	})

	sessionResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transcript_service_session_resets_total",
		Help: "Total number of session resets",
	})
)

// RequestMetrics tracks timing for a single transcription request
type RequestMetrics struct {
	startTime       time.Time
	geminiStartTime time.Time
}

// NewRequestMetrics creates a metrics tracker for a transcription request
func NewRequestMetrics() *RequestMetrics {
	transcriptionsInFlight.Inc()
	return &RequestMetrics{startTime: time.Now()}
}

// RecordGeminiStart records the start of the Gemini API call
func (m *RequestMetrics) RecordGeminiStart() {
	m.geminiStartTime = time.Now()
}

// RecordGeminiEnd records the end of the Gemini API call
func (m *RequestMetrics) RecordGeminiEnd(success bool) {
	if !m.geminiStartTime.IsZero() {
		geminiLatency.Observe(time.Since(m.geminiStartTime).Seconds())
	}

	status := "success"
	if !success {
		status = "error"
	}
	geminiRequests.WithLabelValues(status).Inc()
}

// RecordOutcome records the terminal outcome of the request and the
// overall duration. outcome is "success" or an error kind label.
func (m *RequestMetrics) RecordOutcome(outcome string) {
	transcriptionsInFlight.Dec()
	transcriptionDuration.Observe(time.Since(m.startTime).Seconds())
	transcriptionRequests.WithLabelValues(outcome).Inc()
}

// RecordSegments records how many segments a parse produced
func RecordSegments(count int) {
	segmentsParsed.Observe(float64(count))
}

// RecordStorageOperation records a storage operation result
func RecordStorageOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	storageOperations.WithLabelValues(operation, status).Inc()
}

// RecordStorageDownload records bytes fetched from storage
func RecordStorageDownload(bytes int64) {
	storageBytesDownloaded.Add(float64(bytes))
}

// RecordSegmentEdit records an in-place segment edit
func RecordSegmentEdit() {
	segmentEdits.Inc()
}

// RecordSessionReset records a session reset
func RecordSessionReset() {
	sessionResets.Inc()
}
