package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/odpf/jobpack/core/pipeline"
	"github.com/odpf/jobpack/core/progress"
)

const (
	metricNamespace = "jobpack"
	pushJobName     = "jobpack_submit"

	submissionSuccess = "success"
	submissionFailure = "failure"
)

// Recorder turns pipeline events into prometheus metrics of a single run
type Recorder struct {
	registry *prometheus.Registry

	archiveFiles    prometheus.Gauge
	archiveBytes    prometheus.Gauge
	uploadedObjects prometheus.Counter
	cleanedFiles    prometheus.Counter
	submissions     *prometheus.CounterVec
}

func (r *Recorder) Notify(evt progress.Event) {
	switch e := evt.(type) {
	case *pipeline.EventArchiveCreated:
		r.archiveFiles.Set(float64(e.Files))
		r.archiveBytes.Set(float64(e.Bytes))
	case *pipeline.EventObjectUploaded:
		r.uploadedObjects.Inc()
	case *pipeline.EventArtifactCleaned:
		r.cleanedFiles.Inc()
	case *pipeline.EventJobSubmitted:
		result := submissionSuccess
		if e.Err != nil {
			result = submissionFailure
		}
		r.submissions.WithLabelValues(result).Inc()
	}
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Push sends the recorded metrics to a prometheus pushgateway at addr
func (r *Recorder) Push(addr string, labels map[string]string) error {
	pusher := push.New(addr, pushJobName).Gatherer(r.registry)
	for name, value := range labels {
		pusher = pusher.Grouping(name, value)
	}
	return pusher.Push()
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Recorder{
		registry: registry,
		archiveFiles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "archive_files",
			Help:      "Files written to the archive",
		}),
		archiveBytes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "archive_bytes",
			Help:      "Size of the archive in bytes",
		}),
		uploadedObjects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "uploaded_objects_total",
			Help:      "Objects uploaded to the bucket",
		}),
		cleanedFiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "cleaned_artifacts_total",
			Help:      "Local artifacts removed after upload",
		}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "job_submissions_total",
			Help:      "Processing job submissions by result",
		}, []string{"result"}),
	}
}
