package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/tomb.v2"
)

var metrics = struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rows            *prometheus.CounterVec
	phaseSeconds    *prometheus.CounterVec
	bytesSent       prometheus.Counter
	bytesReceived   prometheus.Counter
	cacheHits       prometheus.Counter
	peers           prometheus.Gauge
}{
	requests: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echelon",
			Name:      "requests_total",
			Help:      "Elimination requests handled, by method and result",
		},
		[]string{"method", "result"},
	),
	requestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "echelon",
			Name:      "request_duration_seconds",
			Help:      "Time spent answering elimination requests",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
		[]string{"method"},
	),
	rows: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echelon",
			Name:      "pivot_rows_total",
			Help:      "Pivot rows fixed, as reported by the progress observer",
		},
		[]string{"op"},
	),
	phaseSeconds: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "echelon",
			Name:      "phase_seconds_total",
			Help:      "Time spent in each elimination phase",
		},
		[]string{"op", "phase"},
	),
	bytesSent: prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "echelon",
			Name:      "bytes_sent_total",
			Help:      "Bytes written to peers, including framing",
		},
	),
	bytesReceived: prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "echelon",
			Name:      "bytes_received_total",
			Help:      "Bytes read from peers, including framing",
		},
	),
	cacheHits: prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "echelon",
			Name:      "cache_hits_total",
			Help:      "Requests answered from the response cache",
		},
	),
	peers: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "echelon",
			Name:      "peers",
			Help:      "Connected peers",
		},
	),
}

var metricsRegister sync.Once

func registerMetrics() {
	metricsRegister.Do(func() {
		prometheus.MustRegister(metrics.requests)
		prometheus.MustRegister(metrics.requestDuration)
		prometheus.MustRegister(metrics.rows)
		prometheus.MustRegister(metrics.phaseSeconds)
		prometheus.MustRegister(metrics.bytesSent)
		prometheus.MustRegister(metrics.bytesReceived)
		prometheus.MustRegister(metrics.cacheHits)
		prometheus.MustRegister(metrics.peers)
	})
}

func recordRequest(method, result string, duration time.Duration) {
	metrics.requests.With(prometheus.Labels{"method": method, "result": result}).Inc()
	metrics.requestDuration.With(prometheus.Labels{"method": method}).Observe(duration.Seconds())
}

// metricsObserver turns the engine's cumulative progress reports of one
// call into counter increments.
type metricsObserver struct {
	last map[string]int
}

func newMetricsObserver() *metricsObserver {
	return &metricsObserver{last: make(map[string]int)}
}

func (o *metricsObserver) Progress(op string, rows int) {
	if d := rows - o.last[op]; d > 0 {
		metrics.rows.WithLabelValues(op).Add(float64(d))
	}
	o.last[op] = rows
	log.Debugf("%s: %d rows", op, rows)
}

func (o *metricsObserver) PhaseTime(op, phase string, d time.Duration) {
	metrics.phaseSeconds.WithLabelValues(op, phase).Add(d.Seconds())
}

// byteCounter feeds host traffic into the byte counters.
type byteCounter struct{}

func (byteCounter) AddBytesSent(n uint64)     { metrics.bytesSent.Add(float64(n)) }
func (byteCounter) AddBytesReceived(n uint64) { metrics.bytesReceived.Add(float64(n)) }

// MetricsServer exposes the registered metrics over HTTP.
type MetricsServer struct {
	s   MetricsConfig
	srv *http.Server
	t   tomb.Tomb
}

func NewMetricsServer(s MetricsConfig) *MetricsServer {
	registerMetrics()
	mux := http.NewServeMux()
	mux.Handle(s.Path, promhttp.Handler())
	return &MetricsServer{
		s:   s,
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}
}

// Start binds the listener and serves until Stop.
func (m *MetricsServer) Start() (net.Addr, error) {
	ln, err := net.Listen("tcp", m.s.Bind)
	if err != nil {
		return nil, err
	}
	m.t.Go(func() error {
		log.Infof("metrics: serving %s on %s", m.s.Path, ln.Addr())
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("failed to serve metrics: %v", err)
			return err
		}
		return nil
	})
	m.t.Go(func() error {
		<-m.t.Dying()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return m.srv.Shutdown(ctx)
	})
	return ln.Addr(), nil
}

func (m *MetricsServer) Stop() error {
	log.Info("metrics: stopping")
	m.t.Kill(nil)
	return m.t.Wait()
}
