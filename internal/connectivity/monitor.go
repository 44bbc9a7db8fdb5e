package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/notify"
	"github.com/vietddude/sentinel/internal/telemetry"
)

// Quality buckets the probed round-trip latency.
type Quality string

const (
	QualityExcellent Quality = "excellent" // < 200ms
	QualityGood      Quality = "good"      // < 500ms
	QualityFair      Quality = "fair"      // < 1s
	QualityPoor      Quality = "poor"      // >= 1s
	QualityOffline   Quality = "offline"   // unreachable
)

// State is the monitor's current view of the link.
type State struct {
	IsOnline bool    `json:"is_online"`
	Quality  Quality `json:"quality"`
}

// Event describes an online/offline transition.
type Event struct {
	Online  bool
	Quality Quality
	At      time.Time
}

// Config holds monitor settings.
type Config struct {
	Interval time.Duration // probe period
	Timeout  time.Duration // per-probe deadline
	Debounce time.Duration // minimum spacing between transition notifications
}

// DefaultConfig provides sensible probe cadence.
var DefaultConfig = Config{
	Interval: 30 * time.Second,
	Timeout:  5 * time.Second,
	Debounce: 10 * time.Second,
}

// Monitor tracks online/offline transitions and estimates link quality via
// latency probing. Transition notifications are debounced so a flapping
// link emits at most one notification per window.
type Monitor struct {
	cfg        Config
	prober     Prober
	dispatcher notify.Dispatcher
	log        *slog.Logger

	mu           sync.RWMutex
	started      bool
	online       bool
	quality      Quality
	lastNotified time.Time
	subs         []func(Event)

	stop chan struct{}
	done chan struct{}
}

// NewMonitor creates a monitor. It starts optimistic (online, good) until
// the first probe lands.
func NewMonitor(cfg Config, prober Prober, dispatcher notify.Dispatcher, log *slog.Logger) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig.Timeout
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig.Debounce
	}
	if dispatcher == nil {
		dispatcher = notify.NewLogDispatcher(log)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		cfg:        cfg,
		prober:     prober,
		dispatcher: dispatcher,
		log:        log.With("component", "connectivity"),
		online:     true,
		quality:    QualityGood,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the probe loop. Stop with Stop or by cancelling ctx.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()

		m.probe(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				m.probe(ctx)
			}
		}
	}()
}

// Stop terminates the probe loop and waits for it to exit. Safe to call
// when the loop was never started.
func (m *Monitor) Stop() {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}

	m.mu.RLock()
	started := m.started
	m.mu.RUnlock()
	if started {
		<-m.done
	}
}

// Status returns the current link state.
func (m *Monitor) Status() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return State{IsOnline: m.online, Quality: m.quality}
}

// Subscribe registers a callback invoked on every online/offline
// transition. Callbacks run on the probe goroutine and must not block.
func (m *Monitor) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SetOnline feeds an external connectivity signal (e.g. the host platform's
// network change event) into the monitor.
func (m *Monitor) SetOnline(online bool) {
	quality := QualityOffline
	if online {
		quality = QualityGood
	}
	m.update(online, quality)
}

func (m *Monitor) probe(ctx context.Context) {
	if m.prober == nil {
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	latency, err := m.prober.Probe(probeCtx)
	if err != nil {
		m.log.Debug("Probe failed", "error", err)
		m.update(false, QualityOffline)
		return
	}

	telemetry.ProbeLatency.Observe(latency.Seconds())
	m.update(true, bucketLatency(latency))
}

func (m *Monitor) update(online bool, quality Quality) {
	m.mu.Lock()
	transitioned := online != m.online
	m.online = online
	m.quality = quality

	notifyNow := false
	if transitioned && time.Since(m.lastNotified) >= m.cfg.Debounce {
		notifyNow = true
		m.lastNotified = time.Now()
	}
	subs := make([]func(Event), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if online {
		telemetry.ConnectivityOnline.Set(1)
	} else {
		telemetry.ConnectivityOnline.Set(0)
	}

	if !transitioned {
		return
	}

	ev := Event{Online: online, Quality: quality, At: time.Now()}
	for _, fn := range subs {
		fn(ev)
	}

	if notifyNow {
		m.notifyTransition(online)
	}
}

func (m *Monitor) notifyTransition(online bool) {
	if online {
		m.dispatcher.AddNotification(domain.Notification{
			Type:       domain.NotificationSuccess,
			Title:      "Back online",
			Message:    "Connection to the forecasting service was restored.",
			Icon:       "wifi",
			AutoRemove: true,
			Duration:   5 * time.Second,
		})
		return
	}
	m.dispatcher.AddNotification(domain.Notification{
		Type:    domain.NotificationWarning,
		Title:   "You appear to be offline",
		Message: "The forecasting service is unreachable. Work is kept locally until the connection returns.",
		Icon:    "wifi-off",
	})
}

func bucketLatency(d time.Duration) Quality {
	switch {
	case d < 200*time.Millisecond:
		return QualityExcellent
	case d < 500*time.Millisecond:
		return QualityGood
	case d < 1000*time.Millisecond:
		return QualityFair
	default:
		return QualityPoor
	}
}
