package monitoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ticket-sales/models"
)

var (
	ticketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_operations_total",
			Help: "Total ticket operations by outcome",
		},
		[]string{"operation", "status"},
	)

	ticketsSold = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickets_sold",
			Help: "Quantity of tickets currently sold per tier",
		},
		[]string{"ticket_type"},
	)

	ticketsRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tickets_remaining",
			Help: "Configured capacity minus sold per tier (may be negative)",
		},
		[]string{"ticket_type"},
	)

	totalRevenue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_revenue",
			Help: "Revenue across all sold tickets",
		},
	)

	statsCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_cache_requests_total",
			Help: "Stats snapshot cache lookups by result",
		},
		[]string{"result"},
	)
)

// StatsProvider supplies an uncached sales snapshot for gauge refresh.
type StatsProvider interface {
	Compute() (*models.Stats, error)
}

type Monitor struct {
	stats    StatsProvider
	interval time.Duration
}

func NewMonitor(stats StatsProvider, interval time.Duration) *Monitor {
	return &Monitor{stats: stats, interval: interval}
}

// Run refreshes the sales gauges until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collect()
		}
	}
}

func (m *Monitor) collect() {
	snapshot, err := m.stats.Compute()
	if err != nil {
		slog.Warn("metrics collection failed", "error", err)
		return
	}

	ticketsSold.WithLabelValues(models.TicketTypeStandard).Set(float64(snapshot.Standard.Sold))
	ticketsSold.WithLabelValues(models.TicketTypePremium).Set(float64(snapshot.Premium.Sold))
	ticketsRemaining.WithLabelValues(models.TicketTypeStandard).Set(float64(snapshot.Standard.Remaining))
	ticketsRemaining.WithLabelValues(models.TicketTypePremium).Set(float64(snapshot.Premium.Remaining))
	totalRevenue.Set(snapshot.TotalRevenue)
}

// TrackTicketOperation counts a ticket mutation or read by outcome.
func TrackTicketOperation(operation, status string) {
	ticketOperations.WithLabelValues(operation, status).Inc()
}

// TrackStatsCache counts a snapshot cache lookup ("hit" or "miss").
func TrackStatsCache(result string) {
	statsCacheRequests.WithLabelValues(result).Inc()
}
