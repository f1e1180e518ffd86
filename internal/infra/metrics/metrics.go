package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectAttemptsTotal tracks wallet connect attempts
	ConnectAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "walletbridge_connect_attempts_total",
			Help: "Total number of wallet connect attempts",
		},
	)

	// ConnectFailuresTotal tracks failed connect attempts by reason
	ConnectFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbridge_connect_failures_total",
			Help: "Total number of failed wallet connect attempts",
		},
		[]string{"reason"},
	)

	// NetworkSwitchesTotal tracks chain switch negotiations by outcome
	NetworkSwitchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbridge_network_switches_total",
			Help: "Total number of chain switch negotiations",
		},
		[]string{"outcome"},
	)

	// ProviderCallsTotal tracks provider RPC calls by method and outcome
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbridge_provider_calls_total",
			Help: "Total number of wallet provider RPC calls",
		},
		[]string{"method", "outcome"},
	)

	// ProviderCallLatency tracks provider RPC call latency
	ProviderCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletbridge_provider_call_latency_seconds",
			Help:    "Wallet provider RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// ProfileSyncFailuresTotal tracks failed backend profile syncs
	ProfileSyncFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "walletbridge_profile_sync_failures_total",
			Help: "Total number of failed backend profile address syncs",
		},
	)
)
