package oauth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	flowsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowise_oauth_flows_started_total",
		Help: "Number of OAuth flows started, by provider.",
	}, []string{"provider"})

	flowCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowise_oauth_callbacks_total",
		Help: "Number of OAuth callbacks handled to completion, by provider and outcome.",
	}, []string{"provider", "outcome"})
)
