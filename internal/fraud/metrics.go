package fraud

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safetrade_fraud_verdicts_total",
			Help: "Total number of fraud verdicts by risk level",
		},
		[]string{"risk_level"},
	)

	blockedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safetrade_fraud_blocked_messages_total",
			Help: "Total number of messages blocked as critical fraud risk",
		},
	)
)
