package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the asynchronous transport. Response delivery is best-effort
// by design, so drops are surfaced here instead of being retried.
var (
	requestsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "npc_generation_requests_received_total",
		Help: "Total number of generation request messages received from the bus.",
	})
	requestsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "npc_generation_requests_failed_total",
		Help: "Total number of generation requests that failed, partitioned by reason.",
	}, []string{"reason"})
	requestsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "npc_generation_requests_succeeded_total",
		Help: "Total number of generation requests processed successfully.",
	})
	envelopeDecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "npc_generation_envelope_decode_failures_total",
		Help: "Total number of request messages dropped because the envelope could not be decoded.",
	})
	responsesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "npc_generation_responses_published_total",
		Help: "Total number of response envelopes delivered to a response topic.",
	})
	responsesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "npc_generation_responses_dropped_total",
		Help: "Total number of response envelopes that could not be delivered.",
	})
)
