package service

import "github.com/mailsign/signup-backend/internal/observability/metrics"

func incrementRegistrations(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

func incrementLogins(result string) {
	metrics.LoginsTotal.WithLabelValues(result).Inc()
}

func incrementTokensIssued() {
	metrics.TokensIssued.Inc()
}

func incrementEmailsSent() {
	metrics.EmailsSentTotal.Inc()
}

func incrementEmailsFailed() {
	metrics.EmailsFailedTotal.Inc()
}
