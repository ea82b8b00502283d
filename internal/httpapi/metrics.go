package httpapi

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// requestsTotal counts every response by its status code and a coarse
// URI tag, mirroring the (status_code, uri_tag) counter of spec §4.1.
var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "signer_requests_total",
		Help: "Total HTTP responses served by the signing service, by status code and endpoint.",
	},
	[]string{"status_code", "uri_tag"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

func recordRequest(statusCode int, uriTag string) {
	requestsTotal.WithLabelValues(strconv.Itoa(statusCode), uriTag).Inc()
}
