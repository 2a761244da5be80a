package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency = metric.NewHistogram("1m1s")
	RemoteCalls     = metric.NewCounter("10s1s")
	RemoteFailures  = metric.NewCounter("10s1s")
	LinksDerived    = metric.NewCounter("1m1s")
	LinksHydrated   = metric.NewCounter("1m1s")
	NodesCommitted  = metric.NewCounter("1m1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("coretopo:DispatchLatency (µs)", DispatchLatency)
	expvar.Publish("coretopo:RemoteCalls/s", RemoteCalls)
	expvar.Publish("coretopo:RemoteFailures/s", RemoteFailures)
	expvar.Publish("coretopo:LinksDerived", LinksDerived)
	expvar.Publish("coretopo:LinksHydrated", LinksHydrated)
	expvar.Publish("coretopo:NodesCommitted", NodesCommitted)
}
