/*
Package observability turns engine lifecycle hooks into metrics and logs.

Metrics registers Prometheus collectors and exposes them as domain.LifecycleHooks;
LogHooks does the same for a slog.Logger; Chain fans one event out to several hook sets.
*/
package observability
