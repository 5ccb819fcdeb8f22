// Package metrics provides Prometheus instrumentation for OpenTraceFX.
//
// All metrics are prefixed with "otfx_" and registered on the default
// registry through promauto, so importing the package is enough to expose
// them on /metrics.
//
// # Metric Categories
//
//   - HTTP: request counts, durations and in-flight requests of the preview
//     service
//   - Store: snapshot database query counts and durations
//   - Editor: size of the open project and render/describe timings
//   - OSC: messages sent to the external renderer
package metrics
