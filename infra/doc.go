// Package infra contains technical adapters: project sources, report
// sinks, the MQTT publisher, logging backends and error monitoring. These
// packages depend only on the interfaces defined in the core packages.
package infra
