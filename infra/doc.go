// Package infra contains technical adapters such as the task store,
// metrics exporters and the MQTT plan publisher. These packages should
// depend only on the interfaces defined in the core packages.
package infra
