// Package messaging publishes domain events to a message broker.
//
// Business code depends on Publisher only; the broker (Kafka, NATS, NSQ,
// Google Pub/Sub, or none) is chosen by configuration through NewFromDriver.
// This service only emits events, so there is no consumer side.
package messaging
