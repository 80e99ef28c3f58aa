// Package storage defines the binary object store boundary used for image
// payloads. The real deployment backs this with an external blob service;
// the in-memory implementation covers tests and local examples.
package storage
