// Package logging builds the zap loggers used by the client and the relay.
package logging
