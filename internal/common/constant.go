// Package common contains shared constants and sentinel errors used across
// QuoteHub components.
package common

// RequestIDHeaderName is the HTTP header carrying a per-request identifier on
// outbound calls to the quote service.
const RequestIDHeaderName = "X-Request-ID"

// TokenMetadataKey is the single key under which the credential token is
// persisted in the local metadata table.
const TokenMetadataKey = "token"
