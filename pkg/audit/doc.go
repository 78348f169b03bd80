// Package audit emits RFC5424-format audit events for document and claims
// operations, to stdout and optionally to an audit database.
package audit
