// Package server wires the HTTP router, stores and services behind the
// document and claims API.
package server
