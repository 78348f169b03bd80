// Package model defines the database models for the insurance document
// processing system.
//
// This package contains GORM models that map to the PostgreSQL schema.
//
// # Core Models
//
//   - Document: an uploaded policy document and its processing state
//   - DocumentChunk: a classified text chunk of a document, with embedding
//   - QueryLog: a processed claims query with its decision and justification
//   - UserSession: a short-lived API session
//
// # Database Schema
//
// The database uses PostgreSQL with the following key tables:
//
//   - documents: uploaded files and extracted content
//   - document_chunks: chunked text plus JSONB embeddings
//   - query_logs: query history with decisions
//   - user_sessions: session records backing issued tokens
package model
