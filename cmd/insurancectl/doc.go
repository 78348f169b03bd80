// Package main provides the insurance document processing server CLI.
//
// The system ingests insurance policy documents, chunks and embeds their
// content, and evaluates natural-language claims queries against the stored
// clauses to produce approval decisions with justifications.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/processor: background document processing pipeline
//   - pkg/extract: text extraction and chunking
//   - pkg/search: hybrid semantic search over chunks
//   - pkg/query: claims query parsing and entity extraction
//   - pkg/decision: claim decision rules
//   - pkg/openai: OpenAI embeddings and completions client
//   - pkg/cache: Redis embedding cache
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
// The server is run via the insurancectl CLI:
//
//	# Run database migrations
//	insurancectl db migrate
//
//	# Start the server
//	insurancectl server
//
//	# Ingest a policy document from the command line
//	insurancectl ingest policy.pdf
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - REDIS_URL: Redis connection string (optional, enables embedding cache)
//   - OPENAI_API_KEY: OpenAI API key (optional, enables embeddings and summaries)
//   - SECRET_KEY: Session token signing key
//   - LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
package main
