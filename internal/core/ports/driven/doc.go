// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SessionProvider: Bearer credentials for backend requests
//   - ExchangeOpener: Opens one streamed chat exchange
//   - ThreadStore: Thread CRUD and message history (backend API)
//   - DocumentStore: Source document upload/list/delete (backend API)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryCache: Local mirror of threads and messages for offline
//     listing. Without it, every listing hits the backend.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
