// Package handlers implements the HTTP inspection API of a harness session.
//
// Handlers delegate to a Session (in practice an *xo.Connection) and focus on
// request validation, response formatting and HTTP semantics.
//
//	┌─────────────────────────────────────────┐
//	│           HTTP Request (Gin)            │
//	└─────────────────────────────────────────┘
//	                    │
//	                    ▼
//	┌─────────────────────────────────────────┐
//	│        Handler (this package)           │
//	│  - query binding                        │
//	│  - predicate parsing                    │
//	│  - error mapping to HTTP status codes   │
//	└─────────────────────────────────────────┘
//	                    │
//	                    ▼
//	┌─────────────────────────────────────────┐
//	│  Session: object store, wait loop,      │
//	│  temporary resource ledger              │
//	└─────────────────────────────────────────┘
//
// # API Endpoints
//
//	┌────────┬───────────────────┬───────────────────────────────────────────┐
//	│ Method │ Endpoint          │ Description                               │
//	├────────┼───────────────────┼───────────────────────────────────────────┤
//	│ GET    │ /objects          │ List cached objects (type, page, pageSize)│
//	│ GET    │ /objects/:id      │ Get one cached object                     │
//	│ GET    │ /objects/:id/wait │ Wait for a state (field, type, absent,    │
//	│        │                   │ timeout)                                  │
//	│ GET    │ /resources        │ Count temporary resources                 │
//	│ DELETE │ /resources        │ Delete temporary resources, newest first  │
//	└────────┴───────────────────┴───────────────────────────────────────────┘
//
// # Status Codes
//
//   - 400: malformed query (bad page, condition or timeout)
//   - 404: object not in the cache
//   - 408: the wait ended before the state was reached (timeout or client gone)
//
// Objects are sorted by id so that pages are stable while the cache does not change.
// Page size defaults to 20 and is capped at 100.
package handlers
