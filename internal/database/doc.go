// Package database provides the sqlite data access layer.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── records/         # Generic (collection, id) -> JSON document rows
//	└── audit/           # Audit event log
//
// All domain data (users, carts, orders, khatm progress, catalog) is stored as JSON
// documents in the records table and is reached through the recordstore package.
// Only the audit log has its own table.
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./shayfa.db")
//
//	recordsRepo := records.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// The connection pool is limited to a single connection, so each repository call
// (and each transaction) runs in isolation from every other call.
package database
