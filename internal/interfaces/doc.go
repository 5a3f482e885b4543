// Package interfaces lists the seams between packages and checks at compile time
// that every implementation satisfies its interface.
//
// # Storage
//
//   - api.Store: record persistence behind the facade (recordstore.Store)
//   - recordstore.Backend: raw JSON documents per collection (records.Repository, the memory backend)
//   - http.StorageChecker: readiness reporting for /health (recordstore.Store)
//
// # Auth
//
//   - token.Codec: minting and decoding bearer tokens (token.DevCodec, token.SignedCodec)
//   - auth.Client: login, logout and the persisted token (api.Client)
//   - auth.Observer: login and logout notifications (auth.Navigator, audit.Service)
//
// # Checkout
//
//   - payment.Gateway: charging a card (payment.SimulatedGateway)
//
// # Maintenance
//
//   - tasks.ConvertedCartPurger: removing checked out carts (cart.Purger)
//   - tasks.AuditEventCleaner: removing old audit events (audit.Service)
//   - scheduler.Runner: executing a maintenance pass (tasks.Client, scheduler.DirectRunner)
//   - http.MaintenanceTrigger: on-demand maintenance (scheduler.MaintenanceScheduler)
//
// # External collaborators
//
//   - upload.Uploader: object storage for Quran PDFs. No implementation ships here.
//
// New implementations should add a line to checks.go:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
package interfaces
