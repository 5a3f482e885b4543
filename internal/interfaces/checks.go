package interfaces

// Compile-time interface checks. Run: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/audit"
	"github.com/mrlokans/shayfa/internal/auth"
	"github.com/mrlokans/shayfa/internal/cart"
	"github.com/mrlokans/shayfa/internal/database/records"
	"github.com/mrlokans/shayfa/internal/http"
	"github.com/mrlokans/shayfa/internal/payment"
	"github.com/mrlokans/shayfa/internal/recordstore"
	"github.com/mrlokans/shayfa/internal/scheduler"
	"github.com/mrlokans/shayfa/internal/tasks"
	"github.com/mrlokans/shayfa/internal/token"
)

// =============================================================================
// Storage
// =============================================================================

var _ api.Store = (*recordstore.Store)(nil)
var _ recordstore.Backend = (*records.Repository)(nil)
var _ http.StorageChecker = (*recordstore.Store)(nil)

// =============================================================================
// Auth
// =============================================================================

var _ token.Codec = (*token.DevCodec)(nil)
var _ token.Codec = (*token.SignedCodec)(nil)
var _ auth.Client = (*api.Client)(nil)
var _ auth.Observer = (*auth.Navigator)(nil)
var _ auth.Observer = (*audit.Service)(nil)

// =============================================================================
// Checkout
// =============================================================================

var _ payment.Gateway = (*payment.SimulatedGateway)(nil)

// =============================================================================
// Maintenance
// =============================================================================

var _ tasks.ConvertedCartPurger = (*cart.Purger)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.Runner = (*tasks.Client)(nil)
var _ scheduler.Runner = scheduler.DirectRunner{}
var _ http.MaintenanceTrigger = (*scheduler.MaintenanceScheduler)(nil)
