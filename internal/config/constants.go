package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the record store database
	DefaultDatabasePath = "./shayfa.db"
)

// TokenMode selects how auth tokens are encoded.
type TokenMode string

const (
	TokenModeDev    TokenMode = "dev"    // Unsigned base64 JSON, readable by anyone holding it
	TokenModeSigned TokenMode = "signed" // HS256 JWT, requires AUTH_TOKEN_SECRET
)
