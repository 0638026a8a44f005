package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID or username does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrTradeEventNotFound indicates that a trade event with the given ID does not exist.
	ErrTradeEventNotFound = errors.New("trade event not found")

	// ErrWatchItemNotFound indicates that a watchlist entry does not exist.
	ErrWatchItemNotFound = errors.New("watchlist entry not found")

	// ErrFlowRecordNotFound indicates no fund-flow record exists for the requested code.
	ErrFlowRecordNotFound = errors.New("fund flow record not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidTradeEvent indicates that a submitted trade event failed validation
	// and was rejected before storage.
	ErrInvalidTradeEvent = errors.New("invalid trade event")

	// ErrInsufficientPosition indicates that a sell consumes more quantity than the
	// open lots hold at that point in the trade history. This is a data-entry error
	// and is never silently clamped.
	ErrInsufficientPosition = errors.New("insufficient position for sale")

	// ErrUsernameTaken indicates that the requested username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken indicates that a session or RSS token did not match any user.
	ErrInvalidToken = errors.New("invalid token")

	// ErrStockCodeInvalid indicates that a stock code could not be normalized
	// to a 6-digit code with a supported exchange.
	ErrStockCodeInvalid = errors.New("invalid stock code")
)

// External dependency and internal computation errors.
var (
	// ErrQuoteUnavailable indicates that the market snapshot provider failed for a
	// stock. Callers degrade the affected holding to "price unavailable" rather
	// than failing the whole report.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrComputationError indicates an unexpected invariant violation inside the
	// accounting core. It is fatal for the affected report line only.
	ErrComputationError = errors.New("computation error")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. Used as stable top-level messages in API error responses.
var (
	ErrFailedToRetrieveTrades    = errors.New("failed to retrieve trade events")
	ErrFailedToRecordTrade       = errors.New("failed to record trade event")
	ErrFailedToRetrieveWatchlist = errors.New("failed to retrieve watchlist")
	ErrFailedToSaveWatchlist     = errors.New("failed to save watchlist")
	ErrFailedToBuildReport       = errors.New("failed to build position report")
	ErrFailedToRetrieveFundFlow  = errors.New("failed to retrieve fund flow data")
	ErrFailedToBuildFeed         = errors.New("failed to build feed")
	ErrFailedToRegisterUser      = errors.New("failed to register user")
	ErrFailedToResetToken        = errors.New("failed to reset rss token")
)
