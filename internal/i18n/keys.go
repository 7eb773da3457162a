// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordReset      = "auth.password_reset"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"

	// Machines
	KeyMachineCreated  = "machine.created"
	KeyMachineUpdated  = "machine.updated"
	KeyMachineDeleted  = "machine.deleted"
	KeyMachineNotFound = "machine.not_found"

	// Categories
	KeyCategoryCreated  = "category.created"
	KeyCategoryUpdated  = "category.updated"
	KeyCategoryDeleted  = "category.deleted"
	KeyCategoryNotFound = "category.not_found"

	// Accessories
	KeyAccessoryCreated  = "accessory.created"
	KeyAccessoryUpdated  = "accessory.updated"
	KeyAccessoryDeleted  = "accessory.deleted"
	KeyAccessoryNotFound = "accessory.not_found"

	// Quotes
	KeyQuoteSubmitted = "quote.submitted"
	KeyQuoteAnswered  = "quote.answered"
	KeyQuoteRejected  = "quote.rejected"
	KeyQuoteApproved  = "quote.approved"
	KeyQuoteNotFound  = "quote.not_found"

	// Rentals
	KeyRentalApproved  = "rental.approved"
	KeyRentalCancelled = "rental.cancelled"
	KeyRentalNotFound  = "rental.not_found"

	// Returns
	KeyReturnRequested = "return.requested"
	KeyReturnApproved  = "return.approved"
	KeyReturnCompleted = "return.completed"
	KeyReturnNotFound  = "return.not_found"

	// Company content
	KeyCompanyContentUpdated  = "company.updated"
	KeyCompanyContentNotFound = "company.not_found"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"
	KeyAdminUserUpdated  = "admin.user_updated"

	// Uploads
	KeyUploadSuccess = "upload.success"
	KeyUploadFailed  = "upload.failed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
