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
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthPasswordMismatch   = "auth.password_mismatch"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserKYCUpdated     = "user.kyc_updated"

	// Farms
	KeyFarmCreated       = "farm.created"
	KeyFarmUpdated       = "farm.updated"
	KeyFarmDeleted       = "farm.deleted"
	KeyFarmNotFound      = "farm.not_found"
	KeyFarmNotOwner      = "farm.not_owner"
	KeyFarmStatusUpdated = "farm.status_updated"
	KeyFarmHasFunds      = "farm.has_funds"

	// Investments
	KeyInvestmentRecorded = "investment.recorded"
	KeyInvestmentNotFound = "investment.not_found"
	KeyInvestmentInvalid  = "investment.invalid_amount"

	// ROI
	KeyROIRecorded = "roi.recorded"
	KeyROINotFound = "roi.not_found"

	// Withdrawals
	KeyWithdrawalRequested  = "withdrawal.requested"
	KeyWithdrawalNotFound   = "withdrawal.not_found"
	KeyWithdrawalApproved   = "withdrawal.approved"
	KeyWithdrawalCompleted  = "withdrawal.completed"
	KeyWithdrawalBadStatus  = "withdrawal.invalid_transition"
	KeyWithdrawalInsufficient = "withdrawal.insufficient_balance"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
