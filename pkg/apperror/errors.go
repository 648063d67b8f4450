package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Order Settlement (ORD) ----

func ErrEmptyCart() *AppError {
	return New("ORD_001", "Order must contain at least one item", http.StatusUnprocessableEntity)
}

func ErrProductNotFound(productID string) *AppError {
	return New("ORD_002", fmt.Sprintf("Product %s not found", productID), http.StatusNotFound)
}

func ErrProductInactive(name string) *AppError {
	return New("ORD_003", fmt.Sprintf("Product %q is not active", name), http.StatusUnprocessableEntity)
}

func ErrInvalidQuantity(name string) *AppError {
	return New("ORD_004", fmt.Sprintf("Invalid quantity for %q", name), http.StatusUnprocessableEntity)
}

func ErrInsufficientStock(name string) *AppError {
	return New("ORD_005", fmt.Sprintf("Insufficient stock for %q", name), http.StatusUnprocessableEntity)
}

func ErrNoSellerAssigned(name string) *AppError {
	return New("ORD_006", fmt.Sprintf("Product %q has no seller assigned", name), http.StatusUnprocessableEntity)
}

func ErrOrderNotFound() *AppError {
	return New("ORD_007", "Order not found", http.StatusNotFound)
}

// ---- Wallet & Transfers (WLT) ----

func ErrInsufficientFunds() *AppError {
	return New("WLT_001", "Insufficient balance in wallet", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("WLT_002", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrSelfTransfer() *AppError {
	return New("WLT_003", "Cannot transfer funds to your own wallet", http.StatusBadRequest)
}

// ErrWalletNotFound signals a data-integrity problem: every registered user
// is expected to have a wallet, so a missing one is not a business case.
func ErrWalletNotFound(ownerID string) *AppError {
	return New("WLT_004", fmt.Sprintf("Wallet not found for user %s", ownerID), http.StatusInternalServerError)
}

// ---- Identity (AUTH) ----

func ErrMissingIdentity() *AppError {
	return New("AUTH_001", "Missing or invalid user identity", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrTransientConflict is surfaced when a storage-level conflict persisted
// through all retry attempts; the caller may safely resubmit.
func ErrTransientConflict(err error) *AppError {
	return Wrap("SYS_002", "Temporary conflict, please retry", http.StatusServiceUnavailable, err)
}

// Validation returns a request-validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}
