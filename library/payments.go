package library

import (
	"fmt"

	"github.com/google/uuid"
)

// PaymentGateway is the external payment capability consumed by the fee
// reconciliation operations. A declined charge or rejected refund is a
// normal result; a returned error is a collaborator fault and is downgraded
// to a ProcessingFault at this boundary, never propagated.
type PaymentGateway interface {
	ProcessPayment(patronID string, amount float64, description string) (PaymentResult, error)
	RefundPayment(transactionID string, amount float64) (RefundResult, error)
}

// PaymentResult is the gateway's answer to a charge attempt.
type PaymentResult struct {
	Approved      bool
	TransactionID string
	Message       string
}

// RefundResult is the gateway's answer to a refund attempt. Reason carries
// the decline explanation when Approved is false.
type RefundResult struct {
	Approved bool
	RefundID string
	Reason   string
}

// SimulatedPaymentGateway is the default gateway used when no gateway is
// supplied. It approves every charge and refund, which keeps the
// zero-configuration path non-failing.
type SimulatedPaymentGateway struct{}

// NewSimulatedPaymentGateway returns an always-approving gateway.
func NewSimulatedPaymentGateway() *SimulatedPaymentGateway {
	return &SimulatedPaymentGateway{}
}

func (g *SimulatedPaymentGateway) ProcessPayment(patronID string, amount float64, description string) (PaymentResult, error) {
	return PaymentResult{
		Approved:      true,
		TransactionID: "txn_" + uuid.NewString(),
		Message:       fmt.Sprintf("Charged $%.2f to patron %s: %s", amount, patronID, description),
	}, nil
}

func (g *SimulatedPaymentGateway) RefundPayment(transactionID string, amount float64) (RefundResult, error) {
	// The refund id embeds the original transaction so receipts can be
	// traced back without gateway-side state.
	return RefundResult{Approved: true, RefundID: "rf_" + transactionID}, nil
}

// safeProcessPayment shields the caller from a misbehaving gateway: a panic
// inside ProcessPayment is recovered and surfaced as an ordinary error so
// the operation can downgrade it to a ProcessingFault.
func safeProcessPayment(gateway PaymentGateway, patronID string, amount float64, description string) (result PaymentResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
	}()
	return gateway.ProcessPayment(patronID, amount, description)
}

// safeRefundPayment is the refund counterpart of safeProcessPayment.
func safeRefundPayment(gateway PaymentGateway, transactionID string, amount float64) (result RefundResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
	}()
	return gateway.RefundPayment(transactionID, amount)
}

// PayLateFees charges the patron's computed late fee for a book through the
// gateway. The gateway is never called when the fee is zero. A nil gateway
// selects the simulated default.
func (s *Service) PayLateFees(patronID string, bookID int64, gateway PaymentGateway) (message, transactionID string, err error) {
	if gateway == nil {
		gateway = NewSimulatedPaymentGateway()
	}

	if !validPatronID(patronID) {
		return "", "", &ValidationError{Msg: "Invalid patron ID. Must be exactly 6 digits."}
	}

	book, err := s.store.GetBookByID(bookID)
	if err != nil {
		return "", "", &StorageError{Msg: "Database error occurred while looking up the book.", Err: err}
	}
	if book == nil {
		return "", "", &NotFoundError{Msg: "Book not found."}
	}

	fee, err := s.CalculateLateFeeForBook(patronID, bookID)
	if err != nil {
		return "", "", &ProcessingFault{Msg: "Unable to calculate late fees for this book.", Err: err}
	}
	if fee.FeeAmount <= 0 {
		return "", "", &ConflictError{Msg: "No late fees owed for this book."}
	}

	description := fmt.Sprintf("Late fees for %q", book.Title)
	result, err := safeProcessPayment(gateway, patronID, fee.FeeAmount, description)
	if err != nil {
		return "", "", &ProcessingFault{Msg: fmt.Sprintf("Payment processing error: %v", err), Err: err}
	}
	if !result.Approved {
		return "", "", &GatewayError{Msg: fmt.Sprintf("Payment failed: %s", result.Message)}
	}

	message = fmt.Sprintf("Payment of $%.2f for late fees on %q was successful. Transaction ID: %s",
		fee.FeeAmount, book.Title, result.TransactionID)
	return message, result.TransactionID, nil
}

// RefundLateFeePayment refunds a prior late-fee charge. The amount must be
// positive and cannot exceed the maximum possible late fee; the gateway is
// never called for an amount outside that range.
func (s *Service) RefundLateFeePayment(transactionID string, amount float64, gateway PaymentGateway) (string, error) {
	if gateway == nil {
		gateway = NewSimulatedPaymentGateway()
	}

	if !validTransactionID(transactionID) {
		return "", &ValidationError{Msg: "Invalid transaction ID. Must start with 'txn_'."}
	}
	if amount <= 0 {
		return "", &ValidationError{Msg: "Refund amount must be greater than 0."}
	}
	if amount > maxLateFee {
		return "", &ValidationError{Msg: "Refund amount exceeds maximum late fee of $15.00."}
	}

	result, err := safeRefundPayment(gateway, transactionID, amount)
	if err != nil {
		return "", &ProcessingFault{Msg: fmt.Sprintf("Refund processing error: %v", err), Err: err}
	}
	if !result.Approved {
		return "", &GatewayError{Msg: fmt.Sprintf("Refund failed: %s", result.Reason)}
	}

	return fmt.Sprintf("Refund of $%.2f processed successfully. Refund ID: %s", amount, result.RefundID), nil
}
