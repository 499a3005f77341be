package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sheraz031/smartgatepay/models"
	"github.com/Sheraz031/smartgatepay/utils"
)

// OrderStore resolves an order by its public order id.
type OrderStore interface {
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
}

// GatewayStore resolves and persists gateway configurations. Save is only
// used by the verification path; reconciliation itself is read-only.
type GatewayStore interface {
	FindByID(ctx context.Context, id uint) (*models.PaymentGateway, error)
	Save(ctx context.Context, gw *models.PaymentGateway) error
}

// TransactionStore is the settlement record store. Create must enforce a
// unique constraint on UTR and on transaction id atomically and return
// ErrDuplicate on violation; that constraint, not ExistsByUTR, is the
// authoritative idempotency guard.
type TransactionStore interface {
	ExistsByUTR(ctx context.Context, utr string) (bool, error)
	Create(ctx context.Context, txn *models.Transaction) error
}

// Result is the public shape every submission outcome collapses into.
// Kind lets the transport layer pick a status class without parsing the
// message.
type Result struct {
	Success bool
	Message string
	Kind    FailureKind
}

func failure(kind FailureKind, message string) Result {
	return Result{Success: false, Message: message, Kind: kind}
}

// Service orchestrates UTR reconciliation: validate, resolve order and
// gateway, dedupe, fetch the upstream ledger, match, persist. It is the
// only entry point other subsystems call.
type Service struct {
	Orders       OrderStore
	Gateways     GatewayStore
	Transactions TransactionStore

	// adapterFor is swappable in tests; defaults to ForProvider.
	adapterFor func(gatewayType string) (Adapter, error)
}

func NewService(orders OrderStore, gateways GatewayStore, transactions TransactionStore) *Service {
	return &Service{
		Orders:       orders,
		Gateways:     gateways,
		Transactions: transactions,
		adapterFor:   ForProvider,
	}
}

// SubmitUTR runs one reconciliation attempt. Every failure is converted
// here into the {success, message} shape; nothing below this layer is
// surfaced raw to callers.
func (s *Service) SubmitUTR(ctx context.Context, utrNumber, orderID string) Result {
	start := time.Now()
	utr := strings.TrimSpace(utrNumber)

	if utr == "" {
		return failure(KindInput, "UTR number is required")
	}
	if len(utr) != 12 {
		return failure(KindInput, "UTR number must be exactly 12 digits")
	}
	if orderID == "" {
		return failure(KindInput, "Order ID is required")
	}

	log.Printf("Starting UTR submission: utr=%s orderId=%s", utr, orderID)

	order, err := s.Orders.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return failure(KindNotFound, "Order not found")
		}
		return failure(KindInternal, "Failed to submit UTR")
	}

	gw, err := s.Gateways.FindByID(ctx, order.GatewayID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return failure(KindNotFound, "Gateway not found")
		}
		return failure(KindInternal, "Failed to submit UTR")
	}

	defer func() {
		utils.ObserveReconciliation(gw.Type, time.Since(start).Seconds())
	}()

	exists, err := s.Transactions.ExistsByUTR(ctx, utr)
	if err != nil {
		return failure(KindInternal, "Failed to submit UTR")
	}
	if exists {
		utils.CountReconciliation(gw.Type, "duplicate")
		return failure(KindDuplicate, "UTR number already exists. Please verify the UTR number or contact support if this is an error.")
	}

	adapter, err := s.adapterFor(gw.Type)
	if err != nil {
		utils.CountReconciliation(gw.Type, "upstream_error")
		return failure(KindUpstream, err.Error())
	}

	log.Printf("Fetching transactions from gateway for UTR verification: type=%s orderId=%s", gw.Type, orderID)
	natives, err := adapter.Fetch(ctx, gw, order)
	if err != nil {
		utils.CountReconciliation(gw.Type, "upstream_error")
		log.Printf("Gateway fetch failed: type=%s orderId=%s err=%v", gw.Type, orderID, err)
		return failure(KindUpstream, "Failed to fetch transactions from gateway. Please try again later.")
	}

	if len(natives) == 0 {
		utils.CountReconciliation(gw.Type, "no_transactions")
		log.Printf("No transactions found from gateway: type=%s orderId=%s", gw.Type, orderID)
		return failure(KindNoTransactions, "No transactions found from gateway. Please try again later.")
	}

	canonical := make([]CanonicalTransaction, 0, len(natives))
	for _, raw := range natives {
		canonical = append(canonical, adapter.Normalize(raw))
	}

	matched, ok := Match(canonical, utr)
	if !ok {
		utils.CountReconciliation(gw.Type, "no_match")
		log.Printf("UTR not found in gateway transactions: utr=%s type=%s orderId=%s", utr, gw.Type, orderID)
		return failure(KindNoMatch, "Transaction with provided UTR number not found in gateway transactions. Please verify the UTR number.")
	}

	log.Printf("UTR verified with gateway: utr=%s type=%s orderId=%s gatewayTxnId=%s", utr, gw.Type, orderID, matched.ID)

	txn := buildTransaction(matched, order, gw, utr)
	if err := s.Transactions.Create(ctx, txn); err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost the insert race to a concurrent submission; reported
			// identically to the pre-check duplicate.
			utils.CountReconciliation(gw.Type, "duplicate")
			return failure(KindDuplicate, "UTR number already exists. Please verify the UTR number or contact support if this is an error.")
		}
		return failure(KindInternal, "Failed to submit UTR")
	}

	utils.CountReconciliation(gw.Type, "settled")
	log.Printf("UTR submitted successfully: utr=%s orderId=%s transactionId=%s", utr, orderID, txn.TransactionID)
	return Result{Success: true, Message: "UTR submitted successfully"}
}

// buildTransaction assembles the settlement record from the matched
// canonical entry. Providers doing order-status lookup may omit a native
// id, in which case one is generated.
func buildTransaction(matched CanonicalTransaction, order *models.Order, gw *models.PaymentGateway, utr string) *models.Transaction {
	id := matched.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &models.Transaction{
		TransactionID: id,
		Amount:        matched.Amount,
		GatewayID:     order.GatewayID,
		CustomerEmail: order.CustomerEmail,
		Status:        matched.Status,
		UTRNumber:     utr,
		GatewayData:   matched.RawJSON(),
		PaymentMethod: "UPI",
		CreatedBy:     gw.CreatedBy,
	}
}

// VerifyGateway merges new credential details into the gateway, runs the
// provider health check, persists the resulting status, and reports it.
// The check itself never fails hard; only store errors are returned.
func (s *Service) VerifyGateway(ctx context.Context, gatewayID uint, details models.APIDetails) (*models.PaymentGateway, VerifyResult, error) {
	gw, err := s.Gateways.FindByID(ctx, gatewayID)
	if err != nil {
		return nil, VerifyResult{}, err
	}

	mergeAPIDetails(&gw.APIDetails, details)
	if err := s.Gateways.Save(ctx, gw); err != nil {
		return nil, VerifyResult{}, err
	}

	adapter, err := s.adapterFor(gw.Type)
	var result VerifyResult
	if err != nil {
		result = VerifyResult{Status: models.GatewayStatusInactive, Details: "Unsupported gateway type"}
	} else {
		result = adapter.Verify(ctx, gw)
	}

	gw.Status = result.Status
	if err := s.Gateways.Save(ctx, gw); err != nil {
		return nil, VerifyResult{}, err
	}

	rawResult, _ := json.Marshal(result)
	log.Printf("Gateway verification finished: id=%d type=%s result=%s", gw.ID, gw.Type, rawResult)
	return gw, result, nil
}

// mergeAPIDetails overwrites only the fields the caller supplied.
func mergeAPIDetails(dst *models.APIDetails, src models.APIDetails) {
	if src.Token != "" {
		dst.Token = src.Token
	}
	if src.Secret != "" {
		dst.Secret = src.Secret
	}
	if src.TransactionRef != "" {
		dst.TransactionRef = src.TransactionRef
	}
	if src.AccessKeyID != "" {
		dst.AccessKeyID = src.AccessKeyID
	}
	if src.MerchantKey != "" {
		dst.MerchantKey = src.MerchantKey
	}
	if src.Cookie != "" {
		dst.Cookie = src.Cookie
	}
	if src.XSRF != "" {
		dst.XSRF = src.XSRF
	}
}
