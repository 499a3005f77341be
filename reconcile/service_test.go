package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sheraz031/smartgatepay/models"
)

type fakeOrders struct {
	orders map[string]*models.Order
	calls  int
}

func (f *fakeOrders) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	f.calls++
	if o, ok := f.orders[orderID]; ok {
		return o, nil
	}
	return nil, ErrNotFound
}

type fakeGateways struct {
	gateways map[uint]*models.PaymentGateway
	saved    []*models.PaymentGateway
}

func (f *fakeGateways) FindByID(ctx context.Context, id uint) (*models.PaymentGateway, error) {
	if g, ok := f.gateways[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (f *fakeGateways) Save(ctx context.Context, gw *models.PaymentGateway) error {
	f.saved = append(f.saved, gw)
	return nil
}

// fakeTxns mimics the store's atomic unique-insert: the first Create for
// a UTR wins, later ones observe a duplicate.
type fakeTxns struct {
	mu       sync.Mutex
	existing map[string]bool
	created  []*models.Transaction
	calls    int
}

func (f *fakeTxns) ExistsByUTR(ctx context.Context, utr string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.existing[utr], nil
}

func (f *fakeTxns) Create(ctx context.Context, txn *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	if f.existing[txn.UTRNumber] {
		return ErrDuplicate
	}
	f.existing[txn.UTRNumber] = true
	f.created = append(f.created, txn)
	return nil
}

// fakeAdapter returns a canned ledger but normalizes like Razorpay.
type fakeAdapter struct {
	RazorpayAdapter
	natives  []NativeTransaction
	fetchErr error
	fetches  atomic.Int64
}

func (f *fakeAdapter) Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error) {
	f.fetches.Add(1)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.natives, nil
}

func newTestService(orders *fakeOrders, gateways *fakeGateways, txns TransactionStore, adapter Adapter) *Service {
	return &Service{
		Orders:       orders,
		Gateways:     gateways,
		Transactions: txns,
		adapterFor: func(gatewayType string) (Adapter, error) {
			return adapter, nil
		},
	}
}

func razorpayFixture() (*fakeOrders, *fakeGateways) {
	orders := &fakeOrders{orders: map[string]*models.Order{
		"O1": {OrderID: "O1", Amount: 1500, CustomerEmail: "buyer@example.com", GatewayID: 1},
	}}
	gw := &models.PaymentGateway{Type: models.GatewayRazorpay, CreatedBy: 7}
	gw.ID = 1
	gateways := &fakeGateways{gateways: map[uint]*models.PaymentGateway{1: gw}}
	return orders, gateways
}

func TestSubmitUTRRejectsInvalidLength(t *testing.T) {
	orders := &fakeOrders{}
	txns := &fakeTxns{}
	adapter := &fakeAdapter{}
	svc := newTestService(orders, &fakeGateways{}, txns, adapter)

	for _, utr := range []string{"", "   ", "SHORT", "WAYTOOLONGUTR12345"} {
		res := svc.SubmitUTR(context.Background(), utr, "O1")
		assert.False(t, res.Success)
		assert.Equal(t, KindInput, res.Kind)
	}

	// Nothing downstream may be touched on input rejection.
	assert.Zero(t, orders.calls)
	assert.Zero(t, txns.calls)
	assert.Zero(t, adapter.fetches.Load())
}

func TestSubmitUTRRequiresOrderID(t *testing.T) {
	orders := &fakeOrders{}
	svc := newTestService(orders, &fakeGateways{}, &fakeTxns{}, &fakeAdapter{})

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "")
	assert.False(t, res.Success)
	assert.Equal(t, KindInput, res.Kind)
	assert.Equal(t, "Order ID is required", res.Message)
	assert.Zero(t, orders.calls)
}

func TestSubmitUTROrderNotFound(t *testing.T) {
	svc := newTestService(&fakeOrders{}, &fakeGateways{}, &fakeTxns{}, &fakeAdapter{})

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "missing")
	assert.False(t, res.Success)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "Order not found", res.Message)
}

func TestSubmitUTRGatewayNotFound(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{
		"O1": {OrderID: "O1", GatewayID: 99},
	}}
	svc := newTestService(orders, &fakeGateways{}, &fakeTxns{}, &fakeAdapter{})

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "O1")
	assert.False(t, res.Success)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "Gateway not found", res.Message)
}

func TestSubmitUTRDuplicatePreCheck(t *testing.T) {
	orders, gateways := razorpayFixture()
	txns := &fakeTxns{existing: map[string]bool{"ABC123456789": true}}
	adapter := &fakeAdapter{}
	svc := newTestService(orders, gateways, txns, adapter)

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "O1")
	assert.False(t, res.Success)
	assert.Equal(t, KindDuplicate, res.Kind)
	// The pre-check saves the upstream round trip entirely.
	assert.Zero(t, adapter.fetches.Load())
}

func TestSubmitUTRUpstreamFailure(t *testing.T) {
	orders, gateways := razorpayFixture()
	adapter := &fakeAdapter{fetchErr: upstreamErr(models.GatewayRazorpay, "failed to fetch payments", nil)}
	svc := newTestService(orders, gateways, &fakeTxns{}, adapter)

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "O1")
	assert.False(t, res.Success)
	assert.Equal(t, KindUpstream, res.Kind)
}

func TestSubmitUTREmptyLedgerIsNoTransactions(t *testing.T) {
	orders, gateways := razorpayFixture()
	adapter := &fakeAdapter{natives: []NativeTransaction{}}
	svc := newTestService(orders, gateways, &fakeTxns{}, adapter)

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "O1")
	assert.False(t, res.Success)
	assert.Equal(t, KindNoTransactions, res.Kind, "empty ledger must not be reported as no-match or upstream failure")
}

func TestSubmitUTRNoMatch(t *testing.T) {
	orders, gateways := razorpayFixture()
	adapter := &fakeAdapter{natives: []NativeTransaction{
		{"id": "pay_1", "amount": float64(150000), "captured": true,
			"acquirer_data": map[string]any{"rrn": "OTHER0000000"}},
	}}
	svc := newTestService(orders, gateways, &fakeTxns{}, adapter)

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "O1")
	assert.False(t, res.Success)
	assert.Equal(t, KindNoMatch, res.Kind)
}

func TestSubmitUTREndToEndSuccess(t *testing.T) {
	orders, gateways := razorpayFixture()
	txns := &fakeTxns{}
	adapter := &fakeAdapter{natives: []NativeTransaction{
		{"id": "pay_123", "amount": float64(150000), "captured": true,
			"acquirer_data": map[string]any{"rrn": "RRN999999999"}},
	}}
	svc := newTestService(orders, gateways, txns, adapter)

	res := svc.SubmitUTR(context.Background(), "RRN999999999", "O1")
	require.True(t, res.Success)
	assert.Equal(t, "UTR submitted successfully", res.Message)

	require.Len(t, txns.created, 1)
	rec := txns.created[0]
	assert.Equal(t, "pay_123", rec.TransactionID)
	assert.Equal(t, 1500.00, rec.Amount)
	assert.Equal(t, models.TransactionSuccess, rec.Status)
	assert.Equal(t, "RRN999999999", rec.UTRNumber)
	assert.Equal(t, uint(1), rec.GatewayID)
	assert.Equal(t, "buyer@example.com", rec.CustomerEmail)
	assert.Equal(t, "UPI", rec.PaymentMethod)
	assert.Equal(t, uint(7), rec.CreatedBy)
	assert.Contains(t, rec.GatewayData, "pay_123")
}

func TestSubmitUTRGeneratesIDWhenProviderOmitsOne(t *testing.T) {
	orders := &fakeOrders{orders: map[string]*models.Order{
		"O1": {OrderID: "O1", GatewayID: 1},
	}}
	gw := &models.PaymentGateway{Type: models.GatewayPaytm}
	gw.ID = 1
	gateways := &fakeGateways{gateways: map[uint]*models.PaymentGateway{1: gw}}
	txns := &fakeTxns{}

	svc := &Service{
		Orders:       orders,
		Gateways:     gateways,
		Transactions: txns,
		adapterFor: func(string) (Adapter, error) {
			return &paytmFake{natives: []NativeTransaction{{"amount": float64(1500), "UTR": "UTR111111111"}}}, nil
		},
	}

	res := svc.SubmitUTR(context.Background(), "UTR111111111", "O1")
	require.True(t, res.Success)
	require.Len(t, txns.created, 1)
	assert.NotEmpty(t, txns.created[0].TransactionID)
	assert.Equal(t, 1500.00, txns.created[0].Amount)
}

type paytmFake struct {
	PaytmAdapter
	natives []NativeTransaction
}

func (f *paytmFake) Fetch(ctx context.Context, gw *models.PaymentGateway, order *models.Order) ([]NativeTransaction, error) {
	return f.natives, nil
}

func TestSubmitUTRPersistConflictReportsDuplicate(t *testing.T) {
	orders, gateways := razorpayFixture()
	// Pre-check misses, but the insert itself collides.
	txns := &conflictTxns{}
	adapter := &fakeAdapter{natives: []NativeTransaction{
		{"id": "pay_1", "amount": float64(100), "captured": true,
			"acquirer_data": map[string]any{"rrn": "ABC123456789"}},
	}}
	svc := newTestService(orders, gateways, txns, adapter)

	res := svc.SubmitUTR(context.Background(), "ABC123456789", "O1")
	assert.False(t, res.Success)
	assert.Equal(t, KindDuplicate, res.Kind)
}

type conflictTxns struct{}

func (c *conflictTxns) ExistsByUTR(ctx context.Context, utr string) (bool, error) { return false, nil }
func (c *conflictTxns) Create(ctx context.Context, txn *models.Transaction) error {
	return ErrDuplicate
}

func TestSubmitUTRConcurrentSameUTRSettlesOnce(t *testing.T) {
	orders, gateways := razorpayFixture()
	txns := &fakeTxns{}
	adapter := &fakeAdapter{natives: []NativeTransaction{
		{"id": "pay_1", "amount": float64(150000), "captured": true,
			"acquirer_data": map[string]any{"rrn": "RRN999999999"}},
	}}
	svc := newTestService(orders, gateways, txns, adapter)

	const attempts = 8
	results := make([]Result, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.SubmitUTR(context.Background(), "RRN999999999", "O1")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, res := range results {
		if res.Success {
			successes++
		} else {
			assert.Equal(t, KindDuplicate, res.Kind)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent submission may settle")
	assert.Len(t, txns.created, 1)
}

func TestVerifyGatewayPersistsStatusAndDetails(t *testing.T) {
	gw := &models.PaymentGateway{Type: models.GatewayPaytm, APIKey: "key", MerchantID: "MID1"}
	gw.ID = 5
	gateways := &fakeGateways{gateways: map[uint]*models.PaymentGateway{5: gw}}

	svc := NewService(&fakeOrders{}, gateways, &fakeTxns{})

	updated, result, err := svc.VerifyGateway(context.Background(), 5, models.APIDetails{Token: "tok", Secret: "sec"})
	require.NoError(t, err)
	assert.Equal(t, models.GatewayStatusActive, result.Status)
	assert.Equal(t, models.GatewayStatusActive, updated.Status)
	assert.Equal(t, "tok", updated.APIDetails.Token)
	assert.Equal(t, "sec", updated.APIDetails.Secret)
	// Saved once for the credential update and once for the status.
	assert.Len(t, gateways.saved, 2)
}

func TestVerifyGatewayMissingCredentialsGoesInactive(t *testing.T) {
	gw := &models.PaymentGateway{Type: models.GatewayBharatPe}
	gw.ID = 6
	gateways := &fakeGateways{gateways: map[uint]*models.PaymentGateway{6: gw}}

	svc := NewService(&fakeOrders{}, gateways, &fakeTxns{})

	_, result, err := svc.VerifyGateway(context.Background(), 6, models.APIDetails{})
	require.NoError(t, err)
	assert.Equal(t, models.GatewayStatusInactive, result.Status)
	assert.NotEmpty(t, result.Details)
}

func TestVerifyGatewayUnsupportedTypeGoesInactive(t *testing.T) {
	gw := &models.PaymentGateway{Type: "PHONEPE"}
	gw.ID = 7
	gateways := &fakeGateways{gateways: map[uint]*models.PaymentGateway{7: gw}}

	svc := NewService(&fakeOrders{}, gateways, &fakeTxns{})

	_, result, err := svc.VerifyGateway(context.Background(), 7, models.APIDetails{})
	require.NoError(t, err)
	assert.Equal(t, models.GatewayStatusInactive, result.Status)
	assert.Equal(t, "Unsupported gateway type", result.Details)
}
