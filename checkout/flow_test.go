package checkout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
)

func newTestState(t *testing.T) *store.StateStore {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.NewStateStore(db)
}

func validCustomer() CustomerInfo {
	return CustomerInfo{Name: "Ada", Email: "ada@example.com", Phone: "555-0100"}
}

func validAddress() models.Address {
	return models.Address{Line1: "1 Main St", City: "Denver", Country: "US", PostalCode: "80202"}
}

func TestFlowAdvancesInOrder(t *testing.T) {
	f := NewFlow(newTestState(t), "sess1")
	assert.Equal(t, StepCustomerInfo, f.Step())

	require.NoError(t, f.SetCustomerInfo(validCustomer()))
	assert.Equal(t, StepShipping, f.Step())

	require.NoError(t, f.SetShipping(validAddress()))
	assert.Equal(t, StepPayment, f.Step())
}

func TestFlowRejectsOutOfOrderSteps(t *testing.T) {
	f := NewFlow(newTestState(t), "sess1")

	assert.ErrorIs(t, f.SetShipping(validAddress()), ErrWrongStep)

	require.NoError(t, f.SetCustomerInfo(validCustomer()))
	assert.ErrorIs(t, f.SetCustomerInfo(validCustomer()), ErrWrongStep)
}

func TestFlowValidatesCustomerInfo(t *testing.T) {
	f := NewFlow(newTestState(t), "sess1")

	err := f.SetCustomerInfo(CustomerInfo{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrIncompleteStep)

	err = f.SetCustomerInfo(CustomerInfo{Name: "Ada", Email: "not-an-email", Phone: "555"})
	assert.ErrorIs(t, err, ErrIncompleteStep)

	assert.Equal(t, StepCustomerInfo, f.Step(), "failed validation must not advance")
}

func TestFlowValidatesShipping(t *testing.T) {
	f := NewFlow(newTestState(t), "sess1")
	require.NoError(t, f.SetCustomerInfo(validCustomer()))

	err := f.SetShipping(models.Address{Line1: "1 Main St", City: "Denver"})
	assert.ErrorIs(t, err, ErrIncompleteStep)
	assert.Equal(t, StepShipping, f.Step())
}

func TestFlowBackKeepsCollectedState(t *testing.T) {
	f := NewFlow(newTestState(t), "sess1")
	require.NoError(t, f.SetCustomerInfo(validCustomer()))
	require.NoError(t, f.SetShipping(validAddress()))

	require.NoError(t, f.Back(StepCustomerInfo))
	assert.Equal(t, StepCustomerInfo, f.Step())
	assert.Equal(t, validCustomer(), f.Customer())
	assert.Equal(t, validAddress(), f.Shipping())

	// backwards only
	assert.ErrorIs(t, f.Back(StepPayment), ErrWrongStep)
	assert.ErrorIs(t, f.Back(StepCustomerInfo), ErrWrongStep)
}

func TestFlowResumesFromSavedState(t *testing.T) {
	state := newTestState(t)
	f := NewFlow(state, "sess1")
	require.NoError(t, f.SetCustomerInfo(validCustomer()))

	resumed := NewFlow(state, "sess1")
	assert.Equal(t, StepShipping, resumed.Step())
	assert.Equal(t, validCustomer(), resumed.Customer())

	// other sessions start fresh
	other := NewFlow(state, "sess2")
	assert.Equal(t, StepCustomerInfo, other.Step())
}

func TestSubmitRequiresPaymentStep(t *testing.T) {
	f := NewFlow(newTestState(t), "sess1")
	cart := store.NewCartStore(nil, "sess1", nil)

	_, _, err := f.Submit(cart, &PaymentClient{}, "sess1")
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	f := NewFlow(newTestState(t), "sess1")
	require.NoError(t, f.SetCustomerInfo(validCustomer()))
	require.NoError(t, f.SetShipping(validAddress()))

	cart := store.NewCartStore(nil, "sess1", nil)
	_, _, err := f.Submit(cart, &PaymentClient{}, "sess1")
	assert.Error(t, err)
}

func TestSubmitRedirectsAndClearsSavedState(t *testing.T) {
	var gotAmount string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		order := payload["order"].(map[string]interface{})
		gotAmount = order["amount"].(string)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]string{"ref": "REF-123", "url": "https://pay.example.com/REF-123"},
		})
	}))
	defer srv.Close()

	state := newTestState(t)
	f := NewFlow(state, "sess1")
	require.NoError(t, f.SetCustomerInfo(validCustomer()))
	require.NoError(t, f.SetShipping(validAddress()))

	cart := store.NewCartStore(nil, "sess1", nil)
	require.NoError(t, cart.AddToCart(&models.Product{ID: "p1", Name: "Tee", Price: 19.99}, 2, ""))

	gw := &PaymentClient{StoreID: 1, AuthKey: "key", APIURL: srv.URL, Currency: "USD"}
	url, ref, err := f.Submit(cart, gw, "sess1")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/REF-123", url)
	assert.Equal(t, "REF-123", ref)
	assert.Equal(t, "39.98", gotAmount)

	// the saved step position is gone once the gateway accepted the order
	resumed := NewFlow(state, "sess1")
	assert.Equal(t, StepCustomerInfo, resumed.Step())
}

func TestSubmitSurfacesGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "22", "message": "invalid store"},
		})
	}))
	defer srv.Close()

	state := newTestState(t)
	f := NewFlow(state, "sess1")
	require.NoError(t, f.SetCustomerInfo(validCustomer()))
	require.NoError(t, f.SetShipping(validAddress()))

	cart := store.NewCartStore(nil, "sess1", nil)
	require.NoError(t, cart.AddToCart(&models.Product{ID: "p1", Name: "Tee", Price: 10}, 1, ""))

	gw := &PaymentClient{StoreID: 1, AuthKey: "key", APIURL: srv.URL, Currency: "USD"}
	_, _, err := f.Submit(cart, gw, "sess1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid store")

	// failed submission keeps the flow resumable
	resumed := NewFlow(state, "sess1")
	assert.Equal(t, StepPayment, resumed.Step())
}
