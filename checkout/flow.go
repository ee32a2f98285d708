package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/lojak57/baseform-api/models"
	"github.com/lojak57/baseform-api/store"
)

// Step is a position in the linear checkout sequence.
type Step int

const (
	StepCustomerInfo Step = iota
	StepShipping
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepCustomerInfo:
		return "customer_info"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// stepTTL bounds how long an abandoned checkout keeps its saved position.
const stepTTL = 30 * time.Minute

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var (
	ErrIncompleteStep = errors.New("current step is incomplete")
	ErrWrongStep      = errors.New("operation not valid for current step")
)

// CustomerInfo is the first step's form state.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Flow walks a session through customer info, shipping, and payment in
// strict order. Back transitions to any earlier step are allowed; forward
// movement is gated on the current step's fields being populated. The step
// position is kept in the expiring state store so a returning session
// resumes where it left off.
type Flow struct {
	sessionID string
	state     *store.StateStore

	step     Step
	customer CustomerInfo
	shipping models.Address
}

type flowSnapshot struct {
	Step     Step           `json:"step"`
	Customer CustomerInfo   `json:"customer"`
	Shipping models.Address `json:"shipping"`
}

// NewFlow starts or resumes the checkout for a session.
func NewFlow(state *store.StateStore, sessionID string) *Flow {
	f := &Flow{sessionID: sessionID, state: state}
	if state != nil {
		var snap flowSnapshot
		if state.Get(f.stateKey(), &snap) {
			f.step = snap.Step
			f.customer = snap.Customer
			f.shipping = snap.Shipping
		}
	}
	return f
}

func (f *Flow) stateKey() string {
	return "checkout-" + f.sessionID
}

func (f *Flow) save() {
	if f.state == nil {
		return
	}
	_ = f.state.Put(f.stateKey(), flowSnapshot{
		Step:     f.step,
		Customer: f.customer,
		Shipping: f.shipping,
	}, stepTTL)
}

// Step reports the current position.
func (f *Flow) Step() Step { return f.step }

// Customer returns the collected customer info.
func (f *Flow) Customer() CustomerInfo { return f.customer }

// Shipping returns the collected shipping address.
func (f *Flow) Shipping() models.Address { return f.shipping }

// SetCustomerInfo validates and stores the first step, then advances to
// shipping. Presence and format checks only.
func (f *Flow) SetCustomerInfo(info CustomerInfo) error {
	if f.step != StepCustomerInfo {
		return ErrWrongStep
	}
	if info.Name == "" || info.Email == "" || info.Phone == "" {
		return fmt.Errorf("%w: name, email, and phone are required", ErrIncompleteStep)
	}
	if !emailPattern.MatchString(info.Email) {
		return fmt.Errorf("%w: invalid email address", ErrIncompleteStep)
	}
	f.customer = info
	f.step = StepShipping
	f.save()
	return nil
}

// SetShipping validates and stores the shipping address, then advances to
// payment.
func (f *Flow) SetShipping(addr models.Address) error {
	if f.step != StepShipping {
		return ErrWrongStep
	}
	if addr.Line1 == "" || addr.City == "" || addr.Country == "" || addr.PostalCode == "" {
		return fmt.Errorf("%w: line1, city, country, and postal code are required", ErrIncompleteStep)
	}
	f.shipping = addr
	f.step = StepPayment
	f.save()
	return nil
}

// Back moves to any earlier step. Collected form state is kept.
func (f *Flow) Back(to Step) error {
	if to >= f.step {
		return ErrWrongStep
	}
	f.step = to
	f.save()
	return nil
}

// Submit hands the cart total and collected customer/shipping data to the
// hosted payment gateway and returns the redirect URL plus the gateway's
// order reference. The cart is not cleared here; that happens when the
// webhook confirms payment.
func (f *Flow) Submit(cart *store.CartStore, gw *PaymentClient, cartID string) (url, ref string, err error) {
	if f.step != StepPayment {
		return "", "", ErrWrongStep
	}
	if cart.CartCount() == 0 {
		return "", "", errors.New("cart is empty")
	}
	req := PaymentRequest{
		CartID:      cartID,
		Amount:      fmt.Sprintf("%.2f", cart.CartTotal()),
		Description: fmt.Sprintf("BaseForm order (%d items)", cart.CartCount()),
		Customer:    f.customer,
		Address:     f.shipping,
	}
	url, ref, err = gw.CreatePayment(req)
	if err != nil {
		return "", "", err
	}
	if f.state != nil {
		_ = f.state.Delete(f.stateKey())
	}
	return url, ref, nil
}
