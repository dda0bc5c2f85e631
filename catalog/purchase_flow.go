package catalog

import "ornament-catalog/models"

// PurchaseState is a state of the purchase confirmation flow
type PurchaseState string

const (
	PurchaseIdle                 PurchaseState = "idle"
	PurchaseAwaitingConfirmation PurchaseState = "awaiting-confirmation"
	PurchaseSubmitting           PurchaseState = "submitting"
)

// Outcome is how a submitted request was settled
type Outcome int

const (
	OutcomeResolved Outcome = iota
	OutcomeFailed
	// OutcomeStale means the flow was cancelled while the request was in flight
	OutcomeStale
)

// PurchaseFlow is the state machine behind the purchase confirmation dialog.
// It performs no I/O: Begin hands out the request to send and Resolve settles it.
type PurchaseFlow struct {
	state      PurchaseState
	target     *models.OrnamentRecord
	generation uint64
	lastErr    error
	// inFlight is set from Begin until Resolve, even if the dialog was cancelled meanwhile
	inFlight bool
}

// NewPurchaseFlow creates an idle PurchaseFlow
func NewPurchaseFlow() *PurchaseFlow {
	return &PurchaseFlow{state: PurchaseIdle}
}

// Open asks the user to confirm buying target
func (f *PurchaseFlow) Open(target models.OrnamentRecord) error {
	if f.state == PurchaseSubmitting {
		return ErrPurchaseInFlight
	}
	f.target = &target
	f.state = PurchaseAwaitingConfirmation
	f.lastErr = nil
	return nil
}

// Begin moves to Submitting and returns the ornament to purchase.
// balance is checked locally so an unaffordable purchase never reaches the backend.
func (f *PurchaseFlow) Begin(balance int64) (models.OrnamentRecord, uint64, error) {
	if f.inFlight || f.state == PurchaseSubmitting {
		return models.OrnamentRecord{}, 0, ErrPurchaseInFlight
	}
	switch f.state {
	case PurchaseIdle:
		return models.OrnamentRecord{}, 0, ErrNoPurchaseTarget
	}
	if f.target.Price > balance {
		f.lastErr = Precondition("purchase", "not enough coins")
		return models.OrnamentRecord{}, 0, f.lastErr
	}
	f.state = PurchaseSubmitting
	f.inFlight = true
	f.lastErr = nil
	return *f.target, f.generation, nil
}

// Resolve settles the request started by Begin with generation gen
func (f *PurchaseFlow) Resolve(gen uint64, err error) (models.OrnamentRecord, Outcome) {
	f.inFlight = false
	if gen != f.generation || f.state != PurchaseSubmitting {
		return models.OrnamentRecord{}, OutcomeStale
	}
	if err != nil {
		f.state = PurchaseAwaitingConfirmation
		f.lastErr = err
		return *f.target, OutcomeFailed
	}
	target := *f.target
	f.state = PurchaseIdle
	f.target = nil
	f.lastErr = nil
	return target, OutcomeResolved
}

// Cancel closes the dialog from any state, discarding the target.
// A request already sent stays in flight and blocks Begin until it resolves.
func (f *PurchaseFlow) Cancel() {
	f.generation++
	f.state = PurchaseIdle
	f.target = nil
	f.lastErr = nil
}

// State returns the current state
func (f *PurchaseFlow) State() PurchaseState {
	return f.state
}

// Target returns the ornament awaiting purchase, or nil
func (f *PurchaseFlow) Target() *models.OrnamentRecord {
	if f.target == nil {
		return nil
	}
	t := *f.target
	return &t
}

// LastError returns the error of the last failed attempt
func (f *PurchaseFlow) LastError() error {
	return f.lastErr
}

// InFlight reports whether a purchase request is waiting for the backend
func (f *PurchaseFlow) InFlight() bool {
	return f.inFlight
}
