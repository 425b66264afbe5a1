package ledger

import (
	"github.com/grachmannico95/txengine/internal/domain"
	"github.com/grachmannico95/txengine/pkg/money"
)

// Account is one client's balances. Transitions return a new value and leave
// the receiver untouched, so the ledger commits only fully checked states.
type Account struct {
	client    uint16
	available money.Amount
	held      money.Amount
	locked    bool
}

func newAccount(client uint16) Account {
	return Account{client: client}
}

func (a Account) Client() uint16 {
	return a.client
}

func (a Account) Available() money.Amount {
	return a.available
}

func (a Account) Held() money.Amount {
	return a.held
}

// Total is always derived, never stored.
func (a Account) Total() money.Amount {
	return a.available.Add(a.held)
}

func (a Account) Locked() bool {
	return a.locked
}

func (a Account) Snapshot() domain.AccountSnapshot {
	return domain.AccountSnapshot{
		Client:    a.client,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.locked,
	}
}

func (a Account) deposit(amount money.Amount) (Account, error) {
	if a.locked {
		return a, domain.ErrAccountLocked
	}

	available, ok := a.available.CheckedAdd(amount)
	if !ok {
		return a, domain.ErrBalanceOverflow
	}

	a.available = available
	return a, a.checkTotal()
}

func (a Account) withdraw(amount money.Amount) (Account, error) {
	if a.locked {
		return a, domain.ErrAccountLocked
	}
	if a.available.LessThan(amount) {
		return a, domain.ErrInsufficientFunds
	}

	a.available = a.available.Sub(amount)
	return a, nil
}

// hold moves a disputed entry's amount into held. A disputed deposit is taken
// out of available; a disputed withdrawal is held on top of the balance.
func (a Account) hold(kind domain.EntryKind, amount money.Amount) (Account, error) {
	held, ok := a.held.CheckedAdd(amount)
	if !ok {
		return a, domain.ErrBalanceOverflow
	}

	if kind == domain.EntryKindDeposit {
		if a.available.LessThan(amount) {
			return a, domain.ErrInsufficientFunds
		}
		a.available = a.available.Sub(amount)
	}

	a.held = held
	return a, a.checkTotal()
}

// release reverses hold exactly.
func (a Account) release(kind domain.EntryKind, amount money.Amount) (Account, error) {
	if a.held.LessThan(amount) {
		return a, domain.ErrInvariantViolated
	}

	a.held = a.held.Sub(amount)
	if kind == domain.EntryKindDeposit {
		available, ok := a.available.CheckedAdd(amount)
		if !ok {
			return a, domain.ErrBalanceOverflow
		}
		a.available = available
	}

	return a, nil
}

// chargeback drops the held amount without returning it to available and
// locks the account for good.
func (a Account) chargeback(amount money.Amount) (Account, error) {
	if a.held.LessThan(amount) {
		return a, domain.ErrInvariantViolated
	}

	a.held = a.held.Sub(amount)
	a.locked = true
	return a, nil
}

func (a Account) checkTotal() error {
	if _, ok := a.available.CheckedAdd(a.held); !ok {
		return domain.ErrBalanceOverflow
	}
	return nil
}

// verify reports whether the account satisfies available >= 0 and held >= 0.
func (a Account) verify() error {
	if a.available.IsNegative() || a.held.IsNegative() {
		return domain.ErrInvariantViolated
	}
	return a.checkTotal()
}
