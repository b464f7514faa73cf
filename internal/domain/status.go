package domain

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusInProgress     Status = "IN_PROGRESS"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusServed         Status = "SERVED"
	StatusCancelled      Status = "CANCELLED"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleKitchen  Role = "kitchen"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// StaffRole reports whether the role names an employable account. Customers
// are never staff accounts.
func (r Role) StaffRole() bool {
	return r == RoleKitchen || r == RoleStaff || r == RoleAdmin
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusInProgress,
		StatusReadyForPickup, StatusServed, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses admit no further transition.
func (s Status) Terminal() bool {
	return s == StatusServed || s == StatusCancelled
}

// predecessor of each forward transition. A transition request is only legal
// from exactly this status; the store additionally re-checks it with a
// conditional update so a stale request cannot clobber a concurrent one.
var predecessor = map[Status]Status{
	StatusPaid:           StatusPendingPayment,
	StatusInProgress:     StatusPaid,
	StatusReadyForPickup: StatusInProgress,
	StatusServed:         StatusReadyForPickup,
}

// transitionActors lists who may trigger each forward transition.
var transitionActors = map[Status][]Role{
	StatusPaid:           {RoleCustomer},
	StatusInProgress:     {RoleKitchen},
	StatusReadyForPickup: {RoleKitchen},
	StatusServed:         {RoleStaff},
	StatusCancelled:      {RoleStaff, RoleAdmin},
}

// ExpectedFrom returns the status an order must currently hold for a
// transition to the target to be legal. Cancellation is legal from any
// non-terminal status, so its expected predecessor is the caller's observed
// status.
func ExpectedFrom(target, observed Status) (Status, bool) {
	if target == StatusCancelled {
		if observed.Terminal() {
			return "", false
		}
		return observed, true
	}
	from, ok := predecessor[target]
	return from, ok
}

// AllowedActor reports whether the role may trigger a transition to target.
func AllowedActor(target Status, actor Role) bool {
	for _, role := range transitionActors[target] {
		if role == actor {
			return true
		}
	}
	return false
}

// KitchenStatuses is the slice the kitchen view polls: orders that are paid
// for but not yet picked up.
func KitchenStatuses() []Status {
	return []Status{StatusPaid, StatusInProgress}
}
