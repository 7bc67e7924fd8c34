package models

// SendOutcome records what happened to a single token during a fan-out.
type SendOutcome struct {
	Token     string `json:"token"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// FanoutReport summarises a SendToAccount/SendToAll call. Outcomes is only
// populated in non-strict mode; in strict mode the first failure aborts the
// call and propagates as an error instead.
type FanoutReport struct {
	Status   string        `json:"message"`
	Outcomes []SendOutcome `json:"results,omitempty"`
}
