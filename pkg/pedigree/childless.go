package pedigree

import perr "github.com/matzehuels/pedigree/pkg/errors"

// ChildlessStatus marks an individual or partnership as having no children
// by circumstance or by infertility.
type ChildlessStatus string

const (
	ChildlessNone      ChildlessStatus = "none"
	ChildlessChildless ChildlessStatus = "childless"
	ChildlessInfertile ChildlessStatus = "infertile"
)

// Childless is the childless-status state shared by persons and partnerships.
// Both payloads hold one by reference and delegate to it.
//
// The zero value is ChildlessNone with no reason. A reason is only kept while
// the status is childless or infertile; returning to none drops it.
type Childless struct {
	status ChildlessStatus
	reason string
}

// NewChildless returns a Childless in the given state.
func NewChildless(status ChildlessStatus, reason string) (*Childless, error) {
	c := &Childless{}
	if err := c.Set(status, reason); err != nil {
		return nil, err
	}
	return c, nil
}

// Status returns the current status. A nil Childless is ChildlessNone.
func (c *Childless) Status() ChildlessStatus {
	if c == nil || c.status == "" {
		return ChildlessNone
	}
	return c.status
}

// Reason returns the free-text reason, empty when the status is none.
func (c *Childless) Reason() string {
	if c == nil {
		return ""
	}
	return c.reason
}

// IsSet reports whether the status is childless or infertile.
func (c *Childless) IsSet() bool { return c.Status() != ChildlessNone }

// Set moves to status. An invalid status leaves c untouched.
func (c *Childless) Set(status ChildlessStatus, reason string) error {
	if err := perr.ValidateChildlessStatus(string(status)); err != nil {
		return err
	}
	if err := perr.ValidateChildlessReason(reason); err != nil {
		return err
	}
	if status == ChildlessNone {
		c.Clear()
		return nil
	}
	c.status = status
	c.reason = reason
	return nil
}

// Clear returns to ChildlessNone.
func (c *Childless) Clear() {
	*c = Childless{}
}

// Clone returns an independent copy.
func (c *Childless) Clone() *Childless {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (c *Childless) validate() error {
	if c == nil {
		return nil
	}
	if err := perr.ValidateChildlessStatus(string(c.Status())); err != nil {
		return err
	}
	if !c.IsSet() && c.reason != "" {
		return perr.New(perr.ErrCodeInvalidProperty, "childless reason without a childless status")
	}
	return perr.ValidateChildlessReason(c.reason)
}
