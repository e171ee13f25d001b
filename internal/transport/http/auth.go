package httpt

import (
	"fmt"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
)

type Action string

const (
	ActionCharge          Action = "payment.charge"
	ActionCreateLink      Action = "payment_link.create"
	ActionDeleteLink      Action = "payment_link.delete"
	ActionViewPayment     Action = "payment.view"
	ActionListUnfulfilled Action = "payment.list_unfulfilled"
	ActionFulfill         Action = "payment.fulfill"
)

// RoleAuthorizer is the static role matrix used when no external
// permission service is wired in.
type RoleAuthorizer struct {
	allowed map[entity.Role]map[Action]bool
}

var _ Authorizer = (*RoleAuthorizer)(nil)

func NewRoleAuthorizer() *RoleAuthorizer {
	customer := map[Action]bool{
		ActionCharge:      true,
		ActionViewPayment: true,
	}
	admin := map[Action]bool{
		ActionCharge:          true,
		ActionCreateLink:      true,
		ActionDeleteLink:      true,
		ActionViewPayment:     true,
		ActionListUnfulfilled: true,
		ActionFulfill:         true,
	}
	return &RoleAuthorizer{
		allowed: map[entity.Role]map[Action]bool{
			entity.RoleUser:   customer,
			entity.RoleDealer: customer,
			entity.RoleAdmin:  admin,
		},
	}
}

func (a *RoleAuthorizer) Authorize(subject entity.Subject, action Action) error {
	if a.allowed[subject.Role][action] {
		return nil
	}
	return fmt.Errorf("%w: role %q may not %s", entity.ErrForbidden, subject.Role, action)
}
