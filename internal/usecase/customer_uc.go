package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/arveloz/erpforms/internal/domain"
)

type CustomerUC struct {
	Customers domain.CustomerRepo
}

// DetectAddressChange compares the address book of the stored record
// against the incoming edit, line by line. Any textual difference, or
// a line present on only one side, marks the record. Runs on edits
// only; the caller persists the updated record.
func DetectAddressChange(oldAddrs, newAddrs []domain.Address) bool {
	n := len(oldAddrs)
	if len(newAddrs) > n {
		n = len(newAddrs)
	}
	for i := 0; i < n; i++ {
		if i >= len(oldAddrs) || i >= len(newAddrs) {
			return true
		}
		if oldAddrs[i].Text != newAddrs[i].Text {
			return true
		}
	}
	return false
}

// Update saves a customer edit, flagging it when the address book
// changed. The flag is sticky: a later edit without address changes
// does not clear it.
func (uc *CustomerUC) Update(ctx context.Context, edited *domain.Customer) error {
	current, err := uc.Customers.FindByID(ctx, edited.ID)
	if err != nil {
		return err
	}
	if DetectAddressChange(current.Addresses, edited.Addresses) {
		edited.AddressChanged = true
		log.Info().Str("customer", edited.ID.String()).Msg("address change detected")
	} else {
		edited.AddressChanged = current.AddressChanged
	}
	return uc.Customers.Save(ctx, edited)
}
