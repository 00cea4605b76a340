package handlers

import (
	"fmt"
	"moontech/internal"
	"moontech/models"
	"moontech/utility"
)

type Addresses struct {
	database internal.Database
	logger   internal.LogHandler
}

func NewAddresses() *Addresses {
	return &Addresses{}
}

func (a *Addresses) SetDatabase(database internal.Database) {
	a.database = database
}

func (a *Addresses) SetLogger(logger internal.LogHandler) {
	a.logger = logger
}

func (a *Addresses) UserAddresses(userId string) ([]models.ShippingAddress, error) {
	return a.database.GetAddresses(userId)
}

func (a *Addresses) Add(userId string, address *models.ShippingAddress) (*models.ShippingAddress, error) {
	if address.Recipient == "" || address.Street == "" || address.City == "" {
		return nil, fmt.Errorf("%w: recipient, street and city are required", ErrInvalid)
	}
	address.AddressId = utility.NewUUID()
	address.UserId = userId
	if err := a.database.AddAddress(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (a *Addresses) Delete(userId, addressId string) error {
	address, err := a.database.GetAddress(addressId)
	if err != nil {
		return fmt.Errorf("%w: address %s", ErrNotFound, addressId)
	}
	if address.UserId != userId {
		return ErrForbidden
	}
	return a.database.DeleteAddress(addressId)
}
