package stores

import (
	"context"
	"strings"

	"github.com/Adeboye22/user-fuelup/models"
	"github.com/Adeboye22/user-fuelup/validation"
)

// AddressStore edits the addresses embedded in the user profile. Every
// change rewrites the whole list through PUT /users/me; the first address
// is the default.
type AddressStore struct {
	base
}

type profileUpdate struct {
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Phone     string           `json:"phone"`
	Addresses []models.Address `json:"addresses"`
}

func markDefault(list []models.Address) []models.Address {
	out := make([]models.Address, len(list))
	for i, a := range list {
		a.IsDefault = i == 0
		out[i] = a
	}
	return out
}

// clean strips the identifiers the API assigns itself.
func clean(list []models.Address) []models.Address {
	out := make([]models.Address, 0, len(list))
	for _, a := range list {
		a.ID = ""
		a.IsDefault = false
		out = append(out, a)
	}
	return out
}

func trimAddress(a models.Address) models.Address {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.LGA = strings.TrimSpace(a.LGA)
	return a
}

func indexOf(list []models.Address, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *AddressStore) FetchAddresses(ctx context.Context, sess *Session) ([]models.Address, error) {
	var me models.User
	if _, err := s.client(sess).Get(ctx, "/users/me", &me); err != nil {
		return nil, wrap("fetch addresses", err)
	}
	sess.Addresses = markDefault(me.Addresses)
	return sess.Addresses, nil
}

// rewrite loads the current profile, lets edit produce the new list and
// stores the API's answer in the session.
func (s *AddressStore) rewrite(ctx context.Context, sess *Session, action string, edit func([]models.Address) ([]models.Address, error)) error {
	api := s.client(sess)

	var me models.User
	if _, err := api.Get(ctx, "/users/me", &me); err != nil {
		return wrap(action, err)
	}
	next, err := edit(me.Addresses)
	if err != nil {
		return err
	}

	update := profileUpdate{
		FirstName: me.FirstName,
		LastName:  me.LastName,
		Phone:     me.Phone,
		Addresses: clean(next),
	}
	var updated models.User
	if _, err := api.Put(ctx, "/users/me", update, &updated); err != nil {
		return wrap(action, err)
	}

	sess.Addresses = markDefault(updated.Addresses)
	if sess.User != nil {
		sess.User.Addresses = updated.Addresses
	}
	return nil
}

func (s *AddressStore) AddAddress(ctx context.Context, sess *Session, a models.Address) error {
	a = trimAddress(a)
	if err := validation.Address.Validate(a); err != nil {
		return err
	}
	return s.rewrite(ctx, sess, "add address", func(list []models.Address) ([]models.Address, error) {
		return append(list, a), nil
	})
}

func (s *AddressStore) UpdateAddress(ctx context.Context, sess *Session, id string, a models.Address) error {
	a = trimAddress(a)
	if err := validation.Address.Validate(a); err != nil {
		return err
	}
	return s.rewrite(ctx, sess, "update address", func(list []models.Address) ([]models.Address, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, ErrAddressNotFound
		}
		a.ID = list[i].ID
		list[i] = a
		return list, nil
	})
}

func (s *AddressStore) DeleteAddress(ctx context.Context, sess *Session, id string) error {
	return s.rewrite(ctx, sess, "delete address", func(list []models.Address) ([]models.Address, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, ErrAddressNotFound
		}
		return append(list[:i:i], list[i+1:]...), nil
	})
}

// SetDefaultAddress moves the address to the front of the list.
func (s *AddressStore) SetDefaultAddress(ctx context.Context, sess *Session, id string) error {
	return s.rewrite(ctx, sess, "set default address", func(list []models.Address) ([]models.Address, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, ErrAddressNotFound
		}
		out := make([]models.Address, 0, len(list))
		out = append(out, list[i])
		out = append(out, list[:i]...)
		return append(out, list[i+1:]...), nil
	})
}

// SaveAddresses replaces the whole list, dropping blank rows.
func (s *AddressStore) SaveAddresses(ctx context.Context, sess *Session, list []models.Address) error {
	kept := make([]models.Address, 0, len(list))
	for _, a := range list {
		a = trimAddress(a)
		if a.Blank() {
			continue
		}
		if err := validation.Address.Validate(a); err != nil {
			return err
		}
		kept = append(kept, a)
	}
	return s.rewrite(ctx, sess, "save addresses", func([]models.Address) ([]models.Address, error) {
		return kept, nil
	})
}

// DefaultAddress returns the address flagged default, else the first one.
func DefaultAddress(list []models.Address) (models.Address, bool) {
	for _, a := range list {
		if a.IsDefault {
			return a, true
		}
	}
	if len(list) > 0 {
		return list[0], true
	}
	return models.Address{}, false
}

// FormatAddress renders "street, city, state" for order payloads.
func FormatAddress(a models.Address) string {
	return a.Street + ", " + a.City + ", " + a.State
}
