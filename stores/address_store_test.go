package stores

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeboye22/user-fuelup/models"
)

// profileAPI serves /users/me from a profile that PUT replaces, assigning
// fresh ids the way the real API does.
type profileAPI struct {
	user    models.User
	lastPut []byte
	puts    int
}

func (p *profileAPI) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, success(p.user))
	})
	mux.HandleFunc("PUT /users/me", func(w http.ResponseWriter, r *http.Request) {
		p.puts++
		p.lastPut, _ = io.ReadAll(r.Body)
		var update profileUpdate
		json.Unmarshal(p.lastPut, &update)
		for i := range update.Addresses {
			update.Addresses[i].ID = "new-" + update.Addresses[i].Street
		}
		p.user.Addresses = update.Addresses
		writeJSON(w, http.StatusOK, success(p.user))
	})
	return mux
}

func threeAddresses() []models.Address {
	return []models.Address{
		{ID: "a1", Street: "1 Marina", City: "Lagos", State: "Lagos"},
		{ID: "a2", Street: "2 Allen", City: "Ikeja", State: "Lagos"},
		{ID: "a3", Street: "3 Wuse", City: "Abuja", State: "FCT"},
	}
}

func TestFetchAddressesMarksFirstDefault(t *testing.T) {
	api := &profileAPI{user: models.User{FirstName: "Ada", Addresses: threeAddresses()}}
	s, _ := newTestStores(t, api.mux())
	sess := signedIn(t)

	list, err := s.Addresses.FetchAddresses(context.Background(), sess)
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)
	assert.False(t, list[2].IsDefault)
}

func TestSetDefaultAddressReorders(t *testing.T) {
	api := &profileAPI{user: models.User{FirstName: "Ada", LastName: "Obi", Phone: "0801", Addresses: threeAddresses()}}
	s, _ := newTestStores(t, api.mux())
	sess := signedIn(t)

	require.NoError(t, s.Addresses.SetDefaultAddress(context.Background(), sess, "a2"))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(api.lastPut, &sent))
	assert.Equal(t, "Ada", sent["firstName"])
	assert.Equal(t, "Obi", sent["lastName"])
	assert.Equal(t, "0801", sent["phone"])

	addrs := sent["addresses"].([]any)
	require.Len(t, addrs, 3)
	first := addrs[0].(map[string]any)
	assert.Equal(t, "2 Allen", first["street"])
	assert.NotContains(t, first, "_id")
	assert.NotContains(t, first, "isDefault")
	assert.Equal(t, "1 Marina", addrs[1].(map[string]any)["street"])
	assert.Equal(t, "3 Wuse", addrs[2].(map[string]any)["street"])

	require.Len(t, sess.Addresses, 3)
	assert.Equal(t, "2 Allen", sess.Addresses[0].Street)
	assert.True(t, sess.Addresses[0].IsDefault)
	assert.Equal(t, "new-2 Allen", sess.Addresses[0].ID)
}

func TestSetDefaultAddressUnknownID(t *testing.T) {
	api := &profileAPI{user: models.User{Addresses: threeAddresses()}}
	s, _ := newTestStores(t, api.mux())

	err := s.Addresses.SetDefaultAddress(context.Background(), signedIn(t), "missing")

	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.Zero(t, api.puts)
}

func TestAddUpdateDeleteAddress(t *testing.T) {
	api := &profileAPI{user: models.User{Addresses: threeAddresses()}}
	s, _ := newTestStores(t, api.mux())
	sess := signedIn(t)
	ctx := context.Background()

	require.NoError(t, s.Addresses.AddAddress(ctx, sess, models.Address{Street: " 4 Bode ", City: "Ibadan", State: "Oyo"}))
	require.Len(t, sess.Addresses, 4)
	assert.Equal(t, "4 Bode", sess.Addresses[3].Street)

	require.NoError(t, s.Addresses.UpdateAddress(ctx, sess, "new-1 Marina", models.Address{Street: "10 Marina", City: "Lagos", State: "Lagos"}))
	assert.Equal(t, "10 Marina", sess.Addresses[0].Street)
	assert.True(t, sess.Addresses[0].IsDefault)

	require.NoError(t, s.Addresses.DeleteAddress(ctx, sess, "new-10 Marina"))
	require.Len(t, sess.Addresses, 3)
	assert.Equal(t, "2 Allen", sess.Addresses[0].Street)
	assert.True(t, sess.Addresses[0].IsDefault)

	err := s.Addresses.AddAddress(ctx, sess, models.Address{Street: "5 Nowhere"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "City is required", Message(err, ""))
}

func TestSaveAddressesDropsBlankRows(t *testing.T) {
	api := &profileAPI{user: models.User{Addresses: threeAddresses()}}
	s, _ := newTestStores(t, api.mux())
	sess := signedIn(t)

	err := s.Addresses.SaveAddresses(context.Background(), sess, []models.Address{
		{Street: "1 Marina", City: "Lagos", State: "Lagos"},
		{},
		{Street: "  ", City: " "},
	})
	require.NoError(t, err)
	require.Len(t, sess.Addresses, 1)
	assert.Equal(t, "1 Marina", sess.Addresses[0].Street)
}

func TestDefaultAddress(t *testing.T) {
	_, ok := DefaultAddress(nil)
	assert.False(t, ok)

	list := threeAddresses()
	a, ok := DefaultAddress(list)
	assert.True(t, ok)
	assert.Equal(t, "a1", a.ID)

	list[2].IsDefault = true
	a, _ = DefaultAddress(list)
	assert.Equal(t, "a3", a.ID)
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "1 Marina, Lagos, Lagos", FormatAddress(models.Address{Street: "1 Marina", City: "Lagos", State: "Lagos", LGA: "Lagos Island"}))
}
