package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderForm struct {
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	OrderAddress string `json:"orderAddress"`
}

func TestOrderSchema(t *testing.T) {
	assert.NoError(t, Order.Validate(orderForm{"p1", 40, "1 Marina, Lagos, Lagos"}))

	err := Order.Validate(orderForm{"", 0, ""})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "Please select a fuel type", verr.For("productId"))
	assert.Equal(t, "Minimum quantity is 10 liters", verr.For("quantity"))
	assert.Equal(t, "Please select a delivery location", verr.For("orderAddress"))

	err = Order.Validate(orderForm{"p1", 15, "somewhere"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Quantity must be in steps of 10 liters", verr.First())

	err = Order.Validate(orderForm{"p1", 50, "somewhere"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Maximum quantity is 40 liters", verr.For("quantity"))
}

func TestMissingFieldsUseTheirMessage(t *testing.T) {
	err := Ticket.Validate(map[string]any{})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please select a category", verr.For("categoryId"))
	assert.Equal(t, "Please provide more details (at least 10 characters)", verr.For("message"))
}

func TestTicketMessageLength(t *testing.T) {
	assert.NoError(t, Ticket.Validate(map[string]string{"categoryId": "c1", "message": "My delivery is late"}))

	err := Ticket.Validate(map[string]string{"categoryId": "c1", "message": "late"})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{Field: "message", Message: "Please provide more details (at least 10 characters)"}}, verr.Fields)
}

func TestSignIn(t *testing.T) {
	assert.NoError(t, SignIn.Validate(map[string]string{"email": "ada@example.com", "password": "x"}))

	err := SignIn.Validate(map[string]string{"email": "not-an-email", "password": ""})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a valid email address", verr.For("email"))
	assert.Equal(t, "Password is required", verr.For("password"))
	assert.Equal(t, "Please enter a valid email address; Password is required", verr.Error())
}

func TestPasswordChange(t *testing.T) {
	err := PasswordChange.Validate(map[string]string{"currentPassword": "old", "newPassword": "abc"})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be at least 6 characters long", verr.First())
}

func TestFail(t *testing.T) {
	err := Fail("confirmPassword", "Passwords do not match")

	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, "Passwords do not match", err.Error())
}
