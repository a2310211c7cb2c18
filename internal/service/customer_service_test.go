package service

import (
	"testing"

	"sigmavie-commerce/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:           "binh.tran@example.com",
		Password:        "matkhau123",
		ConfirmPassword: "matkhau123",
		FullName:        "Trần Thị Bình",
		PhoneNumber:     "0987654321",
		CCCDNumber:      "012345678901",
		Address:         "45 Nguyễn Huệ, TP.HCM",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	cust := newFakeCustomerRepo()
	svc := NewCustomerService(cust, &fakeOrderRepo{}, nil)

	customer, err := svc.Register(validRegistration())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, customer.ID)
	assert.NotEmpty(t, customer.Password)
	assert.NotEqual(t, "matkhau123", customer.Password, "password must be hashed")

	authed, err := svc.Authenticate("binh.tran@example.com", "matkhau123")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, authed.ID)

	_, err = svc.Authenticate("binh.tran@example.com", "saimatkhau")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestRegisterUniqueness(t *testing.T) {
	cust := newFakeCustomerRepo()
	svc := NewCustomerService(cust, &fakeOrderRepo{}, nil)

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	// Duplicate email.
	dup := validRegistration()
	dup.PhoneNumber = "0911111111"
	dup.CCCDNumber = "999999999999"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Duplicate phone.
	dup = validRegistration()
	dup.Email = "other@example.com"
	dup.CCCDNumber = "999999999999"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrPhoneTaken)

	// Duplicate CCCD.
	dup = validRegistration()
	dup.Email = "other@example.com"
	dup.PhoneNumber = "0911111111"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrCCCDTaken)

	// Each rejection left exactly the one original record.
	all, _ := svc.GetAll()
	assert.Len(t, all, 1)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo(), &fakeOrderRepo{}, nil)

	req := validRegistration()
	req.ConfirmPassword = "khac"
	_, err := svc.Register(req)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo(), &fakeOrderRepo{}, nil)

	req := validRegistration()
	req.PhoneNumber = "12345"
	_, err := svc.Register(req)
	assert.Error(t, err, "invalid phone number rejected")

	req = validRegistration()
	req.Email = "not-an-email"
	_, err = svc.Register(req)
	assert.Error(t, err)
}

func TestRecoverFromOrders(t *testing.T) {
	cust := newFakeCustomerRepo()
	orders := &fakeOrderRepo{}
	svc := NewCustomerService(cust, orders, nil)

	known, err := svc.Register(validRegistration())
	require.NoError(t, err)

	ghostID := uuid.New()
	require.NoError(t, orders.Create(nil, &model.Order{
		CustomerID:      ghostID,
		ProductID:       uuid.New(),
		ProductName:     "Đầm hoa",
		CustomerName:    "Lê Văn Cường",
		CustomerContact: "0933333333",
		CustomerAddress: "7 Trần Phú, Đà Nẵng",
		Quantity:        1,
		Status:          model.OrderPending,
	}))
	require.NoError(t, orders.Create(nil, &model.Order{
		CustomerID:  known.ID,
		ProductID:   uuid.New(),
		ProductName: "Áo khoác",
		Quantity:    1,
		Status:      model.OrderPending,
	}))

	recovered, err := svc.RecoverFromOrders()
	require.NoError(t, err)
	assert.Equal(t, 1, recovered, "only the dangling ref is rebuilt")

	ghost, err := svc.GetByID(ghostID)
	require.NoError(t, err)
	assert.True(t, ghost.Recovered)
	assert.Equal(t, "Lê Văn Cường", ghost.FullName)
	assert.Equal(t, "0933333333", ghost.PhoneNumber)
	assert.False(t, ghost.CheckPassword("anything"), "recovered accounts cannot log in")

	// Idempotent: a second pass creates nothing.
	recovered, err = svc.RecoverFromOrders()
	require.NoError(t, err)
	assert.Equal(t, 0, recovered)
}
