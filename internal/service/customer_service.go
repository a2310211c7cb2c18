package service

import (
	"errors"
	"fmt"

	"sigmavie-commerce/internal/model"
	"sigmavie-commerce/internal/repository"
	"sigmavie-commerce/internal/ws"
	"sigmavie-commerce/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken       = errors.New("email is already registered")
	ErrPhoneTaken       = errors.New("phone number is already registered")
	ErrCCCDTaken        = errors.New("CCCD number is already registered")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrAccountInactive  = errors.New("account is inactive")
)

// RegisterRequest carries a storefront registration form.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FullName        string `json:"full_name" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"required,vn_phone"`
	CCCDNumber      string `json:"cccd_number" validate:"cccd"`
	Address         string `json:"address"`
}

type CustomerService interface {
	Register(req RegisterRequest) (*model.Customer, error)
	Authenticate(email, password string) (*model.Customer, error)
	GetAll() ([]model.Customer, error)
	GetByID(id uuid.UUID) (*model.Customer, error)
	Update(id uuid.UUID, update *model.Customer, actor string) (*model.Customer, error)
	Delete(id uuid.UUID) error
	// RecoverFromOrders rebuilds skeleton customer records for order rows
	// whose customer id no longer resolves, using the order's snapshot
	// fields. Returns the number of records created.
	RecoverFromOrders() (int, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	hub          *ws.Hub
}

func NewCustomerService(cRepo repository.CustomerRepository, oRepo repository.OrderRepository, hub *ws.Hub) CustomerService {
	return &customerService{
		customerRepo: cRepo,
		orderRepo:    oRepo,
		hub:          hub,
	}
}

func (s *customerService) publish(topic string, payload interface{}) {
	if s.hub == nil {
		return
	}
	go s.hub.Publish(topic, payload)
}

func (s *customerService) Register(req RegisterRequest) (*model.Customer, error) {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	// Uniqueness is checked here, not by storage constraints, so each check
	// reports its own user-facing error.
	if taken, err := s.customerRepo.ExistsByEmail(req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.customerRepo.ExistsByPhone(req.PhoneNumber); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrPhoneTaken
	}
	if taken, err := s.customerRepo.ExistsByCCCD(req.CCCDNumber); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrCCCDTaken
	}

	customer := &model.Customer{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		CCCDNumber:  req.CCCDNumber,
		Address:     req.Address,
		IsActive:    true,
	}
	if err := customer.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}

	s.publish(ws.TopicCustomers, customer)
	return customer, nil
}

func (s *customerService) Authenticate(email, password string) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if !customer.IsActive {
		return nil, ErrAccountInactive
	}
	if !customer.CheckPassword(password) {
		return nil, ErrBadCredentials
	}
	return customer, nil
}

func (s *customerService) GetAll() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *customerService) GetByID(id uuid.UUID) (*model.Customer, error) {
	return s.customerRepo.FindByID(id)
}

func (s *customerService) Update(id uuid.UUID, update *model.Customer, actor string) (*model.Customer, error) {
	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}

	existing.FullName = update.FullName
	existing.PhoneNumber = update.PhoneNumber
	existing.CCCDNumber = update.CCCDNumber
	existing.Address = update.Address
	existing.IsActive = update.IsActive
	existing.UpdatedBy = actor

	if err := s.customerRepo.Update(existing); err != nil {
		return nil, err
	}

	s.publish(ws.TopicCustomers, existing)
	return existing, nil
}

func (s *customerService) Delete(id uuid.UUID) error {
	if err := s.customerRepo.Delete(id); err != nil {
		return err
	}
	s.publish(ws.TopicCustomers, map[string]interface{}{"deleted": id})
	return nil
}

func (s *customerService) RecoverFromOrders() (int, error) {
	refs, err := s.orderRepo.DistinctCustomerRefs()
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, id := range refs {
		if _, err := s.customerRepo.FindByID(id); err == nil {
			continue
		}

		orders, err := s.orderRepo.FindByCustomer(id)
		if err != nil || len(orders) == 0 {
			continue
		}
		latest := orders[0]

		customer := &model.Customer{
			FullName:    latest.CustomerName,
			PhoneNumber: latest.CustomerContact,
			Address:     latest.CustomerAddress,
			Email:       fmt.Sprintf("recovered+%s@sigmavie.local", id),
			IsActive:    true,
			Recovered:   true,
		}
		customer.ID = id
		customer.CreatedBy = "recovery"
		customer.UpdatedBy = "recovery"

		if err := s.customerRepo.Create(customer); err != nil {
			continue
		}
		recovered++
	}

	if recovered > 0 {
		s.publish(ws.TopicCustomers, map[string]interface{}{"recovered": recovered})
	}
	return recovered, nil
}
