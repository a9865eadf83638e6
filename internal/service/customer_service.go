package service

import (
	"context"
	"errors"
	"fmt"

	"crm-service/internal/broker"
	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"go.uber.org/zap"
)

// ErrCustomerFieldsRequired is returned when a customer payload misses a
// required field
var ErrCustomerFieldsRequired = errors.New("username, email, contacts, and service are required")

const topServicesLimit = 5

// CustomerService handles customer records and their statistics
type CustomerService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store *store.Store, eventPublisher *broker.EventPublisher) *CustomerService {
	return &CustomerService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.NamedLogger("customers"),
	}
}

// CustomerRequest carries the mutable customer fields
type CustomerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Contacts string `json:"contacts"`
	Service  string `json:"service"`
	Details  string `json:"details"`
	UserID   *int64 `json:"user_id"`
}

func (req *CustomerRequest) validate() error {
	if req.Username == "" || req.Email == "" || req.Contacts == "" || req.Service == "" {
		return ErrCustomerFieldsRequired
	}
	return nil
}

// CreateCustomer inserts a customer and publishes a CustomerCreated event
func (s *CustomerService) CreateCustomer(ctx context.Context, req *CustomerRequest) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.CreateCustomer")
	defer span.End()

	if err := req.validate(); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Username: req.Username,
		UserID:   req.UserID,
		Email:    req.Email,
		Contacts: req.Contacts,
		Service:  req.Service,
		Details:  req.Details,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	util.CustomersCreatedTotal.Inc()
	s.logger.Info("Customer created",
		zap.Int64("customer_id", customer.ID),
		zap.String("service", customer.Service))

	event := &models.CustomerCreatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeCustomerCreated),
		CustomerID: customer.ID,
		Username:   customer.Username,
		Service:    customer.Service,
	}
	if err := s.eventPublisher.PublishCustomerCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish CustomerCreated event", zap.Error(err))
	}

	return customer, nil
}

// GetCustomer returns one customer
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	return s.store.GetCustomerByID(ctx, id)
}

// ListCustomers returns all customers
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.store.GetCustomers(ctx)
}

// UpdateCustomer replaces a customer's fields
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *CustomerRequest) error {
	customer := &models.Customer{
		ID:       id,
		Username: req.Username,
		UserID:   req.UserID,
		Email:    req.Email,
		Contacts: req.Contacts,
		Service:  req.Service,
		Details:  req.Details,
	}
	return s.store.UpdateCustomer(ctx, customer)
}

// DeleteCustomer removes a customer together with every dependent record
// (reports, activities, deals) in a single transaction
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.DeleteCustomer")
	defer span.End()

	customer, err := s.store.DeleteCustomerCascade(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer deleted with dependents",
		zap.Int64("customer_id", customer.ID),
		zap.String("username", customer.Username))
	return customer, nil
}

// ServiceStatistics is the aggregate view backing the statistics dashboard
type ServiceStatistics struct {
	ServiceDistribution []models.ServiceCount  `json:"serviceDistribution"`
	CustomerGrowth      []models.MonthlyCount  `json:"customerGrowth"`
	TopServices         []models.ServiceCount  `json:"topServices"`
	ActivityStatuses    []models.StatusCount   `json:"activityStatusDistribution"`
	StageDistribution   []models.StageStat     `json:"opportunityStageDistribution"`
}

// GetServiceStatistics aggregates customer distribution, growth and the
// activity/pipeline breakdowns. Individual query failures degrade to empty
// sections rather than failing the whole response.
func (s *CustomerService) GetServiceStatistics(ctx context.Context) *ServiceStatistics {
	ctx, span := util.StartSpan(ctx, "CustomerService.GetServiceStatistics")
	defer span.End()

	stats := &ServiceStatistics{
		ServiceDistribution: []models.ServiceCount{},
		CustomerGrowth:      []models.MonthlyCount{},
		TopServices:         []models.ServiceCount{},
		ActivityStatuses:    []models.StatusCount{},
		StageDistribution:   []models.StageStat{},
	}

	if rows, err := s.store.GetServiceDistribution(ctx); err != nil {
		s.logger.Warn("Failed to load service distribution", zap.Error(err))
	} else {
		stats.ServiceDistribution = rows
	}

	if rows, err := s.store.GetCustomerGrowth(ctx); err != nil {
		s.logger.Warn("Failed to load customer growth", zap.Error(err))
	} else {
		stats.CustomerGrowth = rows
	}

	if rows, err := s.store.GetTopServices(ctx, topServicesLimit); err != nil {
		s.logger.Warn("Failed to load top services", zap.Error(err))
	} else {
		stats.TopServices = rows
	}

	if rows, err := s.store.GetActivityStatusDistribution(ctx); err != nil {
		s.logger.Warn("Failed to load activity status distribution", zap.Error(err))
	} else {
		stats.ActivityStatuses = rows
	}

	if rows, err := s.store.GetStageStats(ctx); err != nil {
		s.logger.Warn("Failed to load stage distribution", zap.Error(err))
	} else {
		stats.StageDistribution = fillStageBreakdown(rows)
	}

	return stats
}

// TrendsData is the month-over-month growth view
type TrendsData struct {
	ServiceDistribution []models.ServiceCount        `json:"serviceDistribution"`
	CustomerGrowth      []models.MonthlyCount        `json:"customerGrowth"`
	TopServices         []models.ServiceCount        `json:"topServices"`
	ServiceGrowth       []models.ServiceMonthlyCount `json:"serviceGrowth"`
}

// GetTrends aggregates customer growth broken down by month and service
func (s *CustomerService) GetTrends(ctx context.Context) *TrendsData {
	ctx, span := util.StartSpan(ctx, "CustomerService.GetTrends")
	defer span.End()

	trends := &TrendsData{
		ServiceDistribution: []models.ServiceCount{},
		CustomerGrowth:      []models.MonthlyCount{},
		TopServices:         []models.ServiceCount{},
		ServiceGrowth:       []models.ServiceMonthlyCount{},
	}

	if rows, err := s.store.GetServiceDistribution(ctx); err != nil {
		s.logger.Warn("Failed to load service distribution", zap.Error(err))
	} else {
		trends.ServiceDistribution = rows
	}

	if rows, err := s.store.GetCustomerGrowth(ctx); err != nil {
		s.logger.Warn("Failed to load customer growth", zap.Error(err))
	} else {
		trends.CustomerGrowth = rows
	}

	if rows, err := s.store.GetTopServices(ctx, topServicesLimit); err != nil {
		s.logger.Warn("Failed to load top services", zap.Error(err))
	} else {
		trends.TopServices = rows
	}

	if rows, err := s.store.GetServiceGrowth(ctx); err != nil {
		s.logger.Warn("Failed to load service growth", zap.Error(err))
	} else {
		trends.ServiceGrowth = rows
	}

	return trends
}

// NewCustomersThisMonth counts customers created in the current month
func (s *CustomerService) NewCustomersThisMonth(ctx context.Context) (int64, error) {
	return s.store.CountNewCustomersThisMonth(ctx)
}
