package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invoicing/backend/internal/domain/billing"
)

// ClientService handles client CRUD. Like the invoice operations these
// touch a single repository but run through the transaction scope for
// uniform failure handling.
type ClientService struct {
	scope   TransactionScope
	clients billing.ClientRepository
	logger  *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(scope TransactionScope, clients billing.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{
		scope:   scope,
		clients: clients,
		logger:  logger,
	}
}

// GetAllClients returns all non-deleted clients
func (s *ClientService) GetAllClients(ctx context.Context) ([]billing.Client, error) {
	return s.clients.FindAll(ctx)
}

// GetClientByID returns a client, billing.ErrNotFound when absent
func (s *ClientService) GetClientByID(ctx context.Context, id uuid.UUID) (*billing.Client, error) {
	return s.clients.FindByID(ctx, id)
}

// CreateClient persists a new client
func (s *ClientService) CreateClient(ctx context.Context, client *billing.Client) (*billing.Client, error) {
	s.logger.Info("creating client", zap.String("name", client.Name))

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.Clients().Create(ctx, client)
	})
	if err != nil {
		s.logger.Error("failed to create client", zap.String("name", client.Name), zap.Error(err))
		return nil, err
	}
	return client, nil
}

// UpdateClient overwrites an existing client's mutable fields.
// Returns false without error when the client does not exist.
func (s *ClientService) UpdateClient(ctx context.Context, client *billing.Client) (bool, error) {
	s.logger.Info("updating client", zap.String("client_id", client.ID.String()))

	var updated bool
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ok, err := repos.Clients().Update(ctx, client)
		updated = ok
		return err
	})
	if err != nil {
		s.logger.Error("failed to update client", zap.String("client_id", client.ID.String()), zap.Error(err))
		return false, err
	}
	return updated, nil
}

// DeleteClient soft-deletes a client. The client's invoices are left
// untouched; ownership is by reference only. Returns false when absent.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) (bool, error) {
	s.logger.Info("deleting client", zap.String("client_id", id.String()))

	var deleted bool
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ok, err := repos.Clients().Delete(ctx, id)
		deleted = ok
		return err
	})
	if err != nil {
		s.logger.Error("failed to delete client", zap.String("client_id", id.String()), zap.Error(err))
		return false, err
	}
	return deleted, nil
}
