package services

import (
	portsrepo "github.com/lendtrack/lendtrack_backend/internal/core/ports/repositories"
	portssvc "github.com/lendtrack/lendtrack_backend/internal/core/ports/services"
	"github.com/lendtrack/lendtrack_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)

	// Loan service first; payment operations resolve loan ownership through it.
	container.Loan = NewLoanService(repos.LoanRepo, repos.PaymentRepo)
	container.Payment = NewPaymentService(repos.PaymentRepo, container.Loan)

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
