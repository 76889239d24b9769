//go:build wireinject
// +build wireinject

package wire

import (
	"acs-console/internal/acs"
	"acs-console/internal/control_plane/httpapi"
	"acs-console/internal/control_plane/persistence"
	"acs-console/internal/control_plane/usecases"
	sharedHTTPAPI "acs-console/internal/shared_kernel/httpapi"
	sharedPersistence "acs-console/internal/shared_kernel/persistence"
	sharedUsecases "acs-console/internal/shared_kernel/usecases"

	"github.com/google/wire"
)

var AuthenticatorSet = wire.NewSet(
	sharedPersistence.NewUserRepository,
	wire.Bind(new(sharedUsecases.UserRepository), new(*sharedPersistence.SimpleUserRepository)),
	provideAuthService,
	wire.Bind(new(sharedUsecases.AuthService), new(*sharedUsecases.SimpleAuthService)),
	sharedHTTPAPI.NewRequestAuthenticator,
)

var CommandServiceSet = wire.NewSet(
	persistence.NewCommandRepository,
	wire.Bind(new(usecases.CommandRepository), new(*persistence.SimpleCommandRepository)),
	provideACSClient,
	wire.Bind(new(acs.Client), new(*acs.HTTPClient)),
	usecases.NewCommandService,
	wire.Bind(new(usecases.CommandService), new(*usecases.SimpleCommandService)),
)

func InitializeAuthController() (*sharedHTTPAPI.AuthController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		sharedPersistence.NewUserRepository,
		wire.Bind(new(sharedUsecases.UserRepository), new(*sharedPersistence.SimpleUserRepository)),
		provideAuthService,
		wire.Bind(new(sharedUsecases.AuthService), new(*sharedUsecases.SimpleAuthService)),
		sharedHTTPAPI.NewAuthController,
	)
	return nil, nil
}

func InitializeUserController() (*sharedHTTPAPI.UserController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AuthenticatorSet,
		sharedUsecases.NewUserService,
		wire.Bind(new(sharedUsecases.UserService), new(*sharedUsecases.SimpleUserService)),
		sharedHTTPAPI.NewUserController,
	)
	return nil, nil
}

func InitializeUserService() (*sharedUsecases.SimpleUserService, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		sharedPersistence.NewUserRepository,
		wire.Bind(new(sharedUsecases.UserRepository), new(*sharedPersistence.SimpleUserRepository)),
		sharedUsecases.NewUserService,
	)
	return nil, nil
}

func InitializeCommandController(hub usecases.SubscriptionHub) (*httpapi.CommandController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AuthenticatorSet,
		CommandServiceSet,
		httpapi.NewCommandController,
	)
	return nil, nil
}

func InitializeWebhookController(hub usecases.SubscriptionHub) (*httpapi.WebhookController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		provideWebhookSecret,
		persistence.NewCommandRepository,
		wire.Bind(new(usecases.CommandRepository), new(*persistence.SimpleCommandRepository)),
		usecases.NewTaskResultService,
		wire.Bind(new(usecases.TaskResultService), new(*usecases.SimpleTaskResultService)),
		httpapi.NewWebhookController,
	)
	return nil, nil
}

func InitializeDeviceController() (*httpapi.DeviceController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AuthenticatorSet,
		provideACSClient,
		wire.Bind(new(acs.Client), new(*acs.HTTPClient)),
		provideCache,
		provideDeviceCacheTTL,
		usecases.NewDeviceService,
		wire.Bind(new(usecases.DeviceService), new(*usecases.SimpleDeviceService)),
		httpapi.NewDeviceController,
	)
	return nil, nil
}

func InitializeStatisticsController(hub usecases.SubscriptionHub) (*httpapi.StatisticsController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AuthenticatorSet,
		CommandServiceSet,
		httpapi.NewStatisticsController,
	)
	return nil, nil
}

func InitializeDeviceCommandWebSocketController(hub usecases.SubscriptionHub) (*httpapi.DeviceCommandWebSocketController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AuthenticatorSet,
		httpapi.NewDeviceCommandWebSocketController,
	)
	return nil, nil
}
