package order

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "boutique/internal/catalog/repository"
	"boutique/internal/config"
	"boutique/internal/infrastructure/mysql"
	"boutique/internal/order/controller"
	"boutique/internal/order/events"
	"boutique/internal/order/repository"
	"boutique/internal/order/service"
	"boutique/internal/order/usecase"
	userrepo "boutique/internal/user/repository"
)

// Module bundles the order endpoints with the pieces the payment module
// reuses: the lifecycle service and the order repository.
type Module struct {
	CreateOrders *controller.CreateOrderController
	OrderStatus  *controller.OrderStatusController
	Lifecycle    *service.LifecycleService
	Orders       *repository.MySQLOrderRepository
}

func NewModule(db *sql.DB, cfg *config.Config, publisher events.Publisher, logger *zap.Logger) *Module {
	orderRepo := repository.NewMySQLOrderRepository(db)
	itemRepo := repository.NewMySQLOrderItemRepository(db)
	historyRepo := repository.NewMySQLStatusHistoryRepository(db)
	productRepo := catalogrepo.NewMySQLProductRepository(db)
	userRepo := userrepo.NewMySQLUserRepository(db)

	cartSvc := service.NewCartService(productRepo, service.PricingPolicy{
		TaxRate:               cfg.Order.TaxRate,
		ShippingFee:           cfg.Order.ShippingFee,
		FreeShippingThreshold: cfg.Order.FreeShippingThreshold,
		TotalTolerance:        cfg.Order.TotalTolerance,
	}, logger)

	lifecycleSvc := service.NewLifecycleService(
		mysql.NewDB(db),
		orderRepo,
		itemRepo,
		historyRepo,
		productRepo,
		publisher,
		logger,
		cfg.Order.TxTimeout,
	)

	createUC := usecase.NewCreateOrderUseCase(
		cartSvc,
		lifecycleSvc,
		userRepo,
		logger,
		cfg.Order.MaxRetryAttempts,
	)
	statusUC := usecase.NewOrderStatusUseCase(lifecycleSvc, logger)

	return &Module{
		CreateOrders: controller.NewCreateOrderController(createUC, logger),
		OrderStatus:  controller.NewOrderStatusController(statusUC, logger),
		Lifecycle:    lifecycleSvc,
		Orders:       orderRepo,
	}
}
