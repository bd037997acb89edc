// Package bootstrap arma los casos de uso sobre una base abierta; lo comparten serve, check y train.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cafecraft/internal/application/analytics"
	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/auth"
	"github.com/jhoicas/cafecraft/internal/application/inventory"
	"github.com/jhoicas/cafecraft/internal/application/ml"
	"github.com/jhoicas/cafecraft/internal/application/pos"
	"github.com/jhoicas/cafecraft/internal/application/usecase"
	"github.com/jhoicas/cafecraft/internal/domain/receipt"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/infrastructure/modelstore"
	infrapdf "github.com/jhoicas/cafecraft/internal/infrastructure/pdf"
	"github.com/jhoicas/cafecraft/internal/infrastructure/receiptxml"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/cafecraft/internal/interfaces/http"
	"github.com/jhoicas/cafecraft/pkg/config"
	"github.com/jhoicas/cafecraft/pkg/i18n"
	"github.com/jhoicas/cafecraft/pkg/logger"
	"github.com/jhoicas/cafecraft/pkg/money"
)

// Services casos de uso listos para HTTP o CLI.
type Services struct {
	Config    *config.Config
	Location  *time.Location
	Repos     repository.Set
	Tx        *store.TxRunner
	Auth      *auth.AuthUseCase
	Modules   *usecase.ModuleService
	Users     *usecase.UserUseCase
	Products  *usecase.ProductUseCase
	Inventory *inventory.UseCase
	Orders    *pos.UseCase
	Receipts  *pos.ReceiptUseCase
	Reports   *analytics.ReportUseCase
	Dashboard *analytics.DashboardUseCase
	ML        *ml.UseCase
	Audit     *audit.UseCase
}

// New construye los servicios. No carga el modelo de recomendaciones; ver LoadModel.
func New(cfg *config.Config, db *store.DB, log *logger.Logger) (*Services, error) {
	loc := cfg.App.Location()
	mf, err := money.NewFormatter(cfg.App.Locale, cfg.App.Currency, cfg.App.CurrencySymbol)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	tr := i18n.New(cfg.App.Locale)
	shop := receipt.Shop{Name: cfg.Receipts.ShopName, Address: cfg.Receipts.Address, Footer: cfg.Receipts.Footer}

	repos := store.Repos(db)
	tx := store.NewTxRunner(db.DB)
	pdf := infrapdf.NewMarotoPDFGenerator(shop, tr, mf, loc)

	return &Services{
		Config:   cfg,
		Location: loc,
		Repos:    repos,
		Tx:       tx,
		Auth: auth.NewAuthUseCase(repos.Users, repos.Audit, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Modules:   usecase.NewModuleService(repos.Users),
		Users:     usecase.NewUserUseCase(repos, tx),
		Products:  usecase.NewProductUseCase(repos, tx),
		Inventory: inventory.NewUseCase(repos, tx, loc),
		Orders:    pos.NewUseCase(repos, tx, loc),
		Receipts: pos.NewReceiptUseCase(repos.Orders,
			receipt.NewTextRenderer(shop, tr, mf, loc), pdf, receiptxml.NewBuilder(shop),
			cfg.Receipts.VerifyKey, cfg.Receipts.Dir),
		Reports:   analytics.NewReportUseCase(repos.Orders, repos.Reports, pdf, loc, cfg.Receipts.ShopName),
		Dashboard: analytics.NewDashboardUseCase(repos.Orders, repos.Ingredients, loc),
		ML:        ml.NewUseCase(repos, modelstore.NewFileStore(cfg.ML.ModelPath), cfg.ML, loc, log),
		Audit:     audit.NewUseCase(repos.Audit),
	}, nil
}

// LoadModel carga el modelo guardado si existe.
func (s *Services) LoadModel(ctx context.Context) error {
	return s.ML.Load(ctx)
}

// RouterDeps dependencias para httpRouter.Router.
func (s *Services) RouterDeps() httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		AuthUC:        s.Auth,
		ModuleService: s.Modules,
		UserUC:        s.Users,
		ProductUC:     s.Products,
		InventoryUC:   s.Inventory,
		OrderUC:       s.Orders,
		ReceiptUC:     s.Receipts,
		ReportUC:      s.Reports,
		DashboardUC:   s.Dashboard,
		MLUC:          s.ML,
		AuditUC:       s.Audit,
		JWTSecret:     s.Config.JWT.Secret,
		ServiceName:   s.Config.App.Name,
	}
}
