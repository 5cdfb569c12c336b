package router

import (
	adspacesvc "nostr-ads-backend/internal/application/adspaces"
	authsvc "nostr-ads-backend/internal/application/auth"
	campsvc "nostr-ads-backend/internal/application/campaigns"
	reportsvc "nostr-ads-backend/internal/application/reports"
	usersvc "nostr-ads-backend/internal/application/user"
	"nostr-ads-backend/internal/config"
	"nostr-ads-backend/internal/infrastructure/database"
	adspacehandler "nostr-ads-backend/internal/interfaces/handlers/adspaces"
	authhandler "nostr-ads-backend/internal/interfaces/handlers/auth"
	camphandler "nostr-ads-backend/internal/interfaces/handlers/campaigns"
	healthhandler "nostr-ads-backend/internal/interfaces/handlers/health"
	reporthandler "nostr-ads-backend/internal/interfaces/handlers/reports"
	rolehandler "nostr-ads-backend/internal/interfaces/handlers/roles"
	userhandler "nostr-ads-backend/internal/interfaces/handlers/user"
	"nostr-ads-backend/internal/middleware"
	"nostr-ads-backend/internal/roles"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route
// registration.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Health request marker (after session)
	app.Use(middleware.HealthMarker(rdb))

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &healthhandler.Handlers{
		Rdb: rdb,
		DB:  &gormDBPinger{db: db},
	}
	app.Get("/health/json", healthHandlers.JSON)

	if db == nil || rdb == nil {
		// Tests assemble their own app; running without a DB only exposes health.
		return app, db, rdb, nil
	}

	// Role core: one store/resolver pair behind everything.
	roleCache := &roles.Cache{Rdb: rdb}
	roleStore := &roles.Store{DB: db, Cache: roleCache}
	override := &roles.Override{
		Environment:     cfg.Env,
		TestUserPattern: cfg.TestUserPattern,
	}
	resolver := &roles.Resolver{Store: roleStore, Override: override, Cache: roleCache}

	// Auth
	authHandlers := &authhandler.Handlers{
		UserFinder: &authsvc.GormUserFinder{DB: db},
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Roles (resolution + management + debug endpoints)
	roleHandlers := &rolehandler.Handlers{
		Store:        roleStore,
		Resolver:     resolver,
		Cache:        roleCache,
		IsProduction: cfg.IsProduction(),
	}
	app.Get("/api/enhanced-roles", middleware.RequireAuth(), roleHandlers.Get)
	app.Post("/api/enhanced-roles/enable-all", middleware.RequireAuth(), roleHandlers.EnableAll)
	app.Post("/api/auth/enable-test-roles", middleware.RequireAuth(), roleHandlers.EnableAll)
	app.Get("/api/auth/roles-check", middleware.RequireAuth(), roleHandlers.RolesCheck)

	roleGroup := app.Group("/api/v1/roles", middleware.RequireAuth())
	roleGroup.Post("/switch-role", roleHandlers.SwitchRole)
	roleGroup.Post("/grant-role", middleware.RequireCapability(resolver, roles.CapManageRoles), roleHandlers.GrantRole)
	roleGroup.Post("/revoke-role", middleware.RequireCapability(resolver, roles.CapManageRoles), roleHandlers.RevokeRole)

	// Users (signup public; the rest behind auth)
	userService := &usersvc.Service{DB: db, RoleStore: roleStore}
	userHandlers := &userhandler.Handlers{Service: userService, Config: sessionCfg}
	app.Post("/api/v1/users/create-user", userHandlers.CreateUser)
	userGroup := app.Group("/api/v1/users", middleware.RequireAuth())
	userGroup.Put("/update-user", userHandlers.UpdateUser)
	userGroup.Get("/view-user", userHandlers.ViewUser)

	// Campaigns (advertiser surface)
	campService := &campsvc.Service{DB: db}
	campHandlers := &camphandler.Handlers{Service: campService}
	campGroup := app.Group("/api/v1/campaigns", middleware.RequireAuth())
	campGroup.Post("/create-campaign", middleware.RequireCapability(resolver, roles.CapCreateAds), campHandlers.CreateCampaign)
	campGroup.Get("/get-my-campaigns", campHandlers.GetMyCampaigns)
	campGroup.Post("/create-ad", middleware.RequireCapability(resolver, roles.CapCreateAds), campHandlers.CreateAd)
	campGroup.Put("/edit-ad", middleware.RequireCapability(resolver, roles.CapManageOwnAds), campHandlers.EditAd)
	campGroup.Post("/pause-campaign", middleware.RequireCapability(resolver, roles.CapManageOwnAds), campHandlers.PauseCampaign)
	campGroup.Get("/get-campaign-ads/:campaign_id", campHandlers.GetCampaignAds)

	// Ad spaces (publisher surface)
	spaceService := &adspacesvc.Service{DB: db}
	spaceHandlers := &adspacehandler.Handlers{Service: spaceService}
	spaceGroup := app.Group("/api/v1/adspaces", middleware.RequireAuth())
	spaceGroup.Post("/create-adspace", middleware.RequireRole(resolver, roles.Publisher, roles.Admin), spaceHandlers.CreateAdSpace)
	spaceGroup.Get("/get-my-adspaces", middleware.RequireRole(resolver, roles.Publisher, roles.Admin), spaceHandlers.GetMyAdSpaces)
	spaceGroup.Get("/pending-ads", middleware.RequireCapability(resolver, roles.CapApproveAds), spaceHandlers.GetPendingAds)
	spaceGroup.Post("/review-ad", middleware.RequireCapability(resolver, roles.CapApproveAds), spaceHandlers.ReviewAd)

	// Reports
	reportService := &reportsvc.Service{DB: db}
	reportHandlers := &reporthandler.Handlers{Service: reportService}
	reportGroup := app.Group("/api/v1/reports", middleware.RequireAuth())
	reportGroup.Get("/overview", middleware.RequireCapability(resolver, roles.CapViewAnalytics), reportHandlers.Overview)
	reportGroup.Get("/financial", middleware.RequireCapability(resolver, roles.CapViewFinancialReports), reportHandlers.Financial)

	// Role-gated dashboard prefixes (/admin etc.) share the route table with
	// the client.
	app.Use("/admin", middleware.RouteGuard(resolver))

	return app, db, rdb, nil
}
