// Package main 是应用程序入口
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/hotelflamingo/reservation-backend/docs"
	"github.com/hotelflamingo/reservation-backend/internal/common/config"
	"github.com/hotelflamingo/reservation-backend/internal/common/jwt"
	"github.com/hotelflamingo/reservation-backend/internal/common/metrics"
	"github.com/hotelflamingo/reservation-backend/internal/common/response"
	commonMiddleware "github.com/hotelflamingo/reservation-backend/internal/common/middleware"
	adminHandler "github.com/hotelflamingo/reservation-backend/internal/handler/admin"
	authHandler "github.com/hotelflamingo/reservation-backend/internal/handler/auth"
	hotelHandler "github.com/hotelflamingo/reservation-backend/internal/handler/hotel"
	reservationHandler "github.com/hotelflamingo/reservation-backend/internal/handler/reservation"
	"github.com/hotelflamingo/reservation-backend/internal/middleware"
	"github.com/hotelflamingo/reservation-backend/internal/repository"
	adminService "github.com/hotelflamingo/reservation-backend/internal/service/admin"
	authService "github.com/hotelflamingo/reservation-backend/internal/service/auth"
	hotelService "github.com/hotelflamingo/reservation-backend/internal/service/hotel"
	paymentService "github.com/hotelflamingo/reservation-backend/internal/service/payment"
	reservationService "github.com/hotelflamingo/reservation-backend/internal/service/reservation"
)

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	logRepo := repository.NewOperationLogRepository(db)

	// 初始化服务
	authSvc := authService.NewAuthService(db, userRepo, jwtManager)
	roomSvc := hotelService.NewRoomService(roomRepo, reservationRepo)
	addonSvc := hotelService.NewAddonService(serviceRepo, reservationRepo)
	reservationSvc := reservationService.NewReservationService(db, reservationRepo, roomRepo, serviceRepo, &cfg.Business.Reservation)
	paymentSvc := paymentService.NewPaymentService(paymentRepo, reservationRepo)
	dashboardSvc := adminService.NewDashboardService(userRepo, roomRepo, reservationRepo, paymentRepo, redisClient)
	userAdminSvc := adminService.NewUserAdminService(userRepo, reservationRepo)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	hotelH := hotelHandler.NewHandler(roomSvc, addonSvc)
	reservationH := reservationHandler.NewHandler(reservationSvc, paymentSvc)

	adminRoomH := adminHandler.NewRoomHandler(roomSvc)
	adminServiceH := adminHandler.NewServiceHandler(addonSvc)
	adminReservationH := adminHandler.NewReservationHandler(reservationSvc, paymentSvc)
	adminUserH := adminHandler.NewUserHandler(userAdminSvc)
	adminDashboardH := adminHandler.NewDashboardHandler(dashboardSvc)
	adminLogH := adminHandler.NewLogHandler(logRepo)

	// 管理端写操作入库
	operationLogger := commonMiddleware.NewOperationLogger(logRepo)

	// 管理端细粒度权限
	permissionChecker := middleware.NewStaticPermissionChecker()

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.AccessLog(logger))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		m := metrics.Init("hotel_reservation")
		r.Use(m.Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证），按 IP 限流
		public := v1.Group("")
		public.Use(middleware.IPRateLimit(redisClient, 120, time.Minute))
		{
			// 注册认证路由
			authH.RegisterRoutes(public)

			// 房间与附加服务公开接口
			hotelH.RegisterRoutes(public)
		}

		// 用户端接口（需要用户认证）
		user := v1.Group("")
		user.Use(middleware.UserAuth(jwtManager))
		{
			// 认证保护路由
			authH.RegisterProtectedRoutes(user)

			// 预订与支付路由
			reservationH.RegisterProtectedRoutes(user)
		}
	}

	// 管理后台 API
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth(jwtManager))
	admin.Use(middleware.RequireAdmin())
	admin.Use(operationLogger.Log())
	{
		rooms := admin.Group("")
		rooms.Use(middleware.RequireAnyPermission(permissionChecker,
			middleware.PermissionRoomList, middleware.PermissionRoomCreate,
			middleware.PermissionRoomUpdate, middleware.PermissionRoomDelete))
		adminRoomH.RegisterRoutes(rooms)

		services := admin.Group("")
		services.Use(middleware.RequireAnyPermission(permissionChecker,
			middleware.PermissionServiceCreate, middleware.PermissionServiceUpdate,
			middleware.PermissionServiceDelete))
		adminServiceH.RegisterRoutes(services)

		reservations := admin.Group("")
		reservations.Use(middleware.RequireAnyPermission(permissionChecker,
			middleware.PermissionReservationList, middleware.PermissionReservationUpdate,
			middleware.PermissionReservationDelete, middleware.PermissionPaymentRefund))
		adminReservationH.RegisterRoutes(reservations)

		users := admin.Group("")
		users.Use(middleware.RequireAnyPermission(permissionChecker,
			middleware.PermissionUserList, middleware.PermissionUserUpdate))
		adminUserH.RegisterRoutes(users)

		adminDashboardH.RegisterRoutes(admin)

		logs := admin.Group("")
		logs.Use(middleware.RequirePermission(permissionChecker, middleware.PermissionSystemLog))
		adminLogH.RegisterRoutes(logs)
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "接口不存在")
	})
}
