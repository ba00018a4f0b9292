package main

import (
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/stakevault/goapi/base/ctx"
	"github.com/stakevault/goapi/base/database/mongoclient"
	"github.com/stakevault/goapi/base/database/redisclient"
	"github.com/stakevault/goapi/base/log"
	"github.com/stakevault/goapi/base/metrics"
	bValidator "github.com/stakevault/goapi/base/validator"
	mmiddleware "github.com/stakevault/goapi/middleware"
	"github.com/stakevault/goapi/service/alert"
	"github.com/stakevault/goapi/service/query"
	"github.com/stakevault/goapi/service/redis"
	auth_delivery "github.com/stakevault/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/stakevault/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/stakevault/goapi/stores/auth/usecase"
	hc_delivery "github.com/stakevault/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/stakevault/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/stakevault/goapi/stores/healthcheck/usecase"
	event_delivery "github.com/stakevault/goapi/stores/ledgerevent/delivery/http"
	event_repository "github.com/stakevault/goapi/stores/ledgerevent/repository"
	event_usecase "github.com/stakevault/goapi/stores/ledgerevent/usecase"
	referral_delivery "github.com/stakevault/goapi/stores/referral/delivery/http"
	referral_repository "github.com/stakevault/goapi/stores/referral/repository"
	referral_usecase "github.com/stakevault/goapi/stores/referral/usecase"
	stake_delivery "github.com/stakevault/goapi/stores/stake/delivery/http"
	stake_repository "github.com/stakevault/goapi/stores/stake/repository"
	stake_usecase "github.com/stakevault/goapi/stores/stake/usecase"
	statistic_delivery "github.com/stakevault/goapi/stores/statistic/delivery/http"
	statistic_usecase "github.com/stakevault/goapi/stores/statistic/usecase"
	tier_delivery "github.com/stakevault/goapi/stores/tier/delivery/http"
	tier_repository "github.com/stakevault/goapi/stores/tier/repository"
	tier_usecase "github.com/stakevault/goapi/stores/tier/usecase"
	treasury_delivery "github.com/stakevault/goapi/stores/treasury/delivery/http"
	treasury_repository "github.com/stakevault/goapi/stores/treasury/repository"
	treasury_usecase "github.com/stakevault/goapi/stores/treasury/usecase"

	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/stakevault/goapi/app/api/docs"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

//	@title			StakeVault Ledger API
//	@version		1.0
//	@description	API Document for the StakeVault staking ledger.

// main
//
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description				retrive token from #/auth/post_auth_sign and apply with `bearer {token}`
func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	// ops alert channel, optional
	var notifier alert.Notifier
	if botKey := viper.GetString("discord.botKey"); len(botKey) > 0 {
		n, err := alert.NewDiscordNotifier(alert.DiscordNotifierCfg{
			BotKey:    botKey,
			ChannelId: viper.GetString("discord.channelId"),
		})
		if err != nil {
			context.WithField("err", err).Warn("discord notifier disabled")
			notifier = alert.NewNoopNotifier()
		} else {
			notifier = n
		}
	} else {
		notifier = alert.NewNoopNotifier()
	}

	// the whole ledger shares one lock: stake, treasury, referral and tier
	// config mutations are serialized against each other
	ledgerLock := &sync.RWMutex{}

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	amountTierRepo := tier_repository.NewAmountTierRepo(q)
	lockTierRepo := tier_repository.NewLockTierRepo(q)
	stakeRepo := stake_repository.NewStakeRepo(q)
	pendingRewardRepo := stake_repository.NewPendingRewardRepo(q)
	treasuryRepo := treasury_repository.NewTreasuryRepo(q)
	referralConfigRepo := referral_repository.NewConfigRepo(q)
	referralLinkRepo := referral_repository.NewLinkRepo(q)
	referralStatsRepo := referral_repository.NewStatsRepo(q)
	eventRepo := event_repository.NewEventRepo(q)

	hc := hc_usecase.New(hcRepo)
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"))
	tier := tier_usecase.NewTierUseCase(&tier_usecase.TierUseCaseCfg{
		AmountTierRepo: amountTierRepo,
		LockTierRepo:   lockTierRepo,
		EventRepo:      eventRepo,
		Q:              q,
		LedgerLock:     ledgerLock,
	})
	referral := referral_usecase.NewReferralUseCase(&referral_usecase.ReferralUseCaseCfg{
		ConfigRepo:        referralConfigRepo,
		LinkRepo:          referralLinkRepo,
		StatsRepo:         referralStatsRepo,
		PendingRewardRepo: pendingRewardRepo,
		EventRepo:         eventRepo,
		Q:                 q,
		LedgerLock:        ledgerLock,
	})
	stake := stake_usecase.NewStakeUseCase(&stake_usecase.StakeUseCaseCfg{
		StakeRepo:         stakeRepo,
		PendingRewardRepo: pendingRewardRepo,
		AmountTierRepo:    amountTierRepo,
		LockTierRepo:      lockTierRepo,
		TreasuryRepo:      treasuryRepo,
		ReferralUC:        referral,
		EventRepo:         eventRepo,
		Q:                 q,
		LedgerLock:        ledgerLock,
	})
	treasury := treasury_usecase.NewTreasuryUseCase(&treasury_usecase.TreasuryUseCaseCfg{
		TreasuryRepo: treasuryRepo,
		EventRepo:    eventRepo,
		Q:            q,
		LedgerLock:   ledgerLock,
		Alert:        notifier,
	})
	event := event_usecase.NewEventUseCase(eventRepo)
	statistic := statistic_usecase.New(&statistic_usecase.StatisticUseCaseCfg{
		StakeRepo:         stakeRepo,
		PendingRewardRepo: pendingRewardRepo,
		TreasuryRepo:      treasuryRepo,
		LedgerLock:        ledgerLock,
	})

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	tier_delivery.New(e, tier, authMiddleware)
	stake_delivery.New(e, stake, authMiddleware)
	treasury_delivery.New(e, treasury, authMiddleware)
	referral_delivery.New(e, referral, authMiddleware)
	event_delivery.New(e, event)
	statistic_delivery.New(e, statistic)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
