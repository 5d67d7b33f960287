package handler

import (
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-modsync/internal/config"
	"tg-modsync/internal/models"
	"tg-modsync/internal/moderation"
	"tg-modsync/internal/platform"
	"tg-modsync/internal/service"
)

var (
	globalConfig *config.Config
	client       platform.Client
	stores       *service.Stores
	gate         *moderation.Gate
	resolver     *moderation.Resolver
	engine       *moderation.Engine
	auditLog     *moderation.AuditLog
	throttle     *models.Throttle
)

func Initialize(cfg *config.Config) {
	globalConfig = cfg
	service.Initialize(cfg)
}

// SetupMessageHandlers wires the moderation pipeline and registers all
// bot update handlers.
func SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) error {
	if err := service.InitStores(); err != nil {
		return err
	}
	stores = service.GetStores()

	client = platform.NewTelegram(bot)
	gate = moderation.NewGate(globalConfig, stores.Admins, client)
	resolver = moderation.NewResolver(stores.Names)
	auditLog = moderation.NewAuditLog(client, stores.Groups, globalConfig.AuditChannelIDs())
	engine = moderation.NewEngine(client, stores.Groups, stores.Bans, stores.Kicks, auditLog)
	throttle = models.NewThrottle(time.Duration(globalConfig.Throttle.IntervalSeconds) * time.Second)

	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		return handleCommand(ctx, message)
	})

	bh.Handle(func(ctx *th.Context, update telego.Update) error {
		return handleMyChatMemberUpdate(ctx, update)
	}, th.AnyMyChatMember())

	return nil
}

// GetAuditLog returns the audit log built by SetupMessageHandlers.
func GetAuditLog() *moderation.AuditLog {
	return auditLog
}
