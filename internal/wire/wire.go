package wire

import (
	"Ripple/internal/api"
	"Ripple/internal/api/config"
	"Ripple/internal/api/handler"
	"Ripple/internal/job"
	"Ripple/internal/pkg/chat"
	"Ripple/internal/pkg/cron"
	"Ripple/internal/pkg/es"
	"Ripple/internal/pkg/kafka"
	rippleMongo "Ripple/internal/pkg/mongo"
	"Ripple/internal/repository"
	"Ripple/internal/service"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	Producer     kafka.Producer
	KafkaManager *kafka.ConsumerManager
	CronManager  *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	entityMetricRepo := repository.NewEntityMetricRepo(db)
	entityRepo := rippleMongo.NewEntityRepo(mongoDB)
	notifyRepo := rippleMongo.NewNotificationRepo(mongoDB)
	postESRepo := es.NewPostRepo(es.Client)

	chatClient := chat.NewClient(cfg.Chat)

	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}

	notifyService := service.NewNotificationService(notifyRepo, userRepo)
	followService := service.NewUserFollowService(userFollowRepo, userRepo, notifyService)
	contentService := service.NewContentService(entityRepo, userRepo, userFollowRepo, notifyService, producer)
	searchService := service.NewSearchService(postESRepo)
	metricService := service.NewMetricService(entityMetricRepo, entityRepo)
	userService := service.NewUserService(userRepo, followService, contentService, notifyService, chatClient)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		UserFollowHandler:   handler.NewUserFollowHandler(followService),
		PostHandler:         handler.NewPostHandler(contentService, searchService),
		InteractionHandler:  handler.NewInteractionHandler(contentService),
		NotificationHandler: handler.NewNotificationHandler(notifyService),
		MetricHandler:       handler.NewMetricHandler(metricService),
		MediaHandler:        handler.NewMediaHandler(),
		IMHandler:           handler.NewIMHandler(userService),
		WSHandler:           handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, entityRepo, userRepo, postESRepo)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewMediaCleanupJob(),
		job.NewMetricFlushJob(entityMetricRepo),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		Producer:     producer,
		KafkaManager: kafkaMgr,
		CronManager:  cronMgr,
	}, nil
}
