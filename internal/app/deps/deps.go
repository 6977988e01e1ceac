package deps

import (
	"context"
	"recoverme/internal/config"
	dl "recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/notification"
	duow "recoverme/internal/core/domain/unit_of_work"
	"recoverme/internal/core/domain/user"
	uow "recoverme/internal/db/unit_of_work"
	dbuser "recoverme/internal/db/user"
	authtoken "recoverme/internal/implementations/auth_token"
	"recoverme/internal/implementations/email"
	"recoverme/internal/implementations/logging"
	passwordhasher "recoverme/internal/implementations/password_hasher"
	tokengenerator "recoverme/internal/implementations/token_generator"
	"recoverme/internal/rabbitmq"
	mailpublisher "recoverme/internal/rabbitmq/publishers/mail"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork     duow.UnitOfWork
	UserRepository user.UserRepository

	PasswordHasher              user.PasswordHasher
	PasswordResetTokenGenerator user.PasswordResetTokenGenerator
	AuthTokenIssuer             user.AuthTokenIssuer

	// Notifier is what the services send through. MailDeliverer always
	// delivers directly and is used by the mailer process.
	Notifier      notification.Notifier
	MailDeliverer notification.Notifier
	MailTemplates notification.Templates
}

// InitDeps builds the dependencies of the HTTP API process.
func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB, deps.Config.StoreTimeout)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB, deps.Config.StoreTimeout)

	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetTokenGenerator = tokengenerator.NewGenerator()
	deps.AuthTokenIssuer = authtoken.NewJWT(deps.Config.Secret, deps.Config.AuthTokenTTL, deps.Now)
	deps.MailTemplates = deps.mailTemplates()

	closeNotifier := func() {}
	switch deps.Config.NotifierBackend {
	case config.NOTIFIER_BACKEND_AMQP:
		closeRabbitmqConn := deps.initRabbitmqConnection()
		closeMailPublisher := deps.initMailPublisher()
		closeNotifier = func() {
			closeMailPublisher()
			closeRabbitmqConn()
		}
	default:
		deps.initAwsConfig()
		deps.MailDeliverer = email.NewSESNotifier(deps.AwsConfig, deps.Config.NotifierTimeout)
		deps.Notifier = deps.MailDeliverer
	}

	return deps, closeAll(closeNotifier, closePgxPool, closeLogger)
}

// InitMailerDeps builds the dependencies of the process draining the mail
// queue into SES.
func InitMailerDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	closeLogger := deps.initLogger()
	deps.initAwsConfig()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.MailDeliverer = email.NewSESNotifier(deps.AwsConfig, deps.Config.NotifierTimeout)

	return deps, closeAll(closeRabbitmqConn, closeLogger)
}

func closeAll(closeFuncs ...func()) func() {
	return func() {
		var wg sync.WaitGroup
		wg.Add(len(closeFuncs) - 1)
		// the last one is the logger, it is synced after everything else
		for _, closeFunc := range closeFuncs[:len(closeFuncs)-1] {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}
		wg.Wait()
		closeFuncs[len(closeFuncs)-1]()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) mailTemplates() notification.Templates {
	return notification.Templates{
		RecoveryFrom:         deps.Config.MailRecoveryFrom,
		ConfirmationFrom:     deps.Config.MailConfirmationFrom,
		SubjectPrefix:        deps.Config.MailSubjectPrefix,
		PasswordResetBaseURL: deps.Config.PasswordResetBaseURL,
	}
}

func (deps *Deps) initAwsConfig() {
	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(deps.Config.AWSRegion),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	}
	if deps.Config.AWSAccessKey != "" {
		options = append(options, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(deps.Config.AWSAccessKey, deps.Config.AWSSecretKey, ""),
		))
	}
	cfg, err := awsConfig.LoadDefaultConfig(context.Background(), options...)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogLevel, deps.Config.LogFile)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitMQURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initMailPublisher() func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	if err := rabbitmqChannel.DeclareDurableQueue(deps.Config.RabbitMQMailQueue); err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	deps.Notifier = mailpublisher.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.RabbitMQMailQueue,
		deps.Config.NotifierTimeout,
	)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down mail publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Mail publisher shut down.")
	}
}
