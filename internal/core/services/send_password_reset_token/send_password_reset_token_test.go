package sendpasswordresettoken

import (
	"context"
	"errors"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/notification"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL = c.Email("test@test.test")
	NAME  = user.Name("John")
	TOKEN = "first-reset-token"
)

var NOW = time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UserRepository *user.FakeUserRepository
	TokenGenerator *user.FakePasswordResetTokenGenerator
	Notifier       *notification.FakeNotifier
	Service        services.Service[Input, Result]
	User           user.User
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.TokenGenerator = user.NewFakePasswordResetTokenGenerator(TOKEN)
	suite.Notifier = notification.NewFakeNotifier()
	suite.Service = New(
		suite.Logger,
		suite.UserRepository,
		suite.TokenGenerator,
		suite.Notifier,
		notification.NewTestTemplates(),
		time.Hour,
		func() time.Time { return NOW },
	)

	u, err := suite.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        EMAIL,
		Name:         NAME,
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    NOW.Add(-24 * time.Hour),
	})
	suite.Require().Nil(err)
	suite.User = u
}

func TestSendPasswordResetTokenService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) storedUser() user.User {
	u, err := suite.UserRepository.GetByID(context.Background(), suite.User.ID)
	suite.Require().Nil(err)
	return u
}

func (suite *testSuite) TestSuccess() {
	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.Nil(err)
	assert.Equal(suite.User.ID, result.User.ID)
	assert.Equal(user.PasswordResetToken(TOKEN), result.PasswordReset.Token)
	assert.WithinDuration(NOW.Add(time.Hour), result.PasswordReset.ExpiresAt, 0)

	stored := suite.storedUser()
	assert.True(stored.PasswordReset.IsPresent)
	assert.Equal(result.PasswordReset.Token, stored.PasswordReset.Value.Token)

	assert.Equal(1, suite.Notifier.SentCount())
	message := suite.Notifier.LastSent()
	assert.Equal(string(EMAIL), message.To)
	assert.Equal("password-change-request@test.test", message.From)
	assert.Contains(message.Body, "Hello, John.")
	assert.Contains(message.Body, "http://localhost:8080/#/outside/reset/"+TOKEN)
}

func (suite *testSuite) TestEmptyEmail() {
	_, err := suite.Service.Run(context.Background(), Input{Email: ""})

	assert := suite.Require()
	var validationErr *e.ValidationError
	assert.True(errors.As(err, &validationErr))
	assert.Equal("email", validationErr.Field)
	assert.Equal(0, suite.Notifier.SentCount())
}

func (suite *testSuite) TestUnknownEmail() {
	_, err := suite.Service.Run(context.Background(), Input{Email: c.Email("unknown@test.test")})

	assert := suite.Require()
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	assert.Equal(0, suite.Notifier.SentCount())
	assert.False(suite.storedUser().PasswordReset.IsPresent)
}

func (suite *testSuite) TestSecondRequestOverwritesFirstToken() {
	ctx := context.Background()
	first, err := suite.Service.Run(ctx, Input{Email: EMAIL})
	suite.Require().Nil(err)
	second, err := suite.Service.Run(ctx, Input{Email: EMAIL})
	suite.Require().Nil(err)

	assert := suite.Require()
	assert.NotEqual(first.PasswordReset.Token, second.PasswordReset.Token)
	assert.Equal(second.PasswordReset.Token, suite.storedUser().PasswordReset.Value.Token)

	_, err = suite.UserRepository.GetByPasswordResetToken(ctx, first.PasswordReset.Token, NOW)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	assert.Equal(2, suite.Notifier.SentCount())
}

func (suite *testSuite) TestTokenGenerationFailure() {
	suite.TokenGenerator.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.NotNil(err)
	assert.False(suite.storedUser().PasswordReset.IsPresent)
	assert.Equal(0, suite.Notifier.SentCount())
}

func (suite *testSuite) TestLookupFailure() {
	suite.UserRepository.ReturnError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	var persistenceErr *e.PersistenceError
	assert.True(errors.As(err, &persistenceErr))
	assert.Equal(0, suite.Notifier.SentCount())
	assert.Equal(1, suite.Logger.CountByLevel(logging.ERROR))
}

func (suite *testSuite) TestSaveFailureSendsNothing() {
	suite.UserRepository.ReturnWriteError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	var persistenceErr *e.PersistenceError
	assert.True(errors.As(err, &persistenceErr))
	assert.Equal(0, suite.Notifier.SentCount())
}

func (suite *testSuite) TestNotifierFailureKeepsToken() {
	suite.Notifier.ReturnError = true

	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	var notificationErr *e.NotificationError
	assert.True(errors.As(err, &notificationErr))
	assert.Equal(user.PasswordResetToken(TOKEN), result.PasswordReset.Token)

	u, err := suite.UserRepository.GetByPasswordResetToken(context.Background(), result.PasswordReset.Token, NOW)
	assert.Nil(err)
	assert.Equal(suite.User.ID, u.ID)
}

func (suite *testSuite) TestCanceledContextIsNotWrapped() {
	suite.UserRepository.ReturnError = true
	suite.UserRepository.Err = context.Canceled

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	assert.ErrorIs(err, context.Canceled)
	var persistenceErr *e.PersistenceError
	assert.False(errors.As(err, &persistenceErr))
}

func (suite *testSuite) TestLookupTimeoutIsPersistenceError() {
	suite.UserRepository.ReturnError = true
	suite.UserRepository.Err = context.DeadlineExceeded

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	var persistenceErr *e.PersistenceError
	assert.True(errors.As(err, &persistenceErr))
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.Equal(0, suite.Notifier.SentCount())
}

func (suite *testSuite) TestSaveTimeoutIsPersistenceError() {
	suite.UserRepository.ReturnWriteError = true
	suite.UserRepository.Err = context.DeadlineExceeded

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	var persistenceErr *e.PersistenceError
	assert.True(errors.As(err, &persistenceErr))
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.Equal(0, suite.Notifier.SentCount())
	assert.False(suite.storedUser().PasswordReset.IsPresent)
}

func (suite *testSuite) TestNotifierTimeoutIsNotificationError() {
	suite.Notifier.Err = context.DeadlineExceeded

	result, err := suite.Service.Run(context.Background(), Input{Email: EMAIL})

	assert := suite.Require()
	var notificationErr *e.NotificationError
	assert.True(errors.As(err, &notificationErr))
	assert.ErrorIs(err, context.DeadlineExceeded)

	stored := suite.storedUser()
	assert.True(stored.PasswordReset.IsPresent)
	assert.Equal(result.PasswordReset.Token, stored.PasswordReset.Value.Token)
}
