package signupwithemail

import (
	"context"
	"errors"
	c "recoverme/internal/core/domain/common"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	uow "recoverme/internal/core/domain/unit_of_work"
	"recoverme/internal/core/domain/user"
	"recoverme/internal/core/services"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	EMAIL        = c.Email("test@test.test")
	NAME         = user.Name("John")
	RAW_PASSWORD = user.RawPassword("test-password")
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UnitOfWork     *uow.FakeUnitOfWork
	PasswordHasher *user.FakePasswordHasher
	Service        services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.UnitOfWork = uow.NewFakeUnitOfWork()
	suite.PasswordHasher = user.NewFakePasswordHasher()
	suite.Service = New(
		suite.Logger,
		suite.UnitOfWork,
		suite.PasswordHasher,
		func() time.Time { return NOW },
	)
}

func TestSignUpWithEmailService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestSuccess() {
	context := context.Background()
	result, err := suite.Service.Run(context, Input{Email: EMAIL, Name: NAME, Password: RAW_PASSWORD})

	assert := suite.Require()
	assert.Nil(err)
	assert.NotEqual(user.ID(0), result.User.ID)
	assert.Equal(NOW, result.User.CreatedAt)
	assert.Equal(EMAIL, result.User.Email)
	assert.Equal(NAME, result.User.Name)
	assert.NotEqual(string(RAW_PASSWORD), string(result.User.PasswordHash))
	assert.True(suite.PasswordHasher.ValidatePassword(RAW_PASSWORD, result.User.PasswordHash))
	assert.False(result.User.PasswordReset.IsPresent)
	assert.True(suite.UnitOfWork.Context.WasCommitCalled)
}

func (suite *testSuite) TestEmailAlreadyExistsError() {
	ctx := context.Background()
	suite.UnitOfWork.Context.UserRepository.Create(
		ctx,
		user.CreateUserInput{
			Email:        EMAIL,
			PasswordHash: user.PasswordHash("test"),
			CreatedAt:    NOW,
		},
	)

	_, err := suite.Service.Run(ctx, Input{Email: EMAIL, Password: RAW_PASSWORD})

	assert := suite.Require()
	assert.NotNil(err)
	assert.True(errors.Is(err, user.ErrEmailAlreadyExists))
	assert.False(suite.UnitOfWork.Context.WasCommitCalled)
	assert.True(suite.UnitOfWork.Context.WasRollbackCalled)
}

func (suite *testSuite) TestMissingFields() {
	cases := []struct {
		id    string
		input Input
		field string
	}{
		{id: "no email", input: Input{Password: RAW_PASSWORD}, field: "email"},
		{id: "no password", input: Input{Email: EMAIL}, field: "password"},
	}
	for _, testCase := range cases {
		suite.Run(testCase.id, func() {
			_, err := suite.Service.Run(context.Background(), testCase.input)

			var validationErr *e.ValidationError
			suite.Require().True(errors.As(err, &validationErr))
			suite.Require().Equal(testCase.field, validationErr.Field)
			suite.Require().Empty(suite.UnitOfWork.Context.UserRepository.Users)
		})
	}
}

func (suite *testSuite) TestBeginFailure() {
	suite.UnitOfWork.ReturnBeginError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL, Password: RAW_PASSWORD})

	var persistenceErr *e.PersistenceError
	suite.Require().True(errors.As(err, &persistenceErr))
}

func (suite *testSuite) TestCommitFailure() {
	suite.UnitOfWork.Context.ReturnCommitError = true

	_, err := suite.Service.Run(context.Background(), Input{Email: EMAIL, Password: RAW_PASSWORD})

	assert := suite.Require()
	var persistenceErr *e.PersistenceError
	assert.True(errors.As(err, &persistenceErr))
	assert.True(suite.UnitOfWork.Context.WasRollbackCalled)
}
