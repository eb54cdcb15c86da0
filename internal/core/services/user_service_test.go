package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/vehicle_registry_app/internal/apperrors"
	"github.com/SscSPs/vehicle_registry_app/internal/core/domain"
	portssvc "github.com/SscSPs/vehicle_registry_app/internal/core/ports/services"
	"github.com/SscSPs/vehicle_registry_app/internal/core/services"
	"github.com/SscSPs/vehicle_registry_app/internal/dto"
	"github.com/SscSPs/vehicle_registry_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error {
	args := m.Called(ctx, userID, deletedAt, deleterUserID)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	clock        *testClock
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.clock = newTestClock()
	suite.service = services.NewUserService(suite.mockUserRepo, services.WithUserClock(suite.clock.Now))
}

// --- CreateUser Tests ---
func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "maria", Email: "Maria@Example.com", Password: "secret123"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "maria@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Username == "maria" && user.Role == domain.RoleUser && user.IsActive &&
			user.PasswordHash != "" && user.PasswordHash != "secret123"
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req, domain.RoleUser)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.Equal("maria@example.com", user.Email)
	suite.Equal(suite.clock.Now(), user.CreatedAt)
	suite.True(utils.CheckPasswordHash("secret123", user.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "maria", Email: "maria@example.com", Password: "secret123"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	user, err := suite.service.CreateUser(ctx, req, domain.RoleUser)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "maria", Email: "maria@example.com", Password: "secret123"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "maria@example.com").Return(&domain.User{UserID: uuid.NewString()}, nil).Once()

	_, err := suite.service.CreateUser(ctx, req, domain.RoleUser)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Equal(409, apperrors.StatusCode(err))
}

func (suite *UserServiceTestSuite) TestCreateUser_SaveError() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Username: "maria", Email: "maria@example.com", Password: "secret123"}

	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "maria@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(assert.AnError).Once()

	user, err := suite.service.CreateUser(ctx, req, domain.RoleAdmin)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, assert.AnError)
}

// --- AuthenticateUser Tests ---
func (suite *UserServiceTestSuite) activeUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.User{UserID: uuid.NewString(), Username: "maria", PasswordHash: hash, Role: domain.RoleUser, IsActive: true}
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	stored := suite.activeUser("secret123")
	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "maria", "secret123")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(suite.activeUser("secret123"), nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "maria", "wrong")

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUser() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "ghost", "secret123")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_InactiveUser() {
	ctx := context.Background()
	stored := suite.activeUser("secret123")
	stored.IsActive = false
	suite.mockUserRepo.On("FindUserByUsername", ctx, "maria").Return(stored, nil).Once()

	_, err := suite.service.AuthenticateUser(ctx, "maria", "secret123")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.ErrorIs(err, apperrors.ErrUserInactive)
	suite.Equal(401, apperrors.StatusCode(err))
}

// --- GetUserByID Tests ---
func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ListUsers Tests ---
func (suite *UserServiceTestSuite) TestListUsers_Success() {
	ctx := context.Background()
	expected := []domain.User{{UserID: uuid.NewString()}, {UserID: uuid.NewString()}}
	suite.mockUserRepo.On("FindUsers", ctx, 10, 0).Return(expected, nil).Once()

	users, err := suite.service.ListUsers(ctx, 10, 0)

	suite.Require().NoError(err)
	suite.Len(users, 2)
}

func (suite *UserServiceTestSuite) TestListUsers_EmptyIsNotNil() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUsers", ctx, 5, 10).Return(nil, nil).Once()

	users, err := suite.service.ListUsers(ctx, 5, 10)

	suite.Require().NoError(err)
	suite.NotNil(users)
	suite.Empty(users)
}

func (suite *UserServiceTestSuite) TestListUsers_RepoError() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUsers", ctx, 10, 0).Return(nil, assert.AnError).Once()

	users, err := suite.service.ListUsers(ctx, 10, 0)

	suite.Nil(users)
	suite.Contains(err.Error(), "failed to list users")
	suite.ErrorIs(err, assert.AnError)
}

// --- UpdateUser Tests ---
func (suite *UserServiceTestSuite) TestUpdateUser_PromoteToAdmin() {
	ctx := context.Background()
	userID := uuid.NewString()
	adminID := uuid.NewString()
	original := &domain.User{UserID: userID, Role: domain.RoleUser, IsActive: true}
	role := domain.RoleAdmin

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(original, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == userID && u.Role == domain.RoleAdmin && u.LastUpdatedBy == adminID
	})).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Role: &role}, adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.Equal(suite.clock.Now(), user.LastUpdatedAt)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateUser_NoChange() {
	ctx := context.Background()
	userID := uuid.NewString()
	active := true
	original := &domain.User{UserID: userID, Role: domain.RoleUser, IsActive: true}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(original, nil).Once()

	user, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{IsActive: &active}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(original, user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_CannotDeactivateSelf() {
	ctx := context.Background()
	adminID := uuid.NewString()
	inactive := false
	suite.mockUserRepo.On("FindUserByID", ctx, adminID).Return(&domain.User{UserID: adminID, Role: domain.RoleAdmin, IsActive: true}, nil).Once()

	_, err := suite.service.UpdateUser(ctx, adminID, dto.UpdateUserRequest{IsActive: &inactive}, adminID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestUpdateUser_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	role := domain.RoleAdmin
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Role: &role}, uuid.NewString())

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- DeleteUser Tests ---
func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	adminID := uuid.NewString()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, suite.clock.Now(), adminID).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, userID, adminID)

	suite.NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_Self() {
	adminID := uuid.NewString()

	err := suite.service.DeleteUser(context.Background(), adminID, adminID)

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestDeleteUser_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	adminID := uuid.NewString()
	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, mock.AnythingOfType("time.Time"), adminID).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteUser(ctx, userID, adminID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
