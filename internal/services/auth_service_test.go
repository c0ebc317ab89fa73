package services_test

import (
	"errors"
	"log"
	"os"
	"testing"

	"github.com/bhavika-28/pet-care-app/internal/models"
	"github.com/bhavika-28/pet-care-app/internal/repositories"
	"github.com/bhavika-28/pet-care-app/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepo is a testify mock of repositories.UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	// Successful registration
	mockRepo.On("GetByEmail", user.Email).Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(user)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password) // stored hashed
	assert.Equal(t, "user", user.Role)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByEmail", user.Email).Return(&models.User{ID: "1"}, nil).Once()
	err = authService.RegisterUser(user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser(user.Email, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, _, err = authService.LoginUser(user.Email, "wrongpassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)

	// Unknown email
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.LoginUser("nobody@example.com", "password123")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashedPassword),
		Role:     "user",
	}

	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, _, err := authService.LoginUser(user.Email, "password123")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	// Garbage token
	_, err = authService.ValidateToken("not.a.token")
	assert.Error(t, err)

	// Token signed with a different secret
	otherService := services.NewAuthService(mockRepo, "other_secret")
	_, err = otherService.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Username: "testuser", Email: "test@example.com", Password: string(hashedPassword)}

	// Wrong current password is rejected before anything is written
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	err := authService.ChangePassword("user-123", "wrongpass", "newpass123")
	assert.True(t, errors.Is(err, services.ErrForbidden))
	mockRepo.AssertExpectations(t)

	// Correct current password stores a hash of the new one
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("newpass123")) == nil
	})).Return(nil).Once()
	err = authService.ChangePassword("user-123", "oldpass", "newpass123")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Missing fields
	err = authService.ChangePassword("user-123", "", "newpass123")
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestAuthService_UpdateUsername(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, "test_jwt_secret")

	user := &models.User{ID: "user-123", Username: "oldname", Email: "test@example.com"}

	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	updated, err := authService.UpdateUsername("user-123", "newname")
	assert.NoError(t, err)
	assert.Equal(t, "newname", updated.Username)
	mockRepo.AssertExpectations(t)

	// Unknown user
	mockRepo.On("GetByID", "ghost").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.UpdateUsername("ghost", "newname")
	assert.True(t, errors.Is(err, services.ErrNotFound))
	mockRepo.AssertExpectations(t)
}
