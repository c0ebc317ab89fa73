package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/bhavika-28/pet-care-app/internal/handlers"
	"github.com/bhavika-28/pet-care-app/internal/middleware"
	"github.com/bhavika-28/pet-care-app/internal/models"
	"github.com/bhavika-28/pet-care-app/internal/repositories"
	"github.com/bhavika-28/pet-care-app/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp() (*fiber.App, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Initialize in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Pet{}, &models.Group{}, &models.GroupMember{})
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	petRepo := repositories.NewGORMPetRepository(db)
	groupRepo := repositories.NewGORMGroupRepository(db)
	membershipRepo := repositories.NewGORMMembershipRepository(db)

	// Initialize Services (nil for RabbitMQ client)
	codes := services.NewCodeGenerator()
	authService := services.NewAuthService(userRepo, jwtSecret)
	groupService := services.NewGroupService(groupRepo, membershipRepo, codes)
	petService := services.NewPetService(petRepo, groupService, codes, nil)
	accessService := services.NewAccessService(petRepo, groupRepo, membershipRepo, userRepo, nil)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	petHandler := handlers.NewPetHandler(petService, accessService)
	caregiverHandler := handlers.NewCaregiverHandler(accessService)
	membersHandler := handlers.NewMembersHandler(accessService, groupService, petService)

	app := fiber.New()

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	petHandler.RegisterRoutes(protectedRoutes)
	caregiverHandler.RegisterRoutes(protectedRoutes)
	membersHandler.RegisterRoutes(protectedRoutes)

	return app, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	resp.Body.Close()
	return resp, decoded
}

// registerAndLogin registers a user and returns their token and user ID.
func registerAndLogin(t *testing.T, app *fiber.App, username, email string) (string, string) {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	user, _ := body["user"].(map[string]interface{})
	userID, _ := user["id"].(string)
	assert.NotEmpty(t, userID)
	return token, userID
}

func createPet(t *testing.T, app *fiber.App, token, name string) map[string]interface{} {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/pets/", token, map[string]interface{}{
		"name":  name,
		"type":  "dog",
		"breed": "Beagle",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	pet, _ := body["pet"].(map[string]interface{})
	assert.NotEmpty(t, pet["id"])
	return pet
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "authuser",
		"email":    "authuser@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered successfully", body["message"])

	// Duplicate email is rejected
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "authuser2",
		"email":    "authuser@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login by email
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "authuser@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	// Wrong password
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "authuser@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPetEndpointsRequireAuth(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/pets/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAndListPets(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "petowner", "petowner@example.com")

	pet := createPet(t, app, token, "Rex")
	petCode, _ := pet["pet_code"].(string)
	assert.Len(t, petCode, 7)
	groupCode, _ := pet["group_code"].(string)
	assert.Len(t, groupCode, 6)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/pets/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	pets, _ := body["pets"].([]interface{})
	assert.Len(t, pets, 1)

	// Lookup by sharing code
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/pets/code/"+petCode, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	found, _ := body["pet"].(map[string]interface{})
	assert.Equal(t, pet["id"], found["id"])
}

func TestCaregiverFlow(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	ownerToken, ownerID := registerAndLogin(t, app, "flowowner", "flowowner@example.com")
	carerToken, carerID := registerAndLogin(t, app, "flowcarer", "flowcarer@example.com")

	pet := createPet(t, app, ownerToken, "Luna")
	petID, _ := pet["id"].(string)
	petCode, _ := pet["pet_code"].(string)

	// Owner cannot redeem their own pet's code
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/caregivers/", ownerToken, map[string]string{"code": petCode})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Caregiver joins by code
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/caregivers/", carerToken, map[string]string{"code": petCode})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The shared pet shows up in the caretaker listing
	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/pets/caretaker", carerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	shared, _ := body["pets"].([]interface{})
	assert.Len(t, shared, 1)

	// Member roster lists the owner first, then the caregiver
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/pets/"+petID+"/members", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	members, _ := body["members"].([]interface{})
	assert.Len(t, members, 2)
	first, _ := members[0].(map[string]interface{})
	assert.Equal(t, ownerID, first["user_id"])
	assert.Equal(t, "owner", first["role"])

	// Connected members are visible from both sides
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/members/connected", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	connected, _ := body["members"].([]interface{})
	assert.Len(t, connected, 1)

	// Owner revokes the caregiver
	resp, body = doJSON(t, app, http.MethodDelete, "/api/v1/caregivers/", ownerToken, map[string]string{
		"user_id": carerID,
		"pet_id":  petID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["removed"])

	// A second revoke reports nothing removed but still succeeds
	resp, body = doJSON(t, app, http.MethodDelete, "/api/v1/caregivers/", ownerToken, map[string]string{
		"user_id": carerID,
		"pet_id":  petID,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["removed"])

	// Access is gone
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/pets/caretaker", carerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	shared, _ = body["pets"].([]interface{})
	assert.Len(t, shared, 0)
}

func TestRedeemUnknownCode(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "unknowncode", "unknowncode@example.com")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/caregivers/", token, map[string]string{"code": "ZZZZZZZ"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPetVisibility(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)

	ownerToken, _ := registerAndLogin(t, app, "visowner", "visowner@example.com")
	strangerToken, _ := registerAndLogin(t, app, "visstranger", "visstranger@example.com")

	pet := createPet(t, app, ownerToken, "Ghost")
	petID, _ := pet["id"].(string)

	// A stranger cannot read the pet
	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/pets/"+petID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The owner can
	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/pets/"+petID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGroupCodeEndpoint(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "groupowner", "groupowner@example.com")

	createPet(t, app, token, "Milo")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/groups/code", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	code, _ := body["group_code"].(string)
	assert.Len(t, code, 6)
}

func TestPetCodeEndpoint(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "codeowner", "codeowner@example.com")

	pet := createPet(t, app, token, "Coco")
	petID, _ := pet["id"].(string)
	petCode, _ := pet["pet_code"].(string)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/pets/"+petID+"/code", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, petCode, body["pet_code"])
}

func TestUpdateAndDeletePet(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token, _ := registerAndLogin(t, app, "updowner", "updowner@example.com")

	pet := createPet(t, app, token, "Buster")
	petID, _ := pet["id"].(string)

	resp, body := doJSON(t, app, http.MethodPatch, "/api/v1/pets/"+petID, token, map[string]interface{}{
		"name": "Buster II",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated, _ := body["pet"].(map[string]interface{})
	assert.Equal(t, "Buster II", updated["name"])
	// The sharing code survives updates
	assert.Equal(t, pet["pet_code"], updated["pet_code"])

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/v1/pets/"+petID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/pets/"+petID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserProfileEndpoints(t *testing.T) {
	app, err := setupApp()
	assert.NoError(t, err)
	token, userID := registerAndLogin(t, app, "profileuser", "profileuser@example.com")

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ := body["user"].(map[string]interface{})
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "profileuser", user["username"])

	resp, body = doJSON(t, app, http.MethodPatch, "/api/v1/users/me", token, map[string]string{
		"username": "renameduser",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ = body["user"].(map[string]interface{})
	assert.Equal(t, "renameduser", user["username"])

	// Password change requires the current password
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/users/me/password", token, map[string]string{
		"current_password": "wrongpassword",
		"new_password":     "newpassword123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/users/me/password", token, map[string]string{
		"current_password": "password123",
		"new_password":     "newpassword123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The new password logs in
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "profileuser@example.com",
		"password": "newpassword123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
