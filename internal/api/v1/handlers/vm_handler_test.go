package handlers_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vmplane/vmplane/internal/api/v1/handlers"
	"github.com/vmplane/vmplane/internal/api/v1/routes"
	"github.com/vmplane/vmplane/internal/db/models"
	"github.com/vmplane/vmplane/internal/db/repos"
	"github.com/vmplane/vmplane/internal/provision"
	"github.com/vmplane/vmplane/internal/services"
	"github.com/vmplane/vmplane/internal/types"
)

const (
	testUsername = "operator"
	testPassword = "s3cret"
)

// markerExecutor immediately reports success with the expected marker
type markerExecutor struct{}

func (markerExecutor) Execute(_ context.Context, req types.VMRequest) provision.Outcome {
	return provision.Outcome{Succeeded: true, Output: provision.SuccessMarker(req.Name)}
}

type testEnv struct {
	app    *fiber.App
	vmRepo *repos.VMRepository
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	n, err := rand.Int(rand.Reader, big.NewInt(1<<31))
	require.NoError(t, err)
	dsn := fmt.Sprintf("file:vmplane_api_test_%d?mode=memory&cache=shared", n.Int64())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.VM{}, &models.User{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	userRepo := repos.NewUserRepository(db)
	require.NoError(t, userRepo.Create(context.Background(), &models.User{
		Username:     testUsername,
		PasswordHash: string(hash),
	}))

	vmRepo := repos.NewVMRepository(db)
	vmService := services.NewVMService(vmRepo, markerExecutor{}, time.Millisecond)
	authService := services.NewAuthService(userRepo)

	app := fiber.New()
	routes.RegisterRoutes(app,
		handlers.NewVMHandler(vmService),
		handlers.NewUserHandler(authService),
		authService,
	)

	env := &testEnv{app: app, vmRepo: vmRepo}
	env.token = env.login(t, testUsername, testPassword)
	return env
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/api/v1/users/login", "", types.LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp types.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	require.NotEmpty(t, loginResp.Token)
	return loginResp.Token
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func validVMRequest(name string) types.VMRequest {
	return types.VMRequest{
		Name:      name,
		ESXiHost:  "esxi1",
		Datastore: "ds1",
		Network:   "VM Network",
		CPUCount:  2,
		MemoryGB:  4,
		DiskGB:    40,
		ISOPath:   "/isos/u.iso",
		GuestOS:   "ubuntu64Guest",
		VCenter:   "vc.local",
	}
}

// seedVM builds a pending VM record for direct repository inserts
func seedVM(name string) *models.VM {
	req := validVMRequest(name)
	return &models.VM{
		Name:      req.Name,
		ESXiHost:  req.ESXiHost,
		Datastore: req.Datastore,
		Network:   req.Network,
		CPUCount:  req.CPUCount,
		MemoryGB:  req.MemoryGB,
		DiskGB:    req.DiskGB,
		ISOPath:   req.ISOPath,
		GuestOS:   req.GuestOS,
		VCenter:   req.VCenter,
		Status:    models.VMStatusPending,
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/users/login", "", types.LoginRequest{
		Username: testUsername,
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVMEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/v1/vms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/v1/vms", "bogus-token", validVMRequest("vm1"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateVM(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/vms", env.token, validVMRequest("vm1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created types.CreateVMResponse
	decode(t, resp, &created)
	assert.NotZero(t, created.JobID)

	// The creation response only means the job was accepted; the record is
	// immediately visible via list.
	resp = env.request(t, http.MethodGet, "/api/v1/vms", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var vms []models.VM
	decode(t, resp, &vms)
	require.Len(t, vms, 1)
	assert.Equal(t, "vm1", vms[0].Name)
}

func TestCreateVMValidation(t *testing.T) {
	env := newTestEnv(t)

	req := validVMRequest("vm1")
	req.VCenter = ""
	resp := env.request(t, http.MethodPost, "/api/v1/vms", env.token, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Nothing was recorded
	resp = env.request(t, http.MethodGet, "/api/v1/vms", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vms []models.VM
	decode(t, resp, &vms)
	assert.Empty(t, vms)
}

func TestListVMsStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	done := seedVM("vm-done")
	require.NoError(t, env.vmRepo.Create(ctx, done))
	require.NoError(t, env.vmRepo.UpdateResult(ctx, done.ID, models.VMStatusSuccess, "SUCCESS: done"))
	require.NoError(t, env.vmRepo.Create(ctx, seedVM("vm-waiting")))

	resp := env.request(t, http.MethodGet, "/api/v1/vms?status=success", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vms []models.VM
	decode(t, resp, &vms)
	require.Len(t, vms, 1)
	assert.Equal(t, "vm-done", vms[0].Name)

	resp = env.request(t, http.MethodGet, "/api/v1/vms?status=pending", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &vms)
	require.Len(t, vms, 1)
	assert.Equal(t, "vm-waiting", vms[0].Name)

	// An unknown status is the caller's mistake, not an empty result
	resp = env.request(t, http.MethodGet, "/api/v1/vms?status=bogus", env.token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateVMBatch(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/vms/batch", env.token, types.BatchVMRequest{
		Template: validVMRequest(""),
		Names:    []string{"vm-a", "vm-b", "vm-c"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created types.BatchCreateVMResponse
	decode(t, resp, &created)
	require.Len(t, created.JobIDs, 3)
	for i := 1; i < len(created.JobIDs); i++ {
		assert.Greater(t, created.JobIDs[i], created.JobIDs[i-1])
	}
}

func TestCreateVMBatchEmptyNames(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/vms/batch", env.token, types.BatchVMRequest{
		Template: validVMRequest(""),
		Names:    []string{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetVM(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/vms", env.token, validVMRequest("vm1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created types.CreateVMResponse
	decode(t, resp, &created)

	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/vms/%d", created.JobID), env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var vm models.VM
	decode(t, resp, &vm)
	assert.Equal(t, "vm1", vm.Name)

	resp = env.request(t, http.MethodGet, "/api/v1/vms/999", env.token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/v1/vms/not-a-number", env.token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/v1/users/logout", env.token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/v1/vms", env.token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
