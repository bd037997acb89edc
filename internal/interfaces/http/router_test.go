package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/bootstrap"
	"github.com/jhoicas/cafecraft/internal/domain/access"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/security"
	"github.com/jhoicas/cafecraft/internal/infrastructure/store/storetest"
	apphttp "github.com/jhoicas/cafecraft/internal/interfaces/http"
	"github.com/jhoicas/cafecraft/pkg/config"
	"github.com/jhoicas/cafecraft/pkg/logger"
)

const testPassword = "CafeCraft#Test1"

type apiFixture struct {
	app *fiber.App
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	env := storetest.Open(t)
	dir := t.TempDir()
	cfg := &config.Config{
		App:      config.AppConfig{Name: "cafecraft-test", Locale: "en", Currency: "PHP", CurrencySymbol: "₱", Timezone: "UTC"},
		JWT:      config.JWTConfig{Secret: testJWTSecret, Expiration: 30, Issuer: testIssuer},
		ML:       config.MLConfig{ModelPath: filepath.Join(dir, "model.json"), MinSupport: 0.01, MinConfidence: 0.1, TopK: 3},
		Receipts: config.ReceiptsConfig{Dir: filepath.Join(dir, "receipts"), ShopName: "CaféCraft", VerifyKey: "k"},
	}
	svc, err := bootstrap.New(cfg, env.DB, logger.Nop())
	require.NoError(t, err)

	hash, err := security.HashPassword(testPassword)
	require.NoError(t, err)
	now := time.Now().UTC()
	for _, u := range []struct{ name, role string }{{"owner", entity.RoleOwner}, {"cashier1", entity.RoleCashier}} {
		user := &entity.User{
			ID: uuid.New().String(), Username: u.name, FullName: u.name, Role: u.role,
			PasswordHash: hash, IsActive: true, CreatedAt: now, UpdatedAt: now,
		}
		access.DefaultPermissions(u.role).Apply(user)
		require.NoError(t, env.Repos.Users.Create(context.Background(), user))
	}

	app := apphttp.NewApp(apphttp.AppConfig{Name: cfg.App.Name}, logger.Nop())
	apphttp.Router(app, svc.RouterDeps())
	return &apiFixture{app: app}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func (f *apiFixture) login(t *testing.T, username string) string {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

func TestRouter_Health(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cafecraft-test")
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "owner", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestRouter_MeDevuelveModulos(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "cashier1")

	resp, body := f.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "cashier1", me.Username)
	assert.Equal(t, []string{access.ModulePOS}, me.Modules)
}

func TestRouter_ModuloDeshabilitadoParaCajero(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "cashier1")

	resp, body := f.do(t, http.MethodGet, "/api/inventory/low-stock", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "MODULE_DISABLED", errorCode(t, body))

	resp, _ = f.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_MenuSoloRolesPrivilegiados(t *testing.T) {
	f := newAPI(t)
	req := dto.CreateProductRequest{Name: "Mocha", Category: "Coffee", Price: decimal.NewFromInt(150), Cost: decimal.NewFromInt(50)}

	resp, body := f.do(t, http.MethodPost, "/api/products", f.login(t, "cashier1"), req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, body = f.do(t, http.MethodPost, "/api/products", f.login(t, "owner"), req)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestRouter_CheckoutCarritoVacio(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/orders", f.login(t, "cashier1"), dto.CheckoutRequest{PaymentMethod: "cash"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_CART", errorCode(t, body))
}

func TestRouter_RecomendacionesSinModelo(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/api/recommendations?items=Latte", f.login(t, "cashier1"), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "MODEL_NOT_TRAINED", errorCode(t, body))
}

func TestRouter_PedidoInexistente(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/api/orders/"+uuid.New().String(), f.login(t, "owner"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestRouter_RutaInexistente(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/no-existe", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestRouter_CambioDeContrasenaPropia(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "cashier1")

	resp, body := f.do(t, http.MethodPut, "/api/users/me/password", token,
		dto.ChangePasswordRequest{OldPassword: testPassword, NewPassword: "corta"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "WEAK_PASSWORD", errorCode(t, body))

	resp, body = f.do(t, http.MethodPut, "/api/users/me/password", token,
		dto.ChangePasswordRequest{OldPassword: testPassword, NewPassword: "Nueva#Clave2026"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}
