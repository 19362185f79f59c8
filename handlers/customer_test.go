package handlers

import (
	"net/http"
	"testing"

	"pos-backend/models"
	"pos-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCustomerRouter(t *testing.T) (*testEnv, string) {
	t.Helper()
	env := newTestEnv(t)
	h := &CustomerHandler{Customers: services.NewCustomerService(env.db)}

	customers := env.router.Group("/api/customers")
	customers.Use(env.auth)
	customers.GET("/search-by-phone", h.SearchByPhone)
	customers.GET("/phone/:phone", h.GetCustomerByPhone)
	customers.POST("/find-or-create", h.FindOrCreate)
	customers.DELETE("/addresses/:addressId", h.DeleteAddress)
	customers.GET("", h.GetCustomers)
	customers.POST("", h.CreateCustomer)
	customers.GET("/:id", h.GetCustomer)
	customers.GET("/:id/addresses", h.GetAddresses)
	customers.POST("/:id/addresses", h.CreateAddress)

	user := createTestUser(t, env.db, "cashier", "secret123", models.RoleManager)
	return env, env.tokenFor(t, user)
}

func TestFindOrCreateCustomer(t *testing.T) {
	env, token := setupCustomerRouter(t)
	body := map[string]string{
		"phone":   "03001234567",
		"name":    "Ali",
		"address": "House 5, Street 2, Gulberg, Lahore",
	}

	w := env.do(authRequest("POST", "/api/customers/find-or-create", body, token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := data(t, w)["id"].(string)

	w = env.do(authRequest("POST", "/api/customers/find-or-create", body, token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, data(t, w)["id"])

	w = env.do(authRequest("GET", "/api/customers/"+id+"/addresses", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(w)["data"], 1)
}

func TestFindOrCreateRequiresName(t *testing.T) {
	env, token := setupCustomerRouter(t)

	w := env.do(authRequest("POST", "/api/customers/find-or-create", map[string]string{
		"phone":   "03001234567",
		"address": "Somewhere",
	}, token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCustomerDuplicatePhone(t *testing.T) {
	env, token := setupCustomerRouter(t)
	body := map[string]string{"name": "Sara", "phone": "03111111111"}

	w := env.do(authRequest("POST", "/api/customers", body, token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(authRequest("POST", "/api/customers", body, token))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(authRequest("GET", "/api/customers/phone/03111111111", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sara", data(t, w)["name"])
}

func TestDuplicateAddressRejected(t *testing.T) {
	env, token := setupCustomerRouter(t)

	w := env.do(authRequest("POST", "/api/customers", map[string]string{"name": "Sara", "phone": "03111111111"}, token))
	require.Equal(t, http.StatusCreated, w.Code)
	id := data(t, w)["id"].(string)

	w = env.do(authRequest("POST", "/api/customers/"+id+"/addresses", map[string]string{"address": "12 Mall Road"}, token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(authRequest("POST", "/api/customers/"+id+"/addresses", map[string]string{"address": "  12 mall road "}, token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerListAndPhoneSearch(t *testing.T) {
	env, token := setupCustomerRouter(t)
	for _, c := range []map[string]string{
		{"name": "Sara", "phone": "03111111111"},
		{"name": "Omar", "phone": "03222222222"},
	} {
		w := env.do(authRequest("POST", "/api/customers", c, token))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(authRequest("GET", "/api/customers?search=omar", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	list := data(t, w)
	assert.Len(t, list["customers"], 1)

	w = env.do(authRequest("GET", "/api/customers/search-by-phone?q=0311", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(w)["data"], 1)

	w = env.do(authRequest("GET", "/api/customers/search-by-phone?q=0311&limit=abc", nil, token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
