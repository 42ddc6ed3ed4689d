package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/climate-service/internal/application/auth"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/application/ports"
	"github.com/jhoicas/climate-service/internal/application/usecase"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/jhoicas/climate-service/internal/domain/repository/repotest"
	apphttp "github.com/jhoicas/climate-service/internal/interfaces/http"
	"github.com/jhoicas/climate-service/pkg/logger"
	pkgjwt "github.com/jhoicas/climate-service/pkg/jwt"
)

// Usuarios sembrados.
const (
	managerID    = int64(1)
	operatorID   = int64(2)
	specialistID = int64(3)
	clientID     = int64(7)
	otherClient  = int64(8)
)

type fakePDF struct{}

func (fakePDF) GenerateWorkOrder(_ context.Context, wo ports.WorkOrder) ([]byte, error) {
	return []byte("%PDF-1.4 " + wo.Client.FIO), nil
}

type testAPI struct {
	app   *fiber.App
	store *repotest.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	store := repotest.NewStore()
	users, requests, comments := store.Users(), store.Requests(), store.Comments()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	for _, u := range []*entity.User{
		{ID: managerID, FIO: "Менеджер Тест", Login: "manager", PasswordHash: hash, Role: entity.RoleManager},
		{ID: operatorID, FIO: "Оператор Тест", Login: "operator", PasswordHash: hash, Role: entity.RoleOperator},
		{ID: specialistID, FIO: "Специалист Тест", Login: "master", PasswordHash: hash, Role: entity.RoleSpecialist},
		{ID: clientID, FIO: "Клиент Семь", Phone: "+79990000007", Login: "client7", PasswordHash: hash, Role: entity.RoleCustomer},
		{ID: otherClient, FIO: "Клиент Восемь", Login: "client8", PasswordHash: hash, Role: entity.RoleCustomer},
	} {
		_, err := users.Create(ctx, u)
		require.NoError(t, err)
	}
	parts := "компрессор"
	for _, r := range []*entity.Request{
		{ID: 10, StartDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), TechType: "Кондиционер", TechModel: "TCL TAC-12",
			ProblemDescription: "Не охлаждает", Status: entity.StatusNew, RepairParts: &parts, ClientID: clientID},
		{ID: 11, StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), TechType: "Увлажнитель", TechModel: "Xiaomi",
			ProblemDescription: "Шумит", Status: entity.StatusNew, ClientID: otherClient},
	} {
		_, err := requests.Create(ctx, r)
		require.NoError(t, err)
	}

	log := logger.Nop()
	qr, err := apphttp.NewQRHandler("https://example.com/feedback", log)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log),
		UserUC:      usecase.NewUserUseCase(users, log),
		RequestUC:   usecase.NewRequestUseCase(requests, users, comments, nil, log),
		ClientUC:    usecase.NewClientUseCase(requests, comments, nil, log),
		CommentUC:   usecase.NewCommentUseCase(comments),
		StatsUC:     usecase.NewStatsUseCase(store.Stats()),
		WorkOrderUC: usecase.NewWorkOrderUseCase(requests, users, comments, fakePDF{}),
		QR:          qr,
		JWTSecret:   testJWTSecret,
		Log:         log,
	})
	return &testAPI{app: app, store: store}
}

func bearer(t *testing.T, userID int64, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, string(role), testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestLogin_DevuelveTokenConElRolAlmacenado(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Login: "master", Password: "secret-pass"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, specialistID, out.UserID)

	claims, err := pkgjwt.Parse(testJWTSecret, out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleSpecialist), claims.Role)
	assert.Equal(t, specialistID, claims.UserID)
}

func TestLogin_CredencialesInvalidasUniformes(t *testing.T) {
	api := newTestAPI(t)
	wrongPass, body1 := api.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Login: "master", Password: "nope"})
	unknown, body2 := api.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Login: "ghost", Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.JSONEq(t, string(body1), string(body2))
	assert.Contains(t, string(body1), "INVALID_CREDENTIALS")
}

func TestMe_PerfilDesdeLaBase(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/auth/me", bearer(t, clientID, entity.RoleCustomer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "client7", out.Login)
	assert.Equal(t, string(entity.RoleCustomer), out.UserType)
	assert.NotContains(t, string(body), "password")
}

func TestMe_UsuarioEliminado_401(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodGet, "/auth/me", bearer(t, 999, entity.RoleManager), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAssign_ManagerAsignaEspecialista(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/requests/10/assign", bearer(t, managerID, entity.RoleManager),
		dto.AssignRequest{MasterID: specialistID})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out dto.RequestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.MasterID)
	assert.Equal(t, specialistID, *out.MasterID)
	assert.Equal(t, string(entity.StatusNew), out.RequestStatus)
	require.NotNil(t, out.RepairParts)
	assert.Equal(t, "компрессор", *out.RepairParts)
}

func TestAssign_ClienteRecibe403(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodPost, "/requests/10/assign", bearer(t, clientID, entity.RoleCustomer),
		dto.AssignRequest{MasterID: specialistID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	got, err := api.store.Requests().GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, got.MasterID)
}

func TestAssign_NoEspecialista400(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/requests/10/assign", bearer(t, managerID, entity.RoleManager),
		dto.AssignRequest{MasterID: operatorID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestAssign_SolicitudInexistente404(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodPost, "/requests/404/assign", bearer(t, managerID, entity.RoleManager),
		dto.AssignRequest{MasterID: specialistID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExtend_SoloCambiaLaFecha(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/requests/10/extend", bearer(t, managerID, entity.RoleQualityManager),
		dto.ExtendRequest{NewCompletionDate: "2024-03-01", Reason: "ожидание запчастей"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out dto.RequestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.CompletionDate)
	assert.Equal(t, "2024-03-01", *out.CompletionDate)
	assert.Equal(t, string(entity.StatusNew), out.RequestStatus)
	assert.Nil(t, out.MasterID)
}

func TestExtend_FechaInvalida400(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/requests/10/extend", bearer(t, managerID, entity.RoleManager),
		map[string]string{"new_completion_date": "01.03.2024"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "new_completion_date")
}

func TestUpdate_ParcialSoloEstado(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPut, "/requests/10", bearer(t, specialistID, entity.RoleSpecialist),
		map[string]any{"request_status": string(entity.StatusInRepair)})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	got, err := api.store.Requests().GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInRepair, got.Status)
	assert.Nil(t, got.CompletionDate)
	assert.Nil(t, got.MasterID)
	require.NotNil(t, got.RepairParts)
	assert.Equal(t, "компрессор", *got.RepairParts)
	assert.Equal(t, clientID, got.ClientID)
}

func TestUpdate_NullLimpiaRepuestos(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodPut, "/requests/10", bearer(t, managerID, entity.RoleManager),
		map[string]any{"repair_parts": nil})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := api.store.Requests().GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, got.RepairParts)
}

func TestClientCreate_ForzaClienteYValoresPorDefecto(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/client/my-requests", bearer(t, clientID, entity.RoleCustomer), map[string]any{
		"start_date":          "2024-01-10",
		"climate_tech_type":   "AC",
		"climate_tech_model":  "X100",
		"problem_description": "no cooling",
		"client_id":           otherClient,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out dto.RequestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, clientID, out.ClientID)
	assert.Equal(t, string(entity.StatusNew), out.RequestStatus)
	assert.Equal(t, "2024-01-10", out.StartDate)

	stored, err := api.store.Requests().GetByID(context.Background(), out.RequestID)
	require.NoError(t, err)
	assert.Equal(t, clientID, stored.ClientID)
}

func TestClientCreate_SinFechaUsaHoy(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/client/my-requests", bearer(t, clientID, entity.RoleCustomer), map[string]any{
		"climate_tech_type":   "AC",
		"climate_tech_model":  "X100",
		"problem_description": "течёт вода",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out dto.RequestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, entity.Today().Format(entity.DateLayout), out.StartDate)
}

func TestClient_SolicitudAjenaEs404(t *testing.T) {
	api := newTestAPI(t)
	tok := bearer(t, clientID, entity.RoleCustomer)

	resp, _ := api.do(t, http.MethodGet, "/client/my-requests/11", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/client/my-requests/11/comments", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/client/my-requests/10", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_ListaSoloPropias(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/client/my-requests", bearer(t, clientID, entity.RoleCustomer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []dto.RequestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out, 1)
	assert.Equal(t, int64(10), out[0].RequestID)
}

func TestClient_FiltroPorEstado(t *testing.T) {
	api := newTestAPI(t)
	path := "/client/my-requests?status=" + "%D0%93%D0%BE%D1%82%D0%BE%D0%B2%D0%B0%20%D0%BA%20%D0%B2%D1%8B%D0%B4%D0%B0%D1%87%D0%B5"
	resp, body := api.do(t, http.MethodGet, path, bearer(t, clientID, entity.RoleCustomer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))
}

func TestClient_PersonalRecibe403(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodGet, "/client/my-requests", bearer(t, managerID, entity.RoleManager), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequests_ClienteNoVeListadoGeneral(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodGet, "/requests", bearer(t, clientID, entity.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequests_SearchNoChocaConID(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/requests/search?q=%D1%88%D1%83%D0%BC", bearer(t, operatorID, entity.RoleOperator), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out []dto.RequestResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out, 1)
	assert.Equal(t, int64(11), out[0].RequestID)
}

func TestRequests_IDInvalido400(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/requests/abc", bearer(t, operatorID, entity.RoleOperator), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_ID")
}

func TestRequests_CreateClienteInexistente400(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodPost, "/requests", bearer(t, operatorID, entity.RoleOperator), map[string]any{
		"start_date":          "2024-05-01",
		"climate_tech_type":   "Сплит-система",
		"climate_tech_model":  "LG",
		"problem_description": "Не включается",
		"client_id":           999,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequests_ErrorInternoSanitizado(t *testing.T) {
	api := newTestAPI(t)
	api.store.FailNext(repotest.ErrInjected)
	resp, body := api.do(t, http.MethodGet, "/requests", bearer(t, operatorID, entity.RoleOperator), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "INTERNAL")
	assert.NotContains(t, string(body), "inyectado")
}

func TestRequests_DeleteSoloManager(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodDelete, "/requests/10", bearer(t, operatorID, entity.RoleOperator), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, "/requests/10", bearer(t, managerID, entity.RoleManager), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, "/requests/10", bearer(t, managerID, entity.RoleManager), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequests_WorkOrderPDF(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/requests/10/pdf", bearer(t, specialistID, entity.RoleSpecialist), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "work-order-10.pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestStats_Count(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/requests/stats/count", bearer(t, managerID, entity.RoleManager), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total_requests":2,"completed_requests":0}`, string(body))
}

func TestUsers_CreateYDuplicado(t *testing.T) {
	api := newTestAPI(t)
	tok := bearer(t, managerID, entity.RoleManager)
	in := dto.CreateUserRequest{FIO: "Новый", Login: "new-user", Password: "p4ss", UserType: string(entity.RoleOperator)}

	resp, body := api.do(t, http.MethodPost, "/users", tok, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotContains(t, string(body), "p4ss")

	resp, body = api.do(t, http.MethodPost, "/users", tok, in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE")
}

func TestUsers_RolDesconocido400(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/users", bearer(t, managerID, entity.RoleManager),
		dto.CreateUserRequest{FIO: "X", Login: "x", Password: "p", UserType: "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "user_type")
}

func TestUsers_QualityManagerLeePeroNoCrea(t *testing.T) {
	api := newTestAPI(t)
	tok := bearer(t, managerID, entity.RoleQualityManager)

	resp, _ := api.do(t, http.MethodGet, "/users", tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/users", tok,
		dto.CreateUserRequest{FIO: "X", Login: "x", Password: "p", UserType: string(entity.RoleOperator)})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestComments_CreateAutorPorDefecto(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodPost, "/comments", bearer(t, specialistID, entity.RoleSpecialist),
		dto.CreateCommentRequest{Message: "Заменён конденсатор", RequestID: 10})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out dto.CommentResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, specialistID, out.MasterID)

	resp, body = api.do(t, http.MethodGet, "/client/my-requests/10/comments", bearer(t, clientID, entity.RoleCustomer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Заменён конденсатор")
}

func TestComments_OperadorNoComenta(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do(t, http.MethodPost, "/comments", bearer(t, operatorID, entity.RoleOperator),
		dto.CreateCommentRequest{Message: "hola", RequestID: 10})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestQR_Publico(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.do(t, http.MethodGet, "/qr/feedback", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
}
