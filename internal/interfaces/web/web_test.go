package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/climate-service/internal/application/dto"
	"github.com/jhoicas/climate-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUser struct {
	id   int64
	role entity.Role
}

// fakeAPI API mínima que registra cada llamada recibida.
type fakeAPI struct {
	mu            sync.Mutex
	calls         []string
	lastUpdate    map[string]any
	listStatus    int
	qrStatus      int
	clientRequest []dto.RequestResponse
}

var fakeUsers = map[string]fakeUser{
	"manager":  {id: 1, role: entity.RoleManager},
	"operator": {id: 2, role: entity.RoleOperator},
	"client":   {id: 7, role: entity.RoleCustomer},
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeAPI) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var in dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if _, ok := fakeUsers[in.Login]; !ok {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "неверный логин или пароль"})
			return
		}
		writeJSON(w, http.StatusOK, dto.LoginResponse{AccessToken: "tok-" + in.Login, TokenType: "bearer", Role: "ignored", UserID: 999})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		login := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer tok-")
		u, ok := fakeUsers[login]
		if !ok {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
			return
		}
		writeJSON(w, http.StatusOK, dto.UserResponse{UserID: u.id, Login: login, UserType: string(u.role)})
	})
	mux.HandleFunc("GET /requests/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.listStatus != 0 {
			writeJSON(w, f.listStatus, dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token expirado"})
			return
		}
		writeJSON(w, http.StatusOK, []dto.RequestResponse{{RequestID: 10, StartDate: "2024-01-10", ClimateTechType: "Кондиционер"}})
	})
	mux.HandleFunc("PUT /requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastUpdate = body
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, dto.RequestResponse{RequestID: 10})
	})
	mux.HandleFunc("DELETE /requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, dto.RequestResponse{RequestID: 10})
	})
	mux.HandleFunc("GET /requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.PathValue("id") != "10" {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
			return
		}
		writeJSON(w, http.StatusOK, dto.RequestResponse{RequestID: 10, StartDate: "2024-01-10", ClimateTechType: "Кондиционер"})
	})
	mux.HandleFunc("GET /requests/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, []dto.CommentResponse{{CommentID: 1, Message: "Заменили фильтр", MasterID: 3, RequestID: 10}})
	})
	mux.HandleFunc("GET /requests/stats/count", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, dto.CountStatsResponse{TotalRequests: 12, CompletedRequests: 4})
	})
	mux.HandleFunc("GET /client/my-requests/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeJSON(w, http.StatusOK, f.clientRequest)
	})
	mux.HandleFunc("GET /qr/feedback", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if f.qrStatus != 0 {
			w.WriteHeader(f.qrStatus)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG-api"))
	})
	return mux
}

type browser struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func newBrowser(t *testing.T, api *fakeAPI) *browser {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	app, err := NewApp(Deps{
		API:         NewAPIClient(srv.URL, 2*time.Second),
		Sessions:    NewSessionStore(nil, time.Hour, false),
		FeedbackURL: "https://example.com/feedback",
	})
	require.NoError(t, err)
	return &browser{t: t, app: app}
}

// do envía la petición con la cookie actual y guarda la cookie de sesión que devuelva la respuesta.
func (b *browser) do(method, path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			b.cookie = c
		}
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(raw)
}

func (b *browser) login(login string) {
	b.t.Helper()
	resp, _ := b.do(http.MethodPost, "/login", url.Values{"login": {login}, "password": {"secret-pass"}})
	require.Equal(b.t, fiber.StatusFound, resp.StatusCode)
	require.Equal(b.t, "/", resp.Header.Get("Location"))
}

func TestLogin_RoleComesFromProfile(t *testing.T) {
	api := &fakeAPI{}
	b := newBrowser(t, api)
	b.login("operator")
	assert.True(t, api.called("GET /auth/me"))

	_, body := b.do(http.MethodGet, "/", nil)
	assert.Contains(t, body, "Вход выполнен успешно!")
	assert.Contains(t, body, string(entity.RoleOperator))
	assert.Contains(t, body, `id="total-requests">12<`)
}

func TestLogin_InvalidCredentialsShowsAPIMessage(t *testing.T) {
	b := newBrowser(t, &fakeAPI{})
	resp, body := b.do(http.MethodPost, "/login", url.Values{"login": {"nobody"}, "password": {"x"}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "неверный логин или пароль")
}

func TestAnonymous_RedirectedToLogin(t *testing.T) {
	b := newBrowser(t, &fakeAPI{})
	resp, _ := b.do(http.MethodGet, "/requests", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := b.do(http.MethodGet, "/login", nil)
	assert.Contains(t, body, msgLoginRequired)
}

func TestRoleRequired_RedirectsHome(t *testing.T) {
	b := newBrowser(t, &fakeAPI{})
	b.login("operator")
	_, _ = b.do(http.MethodGet, "/", nil) // consume el flash del login

	resp, _ := b.do(http.MethodGet, "/users", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := b.do(http.MethodGet, "/", nil)
	assert.Contains(t, body, msgNoRights)
}

func TestCustomerOnly_StaffRedirected(t *testing.T) {
	b := newBrowser(t, &fakeAPI{})
	b.login("manager")
	resp, _ := b.do(http.MethodGet, "/my-requests", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAPIUnauthorized_ClearsSession(t *testing.T) {
	api := &fakeAPI{listStatus: http.StatusUnauthorized}
	b := newBrowser(t, api)
	b.login("operator")

	resp, _ := b.do(http.MethodGet, "/requests", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := b.do(http.MethodGet, "/login", nil)
	assert.Contains(t, body, msgSessionExpired)

	// la sesión ya no tiene token
	resp, _ = b.do(http.MethodGet, "/requests", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestDeleteRequest_WithoutConfirmationDoesNotCallAPI(t *testing.T) {
	api := &fakeAPI{}
	b := newBrowser(t, api)
	b.login("manager")

	resp, _ := b.do(http.MethodPost, "/requests/10/delete", url.Values{})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/requests/10", resp.Header.Get("Location"))
	assert.False(t, api.called("DELETE "))

	_, body := b.do(http.MethodGet, "/", nil)
	assert.Contains(t, body, msgDeleteCanceled)
}

func TestDeleteRequest_Confirmed(t *testing.T) {
	api := &fakeAPI{}
	b := newBrowser(t, api)
	b.login("manager")

	resp, _ := b.do(http.MethodPost, "/requests/10/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/requests", resp.Header.Get("Location"))
	assert.True(t, api.called("DELETE /requests/10"))
}

func TestDeleteUser_WithoutConfirmationDoesNotCallAPI(t *testing.T) {
	api := &fakeAPI{}
	b := newBrowser(t, api)
	b.login("manager")

	resp, _ := b.do(http.MethodPost, "/users/delete/2", url.Values{"confirm": {"no"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/users", resp.Header.Get("Location"))
	assert.False(t, api.called("DELETE "))
}

func TestEditRequest_SendsOnlyFilledFields(t *testing.T) {
	api := &fakeAPI{}
	b := newBrowser(t, api)
	b.login("operator")

	resp, _ := b.do(http.MethodPost, "/requests/10/edit", url.Values{
		"request_status":  {string(entity.StatusInRepair)},
		"completion_date": {""},
		"repair_parts":    {"  "},
		"master_id":       {""},
	})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/requests/10", resp.Header.Get("Location"))
	assert.Equal(t, map[string]any{"request_status": string(entity.StatusInRepair)}, api.lastUpdate)
}

func TestEditRequest_EmptyFormSkipsAPI(t *testing.T) {
	api := &fakeAPI{}
	b := newBrowser(t, api)
	b.login("operator")

	resp, _ := b.do(http.MethodPost, "/requests/10/edit", url.Values{})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.False(t, api.called("PUT "))
}

func TestRequestDetail_ShowsComments(t *testing.T) {
	b := newBrowser(t, &fakeAPI{})
	b.login("operator")

	resp, body := b.do(http.MethodGet, "/requests/10", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Заявка #10")
	assert.Contains(t, body, "Заменили фильтр")
}

func TestRequestDetail_NotFoundFlashesAPIMessage(t *testing.T) {
	b := newBrowser(t, &fakeAPI{})
	b.login("operator")

	resp, _ := b.do(http.MethodGet, "/requests/99", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/requests", resp.Header.Get("Location"))
}

func TestFeedbackQR_FallsBackToLocal(t *testing.T) {
	api := &fakeAPI{qrStatus: http.StatusInternalServerError}
	b := newBrowser(t, api)
	b.login("client")

	resp, body := b.do(http.MethodGet, "/qr/feedback.png", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))
	assert.True(t, api.called("GET /qr/feedback"))
}

func TestHome_CustomerStatsFromOwnRequests(t *testing.T) {
	done := "2024-01-15"
	api := &fakeAPI{clientRequest: []dto.RequestResponse{
		{RequestID: 1, StartDate: "2024-01-10", ClimateTechType: "Кондиционер", CompletionDate: &done},
		{RequestID: 2, StartDate: "2024-01-12", ClimateTechType: "Кондиционер"},
	}}
	b := newBrowser(t, api)
	b.login("client")

	_, body := b.do(http.MethodGet, "/", nil)
	assert.Contains(t, body, `id="total-requests">2<`)
	assert.Contains(t, body, `id="completed-requests">1<`)
	assert.Contains(t, body, `id="avg-days">5<`)
	assert.False(t, api.called("GET /requests/stats"))
}

func TestUnknownPage_Renders404(t *testing.T) {
	b := newBrowser(t, &fakeAPI{})
	resp, body := b.do(http.MethodGet, "/no-such-page", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Страница не найдена")
}

func TestClientStats(t *testing.T) {
	d1, d2, bad := "2024-01-13", "2024-01-20", "not-a-date"
	st := clientStats([]dto.RequestResponse{
		{StartDate: "2024-01-10", ClimateTechType: "Сплит-система", CompletionDate: &d1},
		{StartDate: "2024-01-10", ClimateTechType: "Кондиционер", CompletionDate: &d2},
		{StartDate: "2024-01-10", ClimateTechType: "Кондиционер", CompletionDate: &bad},
		{StartDate: "2024-01-11", ClimateTechType: ""},
	})
	assert.Equal(t, int64(4), st.Count.TotalRequests)
	assert.Equal(t, int64(3), st.Count.CompletedRequests)
	assert.InDelta(t, 6.5, st.Avg.AvgRepairDays, 0.001)
	require.Len(t, st.ByTech, 3)
	assert.Equal(t, dto.TechTypeCount{TechType: "Кондиционер", Count: 2}, st.ByTech[0])
	assert.Equal(t, "Неизвестно", st.ByTech[2].TechType)
}

func TestClientStats_Empty(t *testing.T) {
	st := clientStats(nil)
	assert.Zero(t, st.Count.TotalRequests)
	assert.Zero(t, st.Avg.AvgRepairDays)
	assert.Empty(t, st.ByTech)
}
