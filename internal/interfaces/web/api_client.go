package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/climate-service/internal/application/dto"
)

// APIError respuesta no 2xx de la API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized true si la API rechazó el token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// userMessage texto para el flash: el mensaje de la API o, si no lo hay, fallback.
func userMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return "Ошибка подключения к серверу"
}

// APIClient cliente HTTP de la API; cada llamada lleva el token de la sesión.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient un único http.Client con timeout; sin reintentos.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (c *APIClient) send(ctx context.Context, method, path, token string, query url.Values, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("api: codificar cuerpo: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

// decodeAPIError acepta el cuerpo {"code","message"} de la API y también {"detail"}.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Message
		if apiErr.Message == "" {
			apiErr.Message = body.Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = "Ошибка " + strconv.Itoa(resp.StatusCode)
	}
	return apiErr
}

func (c *APIClient) do(ctx context.Context, method, path, token string, query url.Values, in, out any) error {
	resp, err := c.send(ctx, method, path, token, query, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: %s %s: decodificar: %w", method, path, err)
	}
	return nil
}

func (c *APIClient) raw(ctx context.Context, path, token string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: GET %s: leer: %w", path, err)
	}
	return data, nil
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + suffix
}

// Auth

func (c *APIClient) Login(ctx context.Context, login, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, dto.LoginRequest{Login: login, Password: password}, &out)
	return &out, err
}

func (c *APIClient) Me(ctx context.Context, token string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil, &out)
	return &out, err
}

// Usuarios

func (c *APIClient) ListUsers(ctx context.Context, token string) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	err := c.do(ctx, http.MethodGet, "/users/", token, nil, nil, &out)
	return out, err
}

func (c *APIClient) CreateUser(ctx context.Context, token string, in dto.CreateUserRequest) error {
	return c.do(ctx, http.MethodPost, "/users/", token, nil, in, nil)
}

func (c *APIClient) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/users/", id, ""), token, nil, nil, nil)
}

// Solicitudes

func (c *APIClient) ListRequests(ctx context.Context, token string) ([]dto.RequestResponse, error) {
	var out []dto.RequestResponse
	err := c.do(ctx, http.MethodGet, "/requests/", token, nil, nil, &out)
	return out, err
}

func (c *APIClient) SearchRequests(ctx context.Context, token string, query url.Values) ([]dto.RequestResponse, error) {
	var out []dto.RequestResponse
	err := c.do(ctx, http.MethodGet, "/requests/search", token, query, nil, &out)
	return out, err
}

func (c *APIClient) GetRequest(ctx context.Context, token string, id int64) (*dto.RequestResponse, error) {
	var out dto.RequestResponse
	if err := c.do(ctx, http.MethodGet, idPath("/requests/", id, ""), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CreateRequest(ctx context.Context, token string, in dto.CreateRequestRequest) error {
	return c.do(ctx, http.MethodPost, "/requests/", token, nil, in, nil)
}

// UpdateRequest envía solo las claves presentes en fields.
func (c *APIClient) UpdateRequest(ctx context.Context, token string, id int64, fields map[string]any) error {
	return c.do(ctx, http.MethodPut, idPath("/requests/", id, ""), token, nil, fields, nil)
}

func (c *APIClient) AssignRequest(ctx context.Context, token string, id, masterID int64) error {
	return c.do(ctx, http.MethodPost, idPath("/requests/", id, "/assign"), token, nil, dto.AssignRequest{MasterID: masterID}, nil)
}

func (c *APIClient) ExtendRequest(ctx context.Context, token string, id int64, in dto.ExtendRequest) error {
	return c.do(ctx, http.MethodPost, idPath("/requests/", id, "/extend"), token, nil, in, nil)
}

func (c *APIClient) DeleteRequest(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/requests/", id, ""), token, nil, nil, nil)
}

func (c *APIClient) RequestComments(ctx context.Context, token string, id int64) ([]dto.CommentResponse, error) {
	var out []dto.CommentResponse
	err := c.do(ctx, http.MethodGet, idPath("/requests/", id, "/comments"), token, nil, nil, &out)
	return out, err
}

func (c *APIClient) WorkOrderPDF(ctx context.Context, token string, id int64) ([]byte, error) {
	return c.raw(ctx, idPath("/requests/", id, "/pdf"), token)
}

// Comentarios

func (c *APIClient) ListComments(ctx context.Context, token string) ([]dto.CommentResponse, error) {
	var out []dto.CommentResponse
	err := c.do(ctx, http.MethodGet, "/comments/", token, nil, nil, &out)
	return out, err
}

func (c *APIClient) CreateComment(ctx context.Context, token string, in dto.CreateCommentRequest) error {
	return c.do(ctx, http.MethodPost, "/comments/", token, nil, in, nil)
}

// Estadísticas

func (c *APIClient) StatsCount(ctx context.Context, token string) (*dto.CountStatsResponse, error) {
	var out dto.CountStatsResponse
	if err := c.do(ctx, http.MethodGet, "/requests/stats/count", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) StatsAvgTime(ctx context.Context, token string) (*dto.AvgTimeResponse, error) {
	var out dto.AvgTimeResponse
	if err := c.do(ctx, http.MethodGet, "/requests/stats/avg-time", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) StatsByTech(ctx context.Context, token string) ([]dto.TechTypeCount, error) {
	var out []dto.TechTypeCount
	err := c.do(ctx, http.MethodGet, "/requests/stats/by-tech", token, nil, nil, &out)
	return out, err
}

func (c *APIClient) StatsByProblemType(ctx context.Context, token string) ([]dto.ProblemTypeCount, error) {
	var out []dto.ProblemTypeCount
	err := c.do(ctx, http.MethodGet, "/requests/stats/by-problem-type", token, nil, nil, &out)
	return out, err
}

// Autoservicio del cliente

func (c *APIClient) MyRequests(ctx context.Context, token, status string) ([]dto.RequestResponse, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	var out []dto.RequestResponse
	err := c.do(ctx, http.MethodGet, "/client/my-requests/", token, query, nil, &out)
	return out, err
}

func (c *APIClient) CreateMyRequest(ctx context.Context, token string, in dto.ClientCreateRequest) error {
	return c.do(ctx, http.MethodPost, "/client/my-requests/", token, nil, in, nil)
}

func (c *APIClient) MyRequest(ctx context.Context, token string, id int64) (*dto.RequestResponse, error) {
	var out dto.RequestResponse
	if err := c.do(ctx, http.MethodGet, idPath("/client/my-requests/", id, ""), token, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) MyRequestComments(ctx context.Context, token string, id int64) ([]dto.CommentResponse, error) {
	var out []dto.CommentResponse
	err := c.do(ctx, http.MethodGet, idPath("/client/my-requests/", id, "/comments"), token, nil, nil, &out)
	return out, err
}

// QR

func (c *APIClient) FeedbackQR(ctx context.Context, token string) ([]byte, error) {
	return c.raw(ctx, "/qr/feedback", token)
}
