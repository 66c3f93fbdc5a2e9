package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"webshop/shop-service/internal/app/shop/infrastructure"

	"github.com/google/uuid"
)

// AuthClient клиент для взаимодействия с Auth Service
// Используется аналитикой для подсчета покупателей и обогащения заказов email-ами
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string // JWT токен администратора, пробрасывается из запроса
}

// NewAuthClient создает новый клиент для Auth Service
func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Таймаут для HTTP запросов
		},
	}
}

// SetAuthToken устанавливает JWT токен для аутентификации
func (c *AuthClient) SetAuthToken(token string) {
	c.authToken = token
}

// GetCustomerCount получает количество покупателей из Auth Service
func (c *AuthClient) GetCustomerCount(ctx context.Context) (int64, error) {
	url := fmt.Sprintf("%s/customers/count", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return body.Count, nil
}

// GetCustomer получает информацию о покупателе из Auth Service
// Используется для обогащения последних заказов email-ом пользователя
func (c *AuthClient) GetCustomer(ctx context.Context, id uuid.UUID) (*infrastructure.CustomerInfo, error) {
	url := fmt.Sprintf("%s/customers/%s", c.baseURL, id.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("customer not found")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var customer infrastructure.CustomerInfo
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &customer, nil
}
