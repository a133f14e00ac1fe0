package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"karya-project/microservices/points-service/logging"
)

// HTTPNotifier šalje obaveštenja kroz notifications-service, iza circuit breakera.
type HTTPNotifier struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
}

func NewHTTPNotifier(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *HTTPNotifier {
	return &HTTPNotifier{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Breaker:    breaker,
	}
}

// NotifyAll šalje broadcast poruku svim korisnicima. Poziv ide kroz breaker da
// pad notifications-service-a ne zadržava pozivaoce.
func (n *HTTPNotifier) NotifyAll(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %v", err)
	}

	url := fmt.Sprintf("%s/api/notifications/broadcast", strings.TrimRight(n.BaseURL, "/"))

	_, err = n.Breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFY_BROADCAST_FAILED, Description: Broadcast to notifications service failed: %v", err)
		return err
	}

	return nil
}
