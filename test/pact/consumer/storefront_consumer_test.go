//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	pacttest "github.com/codecrypto/cbt-marketplace/test/pact"
)

type productPayload struct {
	ID          uint64 `json:"id"`
	CompanyRUC  string `json:"companyRuc"`
	CompanyName string `json:"companyName"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Stock       uint64 `json:"stock"`
	IVA         uint8  `json:"iva"`
	Active      bool   `json:"active"`
}

type intentPayload struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type eligibilityPayload struct {
	Address string `json:"address"`
	Role    string `json:"role"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	example := pacttest.ExampleProductPayload()
	productMatcher := matchers.Map{
		"id":          matchers.Like(example["id"]),
		"companyRuc":  matchers.Term(example["companyRuc"].(string), `^\d{13}$`),
		"companyName": matchers.Like(example["companyName"]),
		"name":        matchers.Like(example["name"]),
		"price":       matchers.Term(example["price"].(string), `^\d+(\.\d+)?$`),
		"stock":       matchers.Like(example["stock"]),
		"iva":         matchers.Like(example["iva"]),
		"active":      matchers.Like(true),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for the catalog").
		WithRequest("GET", "/api/products").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(productMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request for an existing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/api/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a request to open a card payment").
		WithRequest("POST", "/api/create-payment-intent", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{"amount": matchers.Like(25.5)})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"clientSecret":    matchers.Like("pi_1_secret_abc"),
				"paymentIntentId": matchers.Like("pi_1"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateGatewayReady).
		UponReceiving("an eligibility check for the merchant wallet").
		WithRequest("GET", "/api/gateway/eligibility/"+pacttest.SellerWallet).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"address": matchers.S(pacttest.SellerWallet),
				"role":    matchers.S("merchant"),
				"status":  matchers.S("restricted"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var catalog []productPayload
		if err := client.get(ctx, "/api/products", &catalog); err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		if len(catalog) == 0 {
			return fmt.Errorf("expected at least one product")
		}

		var product productPayload
		if err := client.get(ctx, fmt.Sprintf("/api/products/%d", pacttest.ExistingProductID), &product); err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if product.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product %d, got %+v", pacttest.ExistingProductID, product)
		}

		if err := client.get(ctx, fmt.Sprintf("/api/products/%d", pacttest.MissingProductID), &product); err == nil {
			return fmt.Errorf("expected 404 for product %d", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		var intent intentPayload
		if err := client.post(ctx, "/api/create-payment-intent", map[string]any{"amount": 25.5}, &intent); err != nil {
			return fmt.Errorf("create payment intent: %w", err)
		}
		if intent.ClientSecret == "" || intent.PaymentIntentID == "" {
			return fmt.Errorf("expected client secret and intent id, got %+v", intent)
		}

		var eligibility eligibilityPayload
		if err := client.get(ctx, "/api/gateway/eligibility/"+pacttest.SellerWallet, &eligibility); err != nil {
			return fmt.Errorf("eligibility: %w", err)
		}
		if eligibility.Status != "restricted" {
			return fmt.Errorf("expected the merchant to be restricted, got %q", eligibility.Status)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *storefrontClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *storefrontClient) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *storefrontClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
