package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// recordedRequest is what the fake backend saw for a single call.
type recordedRequest struct {
	method string
	uri    string
	body   string
}

// recordingServer answers every request with null, which decodes cleanly
// into any target, and hands back what it received.
func recordingServer(t *testing.T) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.uri = r.URL.RequestURI()
		b, _ := io.ReadAll(r.Body)
		rec.body = string(b)
		w.Write([]byte("null"))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)
	c.SetToken("tok")
	return c, rec
}

func TestResourceRequestShapes(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantURI    string
		wantInBody []string
	}{
		{
			name:       "assign conversation",
			call:       func(c *Client) error { _, err := c.AssignConversation("c1", "a9"); return err },
			wantMethod: http.MethodPut,
			wantURI:    "/conversations/c1/assign",
			wantInBody: []string{`"agentId":"a9"`},
		},
		{
			name:       "set conversation mode",
			call:       func(c *Client) error { _, err := c.SetConversationMode("c1", types.ModeHuman); return err },
			wantMethod: http.MethodPut,
			wantURI:    "/conversations/c1/mode",
			wantInBody: []string{`"mode":"HUMAN"`},
		},
		{
			name:       "branches all",
			call:       func(c *Client) error { _, err := c.Branches(false); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/branches",
		},
		{
			name:       "branches active only",
			call:       func(c *Client) error { _, err := c.Branches(true); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/branches?activeOnly=true",
		},
		{
			name: "create branch",
			call: func(c *Client) error {
				_, err := c.CreateBranch(&types.Branch{Name: "Sopocachi", Address: "Av. Ecuador 123"})
				return err
			},
			wantMethod: http.MethodPost,
			wantURI:    "/branches",
			wantInBody: []string{`"name":"Sopocachi"`, `"address":"Av. Ecuador 123"`},
		},
		{
			name:       "delete branch",
			call:       func(c *Client) error { return c.DeleteBranch("b7") },
			wantMethod: http.MethodDelete,
			wantURI:    "/branches/b7",
		},
		{
			name:       "categories tree",
			call:       func(c *Client) error { _, err := c.CategoriesTree(); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/categories/tree",
		},
		{
			name:       "categories flat",
			call:       func(c *Client) error { _, err := c.CategoriesFlat(); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/categories/flat",
		},
		{
			name: "create product",
			call: func(c *Client) error {
				_, err := c.CreateProduct(&types.Product{Name: "Salteña de pollo", Price: 8.5, Stock: 40})
				return err
			},
			wantMethod: http.MethodPost,
			wantURI:    "/products",
			wantInBody: []string{`"name":"Salteña de pollo"`, `"price":8.5`, `"stock":40`},
		},
		{
			name: "update product",
			call: func(c *Client) error {
				_, err := c.UpdateProduct("p3", &types.Product{Name: "Salteña de carne"})
				return err
			},
			wantMethod: http.MethodPut,
			wantURI:    "/products/p3",
			wantInBody: []string{`"name":"Salteña de carne"`},
		},
		{
			name: "contacts filtered",
			call: func(c *Client) error {
				_, err := c.Contacts(ContactFilter{Search: "maria", City: "La Paz"})
				return err
			},
			wantMethod: http.MethodGet,
			wantURI:    "/contacts?city=La+Paz&search=maria",
		},
		{
			name: "update contact",
			call: func(c *Client) error {
				_, err := c.UpdateContact("ct2", &types.Contact{Name: "María", City: "El Alto"})
				return err
			},
			wantMethod: http.MethodPut,
			wantURI:    "/contacts/ct2",
			wantInBody: []string{`"name":"María"`, `"city":"El Alto"`},
		},
		{
			name:       "contact stats",
			call:       func(c *Client) error { _, err := c.ContactStats(); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/contacts/stats",
		},
		{
			name:       "inventory transactions for product",
			call:       func(c *Client) error { _, err := c.InventoryTransactions("p3"); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/inventory/transactions?productId=p3",
		},
		{
			name: "create inventory transaction",
			call: func(c *Client) error {
				_, err := c.CreateInventoryTransaction(&types.InventoryTransaction{
					ProductID: "p3", Type: "entrada", Quantity: 12, Glosa: "reposición",
				})
				return err
			},
			wantMethod: http.MethodPost,
			wantURI:    "/inventory/transactions",
			wantInBody: []string{`"productId":"p3"`, `"type":"entrada"`, `"quantity":12`},
		},
		{
			name:       "orders by status",
			call:       func(c *Client) error { _, err := c.Orders("pendiente"); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/orders?status=pendiente",
		},
		{
			name:       "update order status",
			call:       func(c *Client) error { _, err := c.UpdateOrderStatus("o5", "entregado"); return err },
			wantMethod: http.MethodPut,
			wantURI:    "/orders/o5",
			wantInBody: []string{`"status":"entregado"`},
		},
		{
			name:       "cancel order",
			call:       func(c *Client) error { return c.CancelOrder("o5") },
			wantMethod: http.MethodPut,
			wantURI:    "/orders/o5/cancel",
		},
		{
			name:       "quick replies by category",
			call:       func(c *Client) error { _, err := c.QuickReplies("saludos"); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/quick-replies?category=saludos",
		},
		{
			name:       "quick reply categories",
			call:       func(c *Client) error { _, err := c.QuickReplyCategories(); return err },
			wantMethod: http.MethodGet,
			wantURI:    "/quick-replies/categories",
		},
		{
			name: "create quick reply",
			call: func(c *Client) error {
				_, err := c.CreateQuickReply(&types.QuickReply{Title: "horario", Message: "Abrimos de 8 a 20."})
				return err
			},
			wantMethod: http.MethodPost,
			wantURI:    "/quick-replies",
			wantInBody: []string{`"title":"horario"`, `"message":"Abrimos de 8 a 20."`},
		},
		{
			name: "update bot config",
			call: func(c *Client) error {
				_, err := c.UpdateBotConfig(&types.BotConfig{Model: "gpt-4o-mini", Temperature: 0.4})
				return err
			},
			wantMethod: http.MethodPut,
			wantURI:    "/bot-config",
			wantInBody: []string{`"model":"gpt-4o-mini"`, `"temperature":0.4`},
		},
		{
			name: "create faq",
			call: func(c *Client) error {
				_, err := c.CreateFAQ(&types.FAQ{Question: "¿Hacen envíos?", Answer: "Sí, en toda la ciudad."})
				return err
			},
			wantMethod: http.MethodPost,
			wantURI:    "/faqs",
			wantInBody: []string{`"question":"¿Hacen envíos?"`},
		},
		{
			name:       "delete faq",
			call:       func(c *Client) error { return c.DeleteFAQ("f2") },
			wantMethod: http.MethodDelete,
			wantURI:    "/faqs/f2",
		},
		{
			name: "create payment method",
			call: func(c *Client) error {
				_, err := c.CreatePaymentMethod(&types.PaymentMethod{Name: "QR Simple"})
				return err
			},
			wantMethod: http.MethodPost,
			wantURI:    "/payment-methods",
			wantInBody: []string{`"name":"QR Simple"`},
		},
		{
			name:       "whatsapp reconnect",
			call:       func(c *Client) error { return c.WhatsAppReconnect() },
			wantMethod: http.MethodPost,
			wantURI:    "/whatsapp/reconnect",
		},
		{
			name:       "whatsapp sync messages",
			call:       func(c *Client) error { return c.WhatsAppSyncMessages("c1") },
			wantMethod: http.MethodPost,
			wantURI:    "/whatsapp/sync-messages/c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := recordingServer(t)
			if err := tt.call(c); err != nil {
				t.Fatalf("call error: %v", err)
			}
			if rec.method != tt.wantMethod {
				t.Errorf("method = %q, want %q", rec.method, tt.wantMethod)
			}
			if rec.uri != tt.wantURI {
				t.Errorf("uri = %q, want %q", rec.uri, tt.wantURI)
			}
			for _, want := range tt.wantInBody {
				if !strings.Contains(rec.body, want) {
					t.Errorf("body %q missing %q", rec.body, want)
				}
			}
		})
	}
}

func TestListMethodsDecodeEmptyResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.SetToken("tok")

	if got, err := c.Products(); err != nil || len(got) != 0 {
		t.Errorf("Products() = %v, %v; want empty, nil", got, err)
	}
	if got, err := c.FAQs(); err != nil || len(got) != 0 {
		t.Errorf("FAQs() = %v, %v; want empty, nil", got, err)
	}
	if got, err := c.ContactCities(); err != nil || len(got) != 0 {
		t.Errorf("ContactCities() = %v, %v; want empty, nil", got, err)
	}
}
