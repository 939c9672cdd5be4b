package api

import (
	"fmt"
	"net/url"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

const loginPath = "/auth/login"

// LoginResponse is the payload returned by a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	Agent       types.Agent `json:"agent"`
}

// Login authenticates with email and password. It does not store the
// returned token; the caller decides where the session lives.
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.Post(loginPath, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login succeeded but no token was returned")
	}
	return &resp, nil
}

// Conversations

func (c *Client) Conversations() ([]types.Conversation, error) {
	var out []types.Conversation
	return out, c.Get("/conversations", &out)
}

func (c *Client) AssignConversation(conversationID, agentID string) (*types.Conversation, error) {
	var out types.Conversation
	err := c.Put("/conversations/"+conversationID+"/assign", map[string]string{"agentId": agentID}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetConversationMode(conversationID string, mode types.ConversationMode) (*types.Conversation, error) {
	var out types.Conversation
	err := c.Put("/conversations/"+conversationID+"/mode", map[string]string{"mode": string(mode)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Messages

func (c *Client) ConversationMessages(conversationID string) ([]types.Message, error) {
	var out []types.Message
	return out, c.Get("/messages/conversation/"+conversationID, &out)
}

// SendMessage posts an agent reply. The created message is not returned
// into local state here: it arrives back over the push channel like every
// other message, which keeps a single insertion path.
func (c *Client) SendMessage(conversationID, content string) error {
	return c.Post("/messages", map[string]string{
		"conversationId": conversationID,
		"content":        content,
	}, nil)
}

// Agents

func (c *Client) Agents() ([]types.Agent, error) {
	var out []types.Agent
	return out, c.Get("/agents", &out)
}

// Branches

func (c *Client) Branches(activeOnly bool) ([]types.Branch, error) {
	path := "/branches"
	if activeOnly {
		path += "?activeOnly=true"
	}
	var out []types.Branch
	return out, c.Get(path, &out)
}

func (c *Client) CreateBranch(b *types.Branch) (*types.Branch, error) {
	var out types.Branch
	return &out, c.Post("/branches", b, &out)
}

func (c *Client) UpdateBranch(id string, b *types.Branch) (*types.Branch, error) {
	var out types.Branch
	return &out, c.Put("/branches/"+id, b, &out)
}

func (c *Client) DeleteBranch(id string) error {
	return c.Delete("/branches/" + id)
}

// Categories

func (c *Client) CategoriesFlat() ([]types.Category, error) {
	var out []types.Category
	return out, c.Get("/categories/flat", &out)
}

func (c *Client) CategoriesTree() ([]*types.Category, error) {
	var out []*types.Category
	return out, c.Get("/categories/tree", &out)
}

func (c *Client) CreateCategory(cat *types.Category) (*types.Category, error) {
	var out types.Category
	return &out, c.Post("/categories", cat, &out)
}

func (c *Client) UpdateCategory(id string, cat *types.Category) (*types.Category, error) {
	var out types.Category
	return &out, c.Put("/categories/"+id, cat, &out)
}

func (c *Client) DeleteCategory(id string) error {
	return c.Delete("/categories/" + id)
}

// Products

func (c *Client) Products() ([]types.Product, error) {
	var out []types.Product
	return out, c.Get("/products", &out)
}

func (c *Client) CreateProduct(p *types.Product) (*types.Product, error) {
	var out types.Product
	return &out, c.Post("/products", p, &out)
}

func (c *Client) UpdateProduct(id string, p *types.Product) (*types.Product, error) {
	var out types.Product
	return &out, c.Put("/products/"+id, p, &out)
}

func (c *Client) DeleteProduct(id string) error {
	return c.Delete("/products/" + id)
}

// Combos

func (c *Client) Combos() ([]types.Combo, error) {
	var out []types.Combo
	return out, c.Get("/combos", &out)
}

func (c *Client) CreateCombo(cb *types.Combo) (*types.Combo, error) {
	var out types.Combo
	return &out, c.Post("/combos", cb, &out)
}

func (c *Client) UpdateCombo(id string, cb *types.Combo) (*types.Combo, error) {
	var out types.Combo
	return &out, c.Put("/combos/"+id, cb, &out)
}

func (c *Client) DeleteCombo(id string) error {
	return c.Delete("/combos/" + id)
}

// Contacts

// ContactFilter narrows the contact listing; zero values mean "all".
type ContactFilter struct {
	Search string
	City   string
	Tag    string
}

func (c *Client) Contacts(filter ContactFilter) ([]types.Contact, error) {
	params := url.Values{}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.City != "" {
		params.Set("city", filter.City)
	}
	if filter.Tag != "" {
		params.Set("tag", filter.Tag)
	}
	path := "/contacts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var out []types.Contact
	return out, c.Get(path, &out)
}

func (c *Client) ContactCities() ([]string, error) {
	var out []string
	return out, c.Get("/contacts/cities", &out)
}

func (c *Client) ContactStats() (*types.ContactStats, error) {
	var out types.ContactStats
	return &out, c.Get("/contacts/stats", &out)
}

func (c *Client) UpdateContact(id string, ct *types.Contact) (*types.Contact, error) {
	var out types.Contact
	return &out, c.Put("/contacts/"+id, ct, &out)
}

func (c *Client) DeleteContact(id string) error {
	return c.Delete("/contacts/" + id)
}

// Inventory

func (c *Client) InventoryTransactions(productID string) ([]types.InventoryTransaction, error) {
	path := "/inventory/transactions"
	if productID != "" {
		path += "?productId=" + url.QueryEscape(productID)
	}
	var out []types.InventoryTransaction
	return out, c.Get(path, &out)
}

func (c *Client) CreateInventoryTransaction(tx *types.InventoryTransaction) (*types.InventoryTransaction, error) {
	var out types.InventoryTransaction
	return &out, c.Post("/inventory/transactions", tx, &out)
}

func (c *Client) InventorySummary() (*types.InventorySummary, error) {
	var out types.InventorySummary
	return &out, c.Get("/inventory/summary", &out)
}

// Orders

func (c *Client) Orders(status string) ([]types.Order, error) {
	path := "/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []types.Order
	return out, c.Get(path, &out)
}

func (c *Client) UpdateOrderStatus(id, status string) (*types.Order, error) {
	var out types.Order
	return &out, c.Put("/orders/"+id, map[string]string{"status": status}, &out)
}

func (c *Client) CancelOrder(id string) error {
	return c.Put("/orders/"+id+"/cancel", nil, nil)
}

// Payment methods

func (c *Client) PaymentMethods() ([]types.PaymentMethod, error) {
	var out []types.PaymentMethod
	return out, c.Get("/payment-methods", &out)
}

func (c *Client) CreatePaymentMethod(pm *types.PaymentMethod) (*types.PaymentMethod, error) {
	var out types.PaymentMethod
	return &out, c.Post("/payment-methods", pm, &out)
}

func (c *Client) UpdatePaymentMethod(id string, pm *types.PaymentMethod) (*types.PaymentMethod, error) {
	var out types.PaymentMethod
	return &out, c.Put("/payment-methods/"+id, pm, &out)
}

func (c *Client) DeletePaymentMethod(id string) error {
	return c.Delete("/payment-methods/" + id)
}

// Quick replies

func (c *Client) QuickReplies(category string) ([]types.QuickReply, error) {
	path := "/quick-replies"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out []types.QuickReply
	return out, c.Get(path, &out)
}

func (c *Client) QuickReplyCategories() ([]string, error) {
	var out []string
	return out, c.Get("/quick-replies/categories", &out)
}

func (c *Client) CreateQuickReply(qr *types.QuickReply) (*types.QuickReply, error) {
	var out types.QuickReply
	return &out, c.Post("/quick-replies", qr, &out)
}

func (c *Client) UpdateQuickReply(id string, qr *types.QuickReply) (*types.QuickReply, error) {
	var out types.QuickReply
	return &out, c.Put("/quick-replies/"+id, qr, &out)
}

func (c *Client) DeleteQuickReply(id string) error {
	return c.Delete("/quick-replies/" + id)
}

// Bot configuration

func (c *Client) BotConfig() (*types.BotConfig, error) {
	var out types.BotConfig
	return &out, c.Get("/bot-config", &out)
}

func (c *Client) UpdateBotConfig(cfg *types.BotConfig) (*types.BotConfig, error) {
	var out types.BotConfig
	return &out, c.Put("/bot-config", cfg, &out)
}

// FAQs

func (c *Client) FAQs() ([]types.FAQ, error) {
	var out []types.FAQ
	return out, c.Get("/faqs", &out)
}

func (c *Client) CreateFAQ(f *types.FAQ) (*types.FAQ, error) {
	var out types.FAQ
	return &out, c.Post("/faqs", f, &out)
}

func (c *Client) UpdateFAQ(id string, f *types.FAQ) (*types.FAQ, error) {
	var out types.FAQ
	return &out, c.Put("/faqs/"+id, f, &out)
}

func (c *Client) DeleteFAQ(id string) error {
	return c.Delete("/faqs/" + id)
}

// WhatsApp link

func (c *Client) WhatsAppStatus() (*types.WhatsAppStatus, error) {
	var out types.WhatsAppStatus
	return &out, c.Get("/whatsapp/status", &out)
}

func (c *Client) WhatsAppQR() (*types.WhatsAppQR, error) {
	var out types.WhatsAppQR
	return &out, c.Get("/whatsapp/qr", &out)
}

func (c *Client) WhatsAppReconnect() error {
	return c.Post("/whatsapp/reconnect", nil, nil)
}

func (c *Client) WhatsAppDisconnect() error {
	return c.Post("/whatsapp/disconnect", nil, nil)
}

func (c *Client) WhatsAppSyncMessages(conversationID string) error {
	return c.Post("/whatsapp/sync-messages/"+conversationID, nil, nil)
}
