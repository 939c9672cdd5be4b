// Package types holds the entity shapes exchanged with the JE Bot CRM backend.
package types

// ConversationMode says who is handling a conversation.
type ConversationMode string

const (
	ModeBot   ConversationMode = "BOT"
	ModeHuman ConversationMode = "HUMAN"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderBot   Sender = "bot"
	SenderAgent Sender = "agent"
)

// Agent is a human operator account.
type Agent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Online bool   `json:"online,omitempty"`
}

// ContactRef is the embedded contact snapshot carried inside conversations
// and orders.
type ContactRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Conversation is a chat thread between one contact and the business.
// UnreadCount is client-derived; the backend may omit it entirely, which is
// why it is a pointer on the wire (absent != zero).
type Conversation struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	AssignedAgentID string           `json:"assignedAgentId,omitempty"`
	Tag             string           `json:"tag,omitempty"`
	Mode            ConversationMode `json:"mode"`
	LastMessage     string           `json:"lastMessage,omitempty"`
	UpdatedAt       string           `json:"updatedAt"`
	UnreadCount     *int             `json:"unreadCount,omitempty"`
	User            *ContactRef      `json:"user,omitempty"`
	AssignedAgent   *Agent           `json:"assignedAgent,omitempty"`
}

// Unread returns the unread counter, treating an absent count as zero.
func (c *Conversation) Unread() int {
	if c.UnreadCount == nil {
		return 0
	}
	return *c.UnreadCount
}

// SetUnread sets the unread counter to an explicit value.
func (c *Conversation) SetUnread(n int) {
	c.UnreadCount = &n
}

// Message is a single chat message inside a conversation.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Sender         Sender `json:"sender"`
	Content        string `json:"content"`
	CreatedAt      string `json:"createdAt"`
	AgentID        string `json:"agentId,omitempty"`
	Agent          *Agent `json:"agent,omitempty"`
}

// Contact is an end-user reachable over WhatsApp.
type Contact struct {
	ID        string   `json:"id"`
	Phone     string   `json:"phone"`
	Name      string   `json:"name"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email,omitempty"`
	City      string   `json:"city,omitempty"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// ContactStats is the aggregate returned by /contacts/stats.
type ContactStats struct {
	Total      int            `json:"total"`
	ByCity     map[string]int `json:"byCity,omitempty"`
	NewThisWeek int           `json:"newThisWeek,omitempty"`
}

// Branch is a physical store location.
type Branch struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Phone        string  `json:"phone,omitempty"`
	OpeningHours string  `json:"openingHours,omitempty"`
	Description  string  `json:"description,omitempty"`
	IsActive     bool    `json:"isActive"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// Category is a product category node; categories nest via ParentID.
type Category struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	ParentID    string      `json:"parentId,omitempty"`
	Parent      *Category   `json:"parent,omitempty"`
	Children    []*Category `json:"children,omitempty"`
	Depth       int         `json:"depth,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

// Product is a sellable item with stock tracking.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// ComboItem is one product line inside a combo.
type ComboItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

// Combo bundles several products at an offer price.
type Combo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	OfferPrice  float64     `json:"offerPrice"`
	CategoryID  string      `json:"categoryId,omitempty"`
	Category    *Category   `json:"category,omitempty"`
	IsActive    bool        `json:"isActive"`
	Items       []ComboItem `json:"items"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

// Order statuses as reported by the backend.
const (
	OrderPendingPayment  = "PENDIENTE_DE_PAGO"
	OrderPaymentReceived = "PAGO_RECIBIDO"
	OrderCompleted       = "COMPLETADO"
	OrderCancelled       = "CANCELADO"
)

// OrderItem is one product line inside an order.
type OrderItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unitPrice"`
	Subtotal  float64  `json:"subtotal"`
	Product   *Product `json:"product,omitempty"`
}

// Order is a purchase placed through the bot or by an agent.
type Order struct {
	ID        string      `json:"id"`
	BranchID  string      `json:"branchId"`
	UserID    string      `json:"userId,omitempty"`
	AgentID   string      `json:"agentId,omitempty"`
	Agent     *Agent      `json:"agent,omitempty"`
	Status    string      `json:"status"`
	Subtotal  float64     `json:"subtotal"`
	Discount  float64     `json:"discount"`
	Tax       float64     `json:"tax"`
	Total     float64     `json:"total"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt string      `json:"createdAt"`
	Branch    *Branch     `json:"branch,omitempty"`
	User      *Contact    `json:"user,omitempty"`
	Items     []OrderItem `json:"items,omitempty"`
}

// Inventory transaction directions.
const (
	InventoryIn  = "ENTRADA"
	InventoryOut = "SALIDA"
)

// InventoryTransaction is a stock movement for one product.
type InventoryTransaction struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Type      string   `json:"type"`
	Quantity  int      `json:"quantity"`
	Glosa     string   `json:"glosa,omitempty"`
	AgentID   string   `json:"agentId,omitempty"`
	CreatedAt string   `json:"createdAt"`
	Product   *Product `json:"product,omitempty"`
	Agent     *Agent   `json:"agent,omitempty"`
}

// InventorySummary is the aggregate returned by /inventory/summary.
type InventorySummary struct {
	TotalProducts int `json:"totalProducts"`
	TotalStock    int `json:"totalStock"`
	LowStock      int `json:"lowStock"`
	OutOfStock    int `json:"outOfStock"`
}

// PaymentMethod is a way customers can pay: a QR image or a bank account.
type PaymentMethod struct {
	ID            string `json:"id"`
	Type          string `json:"type"` // QR or BANK_ACCOUNT
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	QRImageURL    string `json:"qrImageUrl,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountType   string `json:"accountType,omitempty"` // AHORROS or CORRIENTE
	CCI           string `json:"cci,omitempty"`
	IsActive      bool   `json:"isActive"`
	Order         int    `json:"order"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// QuickReply is a canned agent response.
type QuickReply struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Category  string `json:"category,omitempty"`
	Order     int    `json:"order"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BotConfig is the assistant configuration edited from the dashboard.
type BotConfig struct {
	ID                              string   `json:"id"`
	SystemPrompt                    string   `json:"systemPrompt"`
	Temperature                     float64  `json:"temperature"`
	MaxTokens                       int      `json:"maxTokens"`
	Model                           string   `json:"model"`
	ContextMessages                 int      `json:"contextMessages"`
	ClassificationCategories        []string `json:"classificationCategories"`
	OrderInstructions               string   `json:"orderInstructions,omitempty"`
	LocationInstructions            string   `json:"locationInstructions,omitempty"`
	LocationKeywords                string   `json:"locationKeywords,omitempty"`
	AutoCreateOrderOnPaymentRequest bool     `json:"autoCreateOrderOnPaymentRequest,omitempty"`
	AutoSendQRImages                bool     `json:"autoSendQRImages,omitempty"`
}

// FAQ is one bot-answerable question.
type FAQ struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords"`
	IsActive bool     `json:"isActive"`
	Order    int      `json:"order"`
	Category string   `json:"category,omitempty"`
}

// WhatsAppStatus reports the state of the backend's WhatsApp link.
type WhatsAppStatus struct {
	Connected   bool   `json:"connected"`
	State       string `json:"state"` // connecting, connected, disconnected
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// WhatsAppQR carries the pairing payload while the link is establishing.
// QR is empty once paired.
type WhatsAppQR struct {
	QR    string `json:"qr"`
	State string `json:"state"`
}
