package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/api"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/config"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/export"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/localstore"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/logger"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/metrics"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/notify"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/poller"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/realtime"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/store"
	"github.com/andresFJ158/frontend-je-bot-crm/internal/tui"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "login":
		cmdLogin()
	case "logout":
		cmdLogout()
	case "dash":
		cmdDash()
	case "export":
		cmdExport()
	case "whatsapp":
		cmdWhatsApp()
	case "status":
		cmdStatus()
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`jecrm — JE Bot CRM terminal dashboard

Usage:
  jecrm <command>

Commands:
  login          Sign in and store the session
  logout         Clear the stored session
  dash           Open the live dashboard
  export         Export reports to xlsx
    orders       Orders report (optional: --status STATUS, -o FILE)
    inventory    Inventory movements and stock summary (-o FILE)
  whatsapp       WhatsApp link management
    status       Show link state
    qr           Show the pairing QR code
    reconnect    Force a reconnect
    disconnect   Tear the link down
    sync ID      Re-sync messages for one conversation
  status         Show config, session and backend health
  version        Print version
  help           Show this help`)
}

// loadConfig loads ~/.jecrm/config.yaml, creating it with defaults on
// first run.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	if result := cfg.Validate(); !result.IsValid() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "❌ Config: %s\n", e)
		}
		os.Exit(1)
	}
	return cfg
}

// openLocalStore opens the sqlite state database under ~/.jecrm.
func openLocalStore() *localstore.SQLiteStore {
	if err := os.MkdirAll(config.Dir(), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create state dir: %v\n", err)
		os.Exit(1)
	}

	ls, err := localstore.Open(config.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to open local store: %v\n", err)
		os.Exit(1)
	}
	return ls
}

// authedClient builds an API client with the stored session attached.
// Exits when no session exists.
func authedClient(cfg *config.Config, ls *localstore.SQLiteStore) *api.Client {
	token, _, err := ls.LoadSession()
	if err != nil || token == "" {
		fmt.Fprintln(os.Stderr, "❌ No session. Run 'jecrm login' first.")
		os.Exit(1)
	}

	client := api.New(cfg.API.URL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	client.SetToken(token)
	client.OnUnauthorized(func() {
		ls.ClearSession()
		fmt.Fprintln(os.Stderr, "🔒 Session expired. Run 'jecrm login' again.")
	})
	return client
}

func cmdLogin() {
	cfg := loadConfig()

	// Optional: jecrm login --server http://host:port
	args := os.Args[2:]
	for i := 0; i < len(args); i++ {
		if args[i] == "--server" && i+1 < len(args) {
			cfg.API.URL = strings.TrimRight(args[i+1], "/")
			i++
		}
	}

	// The dashboard origin may publish the real backend URL; resolve it
	// before hitting /auth/login directly.
	if origin := os.Getenv("JECRM_ORIGIN"); origin != "" {
		resolved, err := api.ResolveBaseURL(origin, 10*time.Second)
		if err == nil && resolved != "" {
			cfg.API.URL = resolved
			fmt.Printf("📡 Backend resolved: %s\n", resolved)
		}
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("💬 JE Bot CRM v%s — Login (%s)\n\n", version, cfg.API.URL)
	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "❌ Email and password are required")
		os.Exit(1)
	}

	client := api.New(cfg.API.URL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	resp, err := client.Login(email, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Login failed: %v\n", err)
		os.Exit(1)
	}

	ls := openLocalStore()
	defer ls.Close()

	if err := ls.SaveSession(resp.AccessToken, &resp.Agent); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to store session: %v\n", err)
		os.Exit(1)
	}

	if path, err := config.Save(cfg); err == nil {
		logger.Debug("Config saved: %s", path)
	}

	fmt.Printf("\n✅ Signed in as %s (%s)\n", resp.Agent.Name, resp.Agent.Role)
	fmt.Println("💡 Run 'jecrm dash' to open the dashboard.")
}

func cmdLogout() {
	ls := openLocalStore()
	defer ls.Close()

	if err := ls.ClearSession(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to clear session: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Session cleared")
}

func cmdDash() {
	cfg := loadConfig()

	// Log to a file so the TUI owns the terminal
	logger.GetDefaultLogger().SetLevel(logger.ParseLevel(cfg.Log.Level))
	logFile, err := logger.RedirectToFile(config.LogPath())
	if err == nil {
		defer logFile.Close()
	}

	ls := openLocalStore()
	defer ls.Close()

	token, agent, err := ls.LoadSession()
	if err != nil || token == "" || agent == nil {
		fmt.Fprintln(os.Stderr, "❌ No session. Run 'jecrm login' first.")
		os.Exit(1)
	}

	st := store.New(ls)
	st.SetSession(token, agent)

	// Seed the list from the last snapshot while the first fetch runs
	if snapshot, err := ls.LoadConversations(); err == nil && len(snapshot) > 0 {
		st.LoadConversations(snapshot)
	}

	client := api.New(cfg.API.URL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	client.SetToken(token)

	channel := realtime.New(cfg.WebSocketURL(), client.Token, realtime.ReconnectPolicy{
		InitialDelay: time.Duration(cfg.Realtime.ReconnectDelayMs) * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     time.Duration(cfg.Realtime.ReconnectMaxDelayMs) * time.Millisecond,
	})

	// One teardown for the whole app on the first 401
	client.OnUnauthorized(func() {
		st.ClearSession()
		channel.Close()
	})

	collector := metrics.NewCollector()

	var notifier *notify.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.New(cfg.Notify.Command, os.Stderr)
	}

	refresher := poller.New(
		&poller.Config{Enabled: cfg.Poll.Enabled, IntervalSeconds: cfg.Poll.IntervalSeconds},
		client.Conversations,
		st.LoadConversations,
	)
	refresher.SetGate(func() bool {
		return channel.State() == realtime.Connected
	})
	refresher.Start()
	defer refresher.Stop()

	if err := channel.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Realtime channel: %v\n", err)
		os.Exit(1)
	}
	defer channel.Close()

	err = tui.Run(tui.Options{
		Config:   cfg,
		Store:    st,
		Client:   client,
		Channel:  channel,
		Metrics:  collector,
		Notifier: notifier,
	})

	// Persist the list for the next startup
	if convs := st.Conversations(); len(convs) > 0 {
		ls.SaveConversations(convs)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Dashboard error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(collector.Report())
}

func cmdExport() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: jecrm export <orders|inventory> [--status STATUS] [-o FILE]")
		os.Exit(1)
	}

	cfg := loadConfig()
	ls := openLocalStore()
	defer ls.Close()
	client := authedClient(cfg, ls)

	args := os.Args[3:]
	outPath := ""
	status := ""
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--out":
			if i+1 < len(args) {
				outPath = args[i+1]
				i++
			}
		case "--status":
			if i+1 < len(args) {
				status = strings.ToUpper(args[i+1])
				i++
			}
		}
	}

	switch os.Args[2] {
	case "orders":
		orders, err := client.Orders(status)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to fetch orders: %v\n", err)
			os.Exit(1)
		}
		if outPath == "" {
			outPath = export.DefaultOrdersPath()
		}
		if err := export.Orders(orders, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ %d orders exported to %s\n", len(orders), outPath)

	case "inventory":
		transactions, err := client.InventoryTransactions("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to fetch inventory: %v\n", err)
			os.Exit(1)
		}
		summary, err := client.InventorySummary()
		if err != nil {
			// The movements are still worth exporting
			logger.Warn("Inventory summary unavailable: %v", err)
			summary = nil
		}
		if outPath == "" {
			outPath = export.DefaultInventoryPath()
		}
		if err := export.Inventory(transactions, summary, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ %d movements exported to %s\n", len(transactions), outPath)

	default:
		fmt.Fprintf(os.Stderr, "Unknown export target: %s\n", os.Args[2])
		os.Exit(1)
	}
}

func cmdStatus() {
	cfg := loadConfig()

	fmt.Printf("💬 JE Bot CRM v%s\n\n", version)
	fmt.Printf("📡 Backend:  %s\n", cfg.API.URL)
	fmt.Printf("🔌 Realtime: %s\n", cfg.WebSocketURL())
	fmt.Printf("📂 State:    %s\n", config.Dir())

	ls := openLocalStore()
	defer ls.Close()

	token, agent, err := ls.LoadSession()
	if err != nil || token == "" {
		fmt.Println("🔒 Session:  none (run 'jecrm login')")
		return
	}
	fmt.Printf("👤 Session:  %s (%s)\n", agent.Name, agent.Role)

	client := api.New(cfg.API.URL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	client.SetToken(token)

	ws, err := client.WhatsAppStatus()
	if err != nil {
		fmt.Printf("❌ Backend:  unreachable (%v)\n", err)
		return
	}

	if ws.Connected {
		fmt.Printf("✅ WhatsApp: connected (%s)\n", ws.PhoneNumber)
	} else {
		fmt.Printf("⚠️  WhatsApp: %s\n", ws.State)
	}
}

func cmdVersion() {
	info := GetVersionInfo()
	fmt.Print(info.String())
}
