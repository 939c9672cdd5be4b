package main

import (
	"fmt"
	"os"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/andresFJ158/frontend-je-bot-crm/internal/api"
)

func cmdWhatsApp() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: jecrm whatsapp <command>")
		fmt.Println("\nCommands:")
		fmt.Println("  status       Show link state")
		fmt.Println("  qr           Show the pairing QR code (add -o FILE for a PNG)")
		fmt.Println("  reconnect    Force a reconnect")
		fmt.Println("  disconnect   Tear the link down")
		fmt.Println("  sync ID      Re-sync messages for one conversation")
		os.Exit(1)
	}

	cfg := loadConfig()
	ls := openLocalStore()
	defer ls.Close()
	client := authedClient(cfg, ls)

	switch os.Args[2] {
	case "status":
		ws, err := client.WhatsAppStatus()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to fetch status: %v\n", err)
			os.Exit(1)
		}
		if ws.Connected {
			fmt.Printf("✅ WhatsApp connected (%s)\n", ws.PhoneNumber)
		} else {
			fmt.Printf("⚠️  WhatsApp %s\n", ws.State)
			fmt.Println("💡 Run 'jecrm whatsapp qr' to pair.")
		}

	case "qr":
		cmdWhatsAppQR(client)

	case "reconnect":
		if err := client.WhatsAppReconnect(); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Reconnect failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("🔄 Reconnect requested")

	case "disconnect":
		if err := client.WhatsAppDisconnect(); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Disconnect failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ WhatsApp disconnected")

	case "sync":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: jecrm whatsapp sync CONVERSATION_ID")
			os.Exit(1)
		}
		if err := client.WhatsAppSyncMessages(os.Args[3]); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Sync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("🔄 Message sync requested")

	default:
		fmt.Fprintf(os.Stderr, "Unknown whatsapp command: %s\n", os.Args[2])
		os.Exit(1)
	}
}

// cmdWhatsAppQR polls for the pairing QR and renders it in the terminal.
// The backend rotates the code while unpaired, so keep polling until the
// link comes up.
func cmdWhatsAppQR(client *api.Client) {
	// Optional PNG output next to the terminal rendering
	outPath := ""
	for i := 3; i < len(os.Args); i++ {
		if (os.Args[i] == "-o" || os.Args[i] == "--out") && i+1 < len(os.Args) {
			outPath = os.Args[i+1]
			i++
		}
	}

	lastQR := ""
	for {
		ws, err := client.WhatsAppStatus()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to fetch status: %v\n", err)
			os.Exit(1)
		}
		if ws.Connected {
			fmt.Printf("✅ WhatsApp connected (%s)\n", ws.PhoneNumber)
			return
		}

		payload, err := client.WhatsAppQR()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to fetch QR: %v\n", err)
			os.Exit(1)
		}

		if payload.QR != "" && payload.QR != lastQR {
			lastQR = payload.QR

			qr, err := qrcode.New(payload.QR, qrcode.Medium)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ Failed to render QR: %v\n", err)
				os.Exit(1)
			}

			fmt.Print("\033[H\033[2J") // clear screen between rotations
			fmt.Println("📱 Scan with WhatsApp (Linked devices):")
			fmt.Println()
			fmt.Print(qr.ToSmallString(false))

			if outPath != "" {
				png, err := qrcode.Encode(payload.QR, qrcode.Medium, 256)
				if err == nil {
					if err := os.WriteFile(outPath, png, 0644); err == nil {
						fmt.Printf("\n💾 PNG saved: %s\n", outPath)
					}
				}
			}

			fmt.Println("\n⏳ Waiting for pairing… (Ctrl+C to stop)")
		}

		time.Sleep(2 * time.Second)
	}
}
