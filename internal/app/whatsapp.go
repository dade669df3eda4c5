package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/logger"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
	"github.com/coltonsr77/uzi-doorman-bot/internal/router"
)

const (
	platformName = "WhatsApp"

	// loginTimeout bounds how long Connect waits for a stored session to log in
	loginTimeout = 30 * time.Second
	qrAttempts   = 5
	qrLifetime   = 60 * time.Second
)

// WhatsAppClient links a WhatsApp account and routes its incoming messages
type WhatsAppClient struct {
	Client    *whatsmeow.Client
	Container *sqlstore.Container
	log       *logger.Logger

	// Routing, available once the account is logged in
	deps       router.Deps
	deviceName string
	routeMutex sync.RWMutex
	router     *router.Router
	self       selfJIDs
	ctx        context.Context

	// Connection state
	connMutex    sync.RWMutex
	connected    bool
	stopRetrying context.CancelFunc
	backoff      Backoff
	loggedIn     chan struct{}
}

// Backoff controls automatic reconnection
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
	Factor   float64
}

// next returns the delay that follows d
func (b Backoff) next(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * b.Factor)
	if d > b.Max {
		return b.Max
	}
	return d
}

// NewWhatsAppClient opens the session store and prepares a client whose
// messages are routed with deps
func NewWhatsAppClient(ctx context.Context, dbDriver, dbDSN, logLevel, deviceName string, deps router.Deps, log *logger.Logger) (*WhatsAppClient, error) {
	log = log.Component("whatsapp")

	container, err := sqlstore.New(ctx, dbDriver, dbDSN, waLog.Stdout("Database", logLevel, true))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}

	// The OS name is what WhatsApp shows under linked devices
	if deviceName == "" {
		deviceName = "Uzi Doorman"
	}
	store.SetOSInfo(deviceName, [3]uint32{0, 1, 0})
	device.Platform = deviceName

	wac := &WhatsAppClient{
		Client:     whatsmeow.NewClient(device, waLog.Stdout("Client", logLevel, true)),
		Container:  container,
		log:        log,
		deps:       deps,
		deviceName: deviceName,
		ctx:        ctx,
		backoff: Backoff{
			Attempts: 10,
			Initial:  5 * time.Second,
			Max:      5 * time.Minute,
			Factor:   1.5,
		},
		loggedIn: make(chan struct{}, 1),
	}

	wac.Client.AddEventHandler(wac.handleConnectionEvents)
	wac.Client.AddEventHandler(wac.handleMessageEvents)

	return wac, nil
}

func (w *WhatsAppClient) handleConnectionEvents(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		w.connMutex.Lock()
		w.connected = true
		if w.stopRetrying != nil {
			w.stopRetrying()
			w.stopRetrying = nil
		}
		w.connMutex.Unlock()

		select {
		case w.loggedIn <- struct{}{}:
		default:
		}
		w.attachRouter()
		w.log.Info("WhatsApp client connected")

	case *events.Disconnected:
		w.setConnected(false)
		w.log.Warn("WhatsApp client disconnected")
		go w.reconnect()

	case *events.LoggedOut:
		w.setConnected(false)
		w.log.With("reason", v.Reason.String()).Warn("WhatsApp session logged out, pair the device again")

	case *events.StreamError:
		w.log.Errorf("WhatsApp stream error: %v", v)
	}
}

func (w *WhatsAppClient) setConnected(connected bool) {
	w.connMutex.Lock()
	w.connected = connected
	w.connMutex.Unlock()
}

// reconnect retries with exponential backoff until connected, out of
// attempts, or the client shuts down. Only one loop runs at a time.
func (w *WhatsAppClient) reconnect() {
	w.routeMutex.RLock()
	parent := w.ctx
	w.routeMutex.RUnlock()

	w.connMutex.Lock()
	if w.connected || w.stopRetrying != nil || parent.Err() != nil {
		w.connMutex.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parent)
	w.stopRetrying = cancel
	w.connMutex.Unlock()

	defer func() {
		w.connMutex.Lock()
		w.stopRetrying = nil
		w.connMutex.Unlock()
		cancel()
	}()

	delay := w.backoff.Initial
	for attempt := 1; attempt <= w.backoff.Attempts; attempt++ {
		select {
		case <-ctx.Done():
			w.log.Info("Reconnection stopped")
			return
		case <-time.After(delay):
		}

		if w.Client.IsConnected() {
			w.log.Info("Connection restored")
			return
		}

		w.log.Infof("Reconnection attempt %d/%d", attempt, w.backoff.Attempts)
		if err := w.Client.Connect(); err != nil {
			w.log.Error("Reconnection attempt failed", apperrors.ConnectionFailed(platformName, err))
			delay = w.backoff.next(delay)
			continue
		}
		return
	}

	w.log.Error("All reconnection attempts failed", nil)
}

// Connect logs in with the stored session and waits until WhatsApp confirms
// it. Without a session, pairing by QR code runs in the background and
// Connect returns immediately.
func (w *WhatsAppClient) Connect(ctx context.Context) error {
	w.routeMutex.Lock()
	w.ctx = ctx
	w.routeMutex.Unlock()

	if w.Client.Store.ID == nil {
		w.log.Info("No existing session found, starting QR pairing...")
		go w.pair(ctx)
		return nil
	}

	w.log.With("device", w.Client.Store.ID.String()).Info("Existing session found, connecting...")
	if err := w.Client.Connect(); err != nil {
		return apperrors.ConnectionFailed(platformName, err)
	}

	timer := time.NewTimer(loginTimeout)
	defer timer.Stop()

	select {
	case <-w.loggedIn:
		return nil
	case <-timer.C:
		return apperrors.ConnectionFailed(platformName, fmt.Errorf("no login confirmation after %s", loginTimeout))
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pair shows QR codes until one is scanned, the attempts run out, or ctx
// is cancelled
func (w *WhatsAppClient) pair(ctx context.Context) {
	for attempt := 1; attempt <= qrAttempts; attempt++ {
		if attempt > 1 {
			w.log.Infof("Generating new QR code (attempt %d/%d)...", attempt, qrAttempts)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
		}

		paired, err := w.pairOnce(ctx)
		switch {
		case ctx.Err() != nil:
			w.log.Info("QR pairing cancelled")
			return
		case err != nil:
			w.log.Error("QR pairing attempt failed", err)
		case paired:
			w.log.Info("WhatsApp device linked")
			return
		default:
			w.log.Warn("QR code was not scanned in time")
		}
	}

	w.log.Error("Failed to link WhatsApp device after multiple attempts", nil)
}

func (w *WhatsAppClient) pairOnce(ctx context.Context) (bool, error) {
	qrCtx, cancel := context.WithTimeout(ctx, qrLifetime)
	defer cancel()

	// A socket left over from the previous attempt blocks a new QR channel
	if w.Client.IsConnected() {
		w.Client.Disconnect()
	}

	qrChan, err := w.Client.GetQRChannel(qrCtx)
	if err != nil {
		return false, fmt.Errorf("failed to get QR channel: %w", err)
	}
	if !w.Client.IsConnected() {
		if err := w.Client.Connect(); err != nil {
			return false, apperrors.ConnectionFailed(platformName, err)
		}
	}

	for {
		select {
		case <-qrCtx.Done():
			return false, nil
		case item, ok := <-qrChan:
			if !ok {
				return false, nil
			}
			switch item.Event {
			case "code":
				printQR(item.Code)
			case "success":
				return true, nil
			case "timeout":
				return false, nil
			case "error":
				return false, item.Error
			default:
				w.log.Infof("Pairing event: %s", item.Event)
			}
		}
	}
}

func printQR(code string) {
	rule := strings.Repeat("=", 64)
	fmt.Println("\n" + rule)
	fmt.Println("SCAN QR CODE WITH WHATSAPP TO LINK UZI DOORMAN")
	fmt.Println(rule)
	qrterminal.GenerateWithConfig(code, qrterminal.Config{
		Level:      qrterminal.M,
		Writer:     os.Stdout,
		HalfBlocks: true,
		QuietZone:  1,
	})
	fmt.Println(rule)
	fmt.Printf("You have %s to scan the QR code\n", qrLifetime)
	fmt.Println("Open WhatsApp > Settings > Linked Devices > Link a Device")
	fmt.Println(rule + "\n")
}

// Disconnect stops reconnection and closes the connection
func (w *WhatsAppClient) Disconnect() {
	w.connMutex.Lock()
	if w.stopRetrying != nil {
		w.stopRetrying()
		w.stopRetrying = nil
	}
	w.connected = false
	w.connMutex.Unlock()

	w.Client.Disconnect()
	w.log.Info("Disconnected from WhatsApp")
}

// send delivers a message to chat
func (w *WhatsAppClient) send(ctx context.Context, chat types.JID, msg *waE2E.Message) error {
	if !w.Client.IsConnected() {
		return apperrors.ClientNotConnected(platformName)
	}
	if _, err := w.Client.SendMessage(ctx, chat, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	w.log.Debugf("Message sent to %s", chat.String())
	return nil
}

// attachRouter builds the router once the logged-in identity is known
func (w *WhatsAppClient) attachRouter() {
	if w.Client.Store.ID == nil {
		return
	}

	self := selfJIDs{PN: w.Client.Store.ID.ToNonAD(), LID: w.Client.Store.LID.ToNonAD()}

	w.routeMutex.Lock()
	defer w.routeMutex.Unlock()
	if w.router != nil && w.self == self {
		return
	}
	w.self = self
	w.router = router.New(self.identity(w.deviceName), w.deps)
	w.log.Infof("Routing WhatsApp messages as %s", self.PN.String())
}

// handleMessageEvents routes incoming text messages. Each message is
// handled on its own goroutine so slow backends do not stall the
// whatsmeow event loop.
func (w *WhatsAppClient) handleMessageEvents(evt interface{}) {
	msg, ok := evt.(*events.Message)
	if !ok {
		return
	}

	w.routeMutex.RLock()
	rt, self, ctx := w.router, w.self, w.ctx
	w.routeMutex.RUnlock()
	if rt == nil {
		return
	}

	event, ok := inboundEvent(self, msg)
	if !ok {
		return
	}

	go rt.Dispatch(ctx, event, &quotedReplyResponder{client: w, evt: msg})
}

// IsConnected checks if the client is connected
func (w *WhatsAppClient) IsConnected() bool {
	w.connMutex.RLock()
	defer w.connMutex.RUnlock()

	return w.connected && w.Client.IsConnected() && w.Client.Store.ID != nil
}

// Status reports the connection state for health checks
func (w *WhatsAppClient) Status() models.PlatformStatus {
	status := models.PlatformStatus{Enabled: true, Connected: w.IsConnected()}
	if id := w.Client.Store.ID; id != nil {
		status.Identity = id.ToNonAD().String()
	}
	return status
}

// GetConnectionStatus returns detailed connection status information
func (w *WhatsAppClient) GetConnectionStatus() map[string]interface{} {
	w.connMutex.RLock()
	defer w.connMutex.RUnlock()

	hasValidSession := w.Client.Store.ID != nil
	clientConnected := w.Client.IsConnected()

	w.routeMutex.RLock()
	routing := w.router != nil
	w.routeMutex.RUnlock()

	return map[string]interface{}{
		"connected":      w.connected && clientConnected && hasValidSession,
		"internal_state": w.connected,
		"client_state":   clientConnected,
		"has_session":    hasValidSession,
		"routing":        routing,
		"session_id": func() string {
			if hasValidSession {
				return w.Client.Store.ID.String()
			}
			return "none"
		}(),
		"reconnection_active": w.stopRetrying != nil,
	}
}
