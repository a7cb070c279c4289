//go:build linux

package ime

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"openbangla/internal/logging"
)

// IBus D-Bus names
const (
	IBusService          = "org.freedesktop.IBus"
	IBusPath             = "/org/freedesktop/IBus"
	IBusInterface        = "org.freedesktop.IBus"
	IBusFactoryInterface = "org.freedesktop.IBus.Factory"
	IBusEngineInterface  = "org.freedesktop.IBus.Engine"
	IBusServiceInterface = "org.freedesktop.IBus.Service"
	IBusFactoryPath      = "/org/freedesktop/IBus/Factory"
)

// BusConfig configures the IBus connection.
type BusConfig struct {
	// Address overrides bus discovery. IBUS_ADDRESS takes precedence.
	Address string

	BusName    string
	EngineName string

	// Exec is set when ibus-daemon launched the process. Otherwise the
	// engine asks IBus to make itself the global engine.
	Exec bool
}

// Server exports the engine factory on the IBus bus and routes every
// engine object it creates to one shared State.
type Server struct {
	state  *State
	cfg    BusConfig
	logger *slog.Logger
	crash  *logging.CrashHandler

	conn *dbus.Conn
	// export is conn.Export once connected.
	export func(v interface{}, path dbus.ObjectPath, iface string) error

	mu      sync.Mutex
	nextID  uint32
	engines map[dbus.ObjectPath]*ibusEngine
}

// NewServer creates a server for state. crash receives host contract
// violations before the process aborts.
func NewServer(state *State, cfg BusConfig, logger *slog.Logger, crash *logging.CrashHandler) *Server {
	if cfg.BusName == "" {
		cfg.BusName = DefaultBusName
	}
	if cfg.EngineName == "" {
		cfg.EngineName = DefaultEngineName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		state:   state,
		cfg:     cfg,
		logger:  logger,
		crash:   crash,
		engines: make(map[dbus.ObjectPath]*ibusEngine),
	}
}

// Start connects to IBus and exports the factory.
func (s *Server) Start(ctx context.Context) error {
	conn, err := s.connect()
	if err != nil {
		return err
	}
	s.conn = conn
	s.export = conn.Export

	if err := s.export(&ibusFactory{srv: s}, IBusFactoryPath, IBusFactoryInterface); err != nil {
		conn.Close()
		return fmt.Errorf("export factory: %w", err)
	}

	reply, err := conn.RequestName(s.cfg.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return fmt.Errorf("bus name %s already taken", s.cfg.BusName)
	}

	// The component itself is known to ibus-daemon from the file written
	// by --install.
	if !s.cfg.Exec {
		call := conn.Object(IBusService, IBusPath).CallWithContext(ctx, IBusInterface+".SetGlobalEngine", 0, s.cfg.EngineName)
		if call.Err != nil {
			s.logger.Warn("could not select engine", "engine", s.cfg.EngineName, "error", call.Err)
		}
	}

	s.logger.Info("ibus engine started", "bus_name", s.cfg.BusName, "engine", s.cfg.EngineName)
	return nil
}

// Done is closed when the bus connection goes away.
func (s *Server) Done() <-chan struct{} {
	if s.conn == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.conn.Context().Done()
}

// Close drops the bus connection.
func (s *Server) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Server) connect() (*dbus.Conn, error) {
	addr := os.Getenv("IBUS_ADDRESS")
	if addr == "" {
		addr = s.cfg.Address
	}
	if addr == "" {
		var err error
		addr, err = ibusAddressFromFile()
		if err != nil {
			s.logger.Debug("no ibus address file, using session bus", "error", err)
		}
	}
	if addr == "" {
		conn, err := dbus.SessionBus()
		if err != nil {
			return nil, fmt.Errorf("connect to session bus: %w", err)
		}
		return conn, nil
	}
	conn, err := dbus.Connect(addr)
	if err != nil {
		return nil, fmt.Errorf("connect to ibus at %s: %w", addr, err)
	}
	return conn, nil
}

// ibusAddressFromFile reads the newest address file ibus-daemon writes
// under $XDG_CONFIG_HOME/ibus/bus.
func ibusAddressFromFile() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	files, err := filepath.Glob(filepath.Join(dir, "ibus", "bus", "*"))
	if err != nil {
		return "", err
	}
	var (
		newest  string
		newestT time.Time
	)
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.IsDir() {
			continue
		}
		if newest == "" || info.ModTime().After(newestT) {
			newest, newestT = f, info.ModTime()
		}
	}
	if newest == "" {
		return "", errors.New("no address file")
	}
	return parseIBusAddressFile(newest)
}

func parseIBusAddressFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if addr, ok := strings.CutPrefix(line, "IBUS_ADDRESS="); ok {
			return addr, nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s: no IBUS_ADDRESS line", path)
}

// ibusFactory implements org.freedesktop.IBus.Factory.
type ibusFactory struct {
	srv *Server
}

// CreateEngine exports a new engine object bound to the shared state.
func (f *ibusFactory) CreateEngine(name string) (dbus.ObjectPath, *dbus.Error) {
	s := f.srv
	if name != s.cfg.EngineName {
		return "", dbus.NewError("org.freedesktop.IBus.NoEngine", []interface{}{"unknown engine: " + name})
	}

	s.mu.Lock()
	path := dbus.ObjectPath(fmt.Sprintf("/org/freedesktop/IBus/Engine/%d", s.nextID))
	s.nextID++
	e := &ibusEngine{srv: s, path: path, display: &signalDisplay{conn: s.conn, path: path}}
	s.engines[path] = e
	s.mu.Unlock()

	if err := s.export(e, path, IBusEngineInterface); err != nil {
		return "", dbus.MakeFailedError(err)
	}
	if err := s.export(&ibusService{engine: e}, path, IBusServiceInterface); err != nil {
		return "", dbus.MakeFailedError(err)
	}

	s.logger.Info("engine created", "name", name, "path", path)
	return path, nil
}

func (s *Server) destroy(path dbus.ObjectPath) {
	s.mu.Lock()
	delete(s.engines, path)
	s.mu.Unlock()

	for _, iface := range []string{IBusEngineInterface, IBusServiceInterface} {
		if err := s.export(nil, path, iface); err != nil {
			s.logger.Debug("unexport engine", "path", path, "interface", iface, "error", err)
		}
	}
	s.logger.Info("engine destroyed", "path", path)
}

// ibusEngine implements org.freedesktop.IBus.Engine for one input context.
type ibusEngine struct {
	srv     *Server
	path    dbus.ObjectPath
	display Display
}

// guard runs fn and turns a panic into a crash report and process abort.
func (e *ibusEngine) guard(method string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			info := map[string]interface{}{"method": method, "path": string(e.path)}
			if e.srv.crash == nil {
				panic(r)
			}
			e.srv.crash.Fatal(r, info)
		}
	}()
	fn()
}

func (e *ibusEngine) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	var consumed bool
	e.guard("ProcessKeyEvent", func() {
		consumed = e.srv.state.ProcessKeyEvent(e.display, keyval, keycode, state)
	})
	return consumed, nil
}

func (e *ibusEngine) FocusIn() *dbus.Error {
	e.guard("FocusIn", func() { e.srv.state.FocusIn(e.display) })
	return nil
}

func (e *ibusEngine) FocusOut() *dbus.Error {
	e.guard("FocusOut", func() { e.srv.state.FocusOut(e.display) })
	return nil
}

func (e *ibusEngine) Reset() *dbus.Error {
	e.guard("Reset", func() { e.srv.state.Reset(e.display) })
	return nil
}

func (e *ibusEngine) Enable() *dbus.Error {
	e.guard("Enable", func() { e.srv.state.Enable(e.display) })
	return nil
}

func (e *ibusEngine) Disable() *dbus.Error {
	e.guard("Disable", func() { e.srv.state.Disable(e.display) })
	return nil
}

func (e *ibusEngine) CandidateClicked(index, button, state uint32) *dbus.Error {
	e.guard("CandidateClicked", func() { e.srv.state.CandidateClicked(e.display, index, button, state) })
	return nil
}

func (e *ibusEngine) PageUp() *dbus.Error {
	e.guard("PageUp", func() { e.srv.state.PageUp(e.display) })
	return nil
}

func (e *ibusEngine) PageDown() *dbus.Error {
	e.guard("PageDown", func() { e.srv.state.PageDown(e.display) })
	return nil
}

func (e *ibusEngine) CursorUp() *dbus.Error {
	e.guard("CursorUp", func() { e.srv.state.CursorUp(e.display) })
	return nil
}

func (e *ibusEngine) CursorDown() *dbus.Error {
	e.guard("CursorDown", func() { e.srv.state.CursorDown(e.display) })
	return nil
}

// The remaining methods carry client context the engine does not use.

func (e *ibusEngine) SetCapabilities(caps uint32) *dbus.Error {
	e.srv.logger.Debug("set capabilities", "caps", caps)
	return nil
}

func (e *ibusEngine) SetCursorLocation(x, y, w, h int32) *dbus.Error {
	return nil
}

func (e *ibusEngine) SetContentType(purpose, hints uint32) *dbus.Error {
	e.srv.logger.Debug("set content type", "purpose", purpose, "hints", hints)
	return nil
}

func (e *ibusEngine) SetSurroundingText(text dbus.Variant, cursorPos, anchorPos uint32) *dbus.Error {
	return nil
}

func (e *ibusEngine) PropertyActivate(name string, state uint32) *dbus.Error {
	e.srv.logger.Debug("property activate", "name", name, "state", state)
	return nil
}

// ibusService implements org.freedesktop.IBus.Service.
type ibusService struct {
	engine *ibusEngine
}

func (s *ibusService) Destroy() *dbus.Error {
	s.engine.srv.destroy(s.engine.path)
	return nil
}

// signalDisplay emits engine signals for one engine object.
type signalDisplay struct {
	conn *dbus.Conn
	path dbus.ObjectPath
}

func (d *signalDisplay) emit(signal string, args ...interface{}) {
	// Emit only fails once the connection is closed, and the server exits
	// on disconnect.
	_ = d.conn.Emit(d.path, IBusEngineInterface+"."+signal, args...)
}

func (d *signalDisplay) CommitText(text string) {
	d.emit("CommitText", dbus.MakeVariant(NewIBusText(text)))
}

func (d *signalDisplay) UpdatePreedit(text string, cursor uint32, visible bool, mode PreeditFocusMode) {
	d.emit("UpdatePreeditText", dbus.MakeVariant(NewIBusText(text)), cursor, visible, uint32(mode))
}

func (d *signalDisplay) UpdateAuxiliaryText(text string, visible bool) {
	d.emit("UpdateAuxiliaryText", dbus.MakeVariant(NewIBusText(text)), visible)
}

func (d *signalDisplay) UpdateLookupTable(page LookupPage, visible bool) {
	d.emit("UpdateLookupTable", dbus.MakeVariant(NewIBusLookupTable(page)), visible)
}

func (d *signalDisplay) HidePreedit()       { d.emit("HidePreeditText") }
func (d *signalDisplay) HideAuxiliaryText() { d.emit("HideAuxiliaryText") }
func (d *signalDisplay) HideLookupTable()   { d.emit("HideLookupTable") }
