package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/tts"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/google/uuid"
)

const (
	dbusServiceName = "com.dooshek.mstts"
	dbusObjectPath  = "/com/dooshek/mstts/Synthesizer"
	dbusInterface   = "com.dooshek.mstts.Synthesizer"

	synthesisTimeout = 60 * time.Second
)

// Signal names
const (
	SignalAudioReady     = "AudioReady"
	SignalSynthesisError = "SynthesisError"
)

// StatsSource provides the JSON returned by GetStats
type StatsSource interface {
	GetStatsJSON() (string, error)
}

// Server implements D-Bus service for mstts synthesis
type Server struct {
	conn    *dbus.Conn
	manager *tts.Manager
	store   fileops.FileOps
	stats   StatsSource
	emit    func(name string, args ...interface{})
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new D-Bus server instance. Synthesized audio is saved
// through store; stats may be nil.
func NewServer(manager *tts.Manager, store fileops.FileOps, stats StatsSource) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		manager: manager,
		store:   store,
		stats:   stats,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.emit = s.emitSignal
	return s
}

// Start starts the D-Bus server
func (s *Server) Start() error {
	var err error
	s.conn, err = dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	// Request name
	reply, err := s.conn.RequestName(dbusServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		s.conn.Close()
		return fmt.Errorf("name already taken")
	}

	// Export object
	err = s.conn.Export(s, dbusObjectPath, dbusInterface)
	if err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to export object: %w", err)
	}

	err = s.conn.Export(introspect.NewIntrospectable(introspectNode()), dbusObjectPath, "org.freedesktop.DBus.Introspectable")
	if err != nil {
		s.conn.Close()
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	logger.Infof("🔌 D-Bus service started: %s", dbusServiceName)
	return nil
}

func introspectNode() *introspect.Node {
	return &introspect.Node{
		Name: dbusObjectPath,
		Interfaces: []introspect.Interface{{
			Name: dbusInterface,
			Methods: []introspect.Method{
				{
					Name: "Synthesize",
					Args: []introspect.Arg{
						{Name: "message", Type: "s", Direction: "in"},
						{Name: "language", Type: "s", Direction: "in"},
						{Name: "path", Type: "s", Direction: "out"},
					},
				},
				{
					Name: "GetDefaultLanguage",
					Args: []introspect.Arg{
						{Name: "language", Type: "s", Direction: "out"},
					},
				},
				{
					Name: "GetSupportedLanguages",
					Args: []introspect.Arg{
						{Name: "languages", Type: "as", Direction: "out"},
					},
				},
				{
					Name: "GetStats",
					Args: []introspect.Arg{
						{Name: "stats", Type: "s", Direction: "out"},
					},
				},
			},
			Signals: []introspect.Signal{
				{
					Name: SignalAudioReady,
					Args: []introspect.Arg{
						{Name: "path", Type: "s"},
					},
				},
				{
					Name: SignalSynthesisError,
					Args: []introspect.Arg{
						{Name: "error", Type: "s"},
					},
				},
			},
		}},
	}
}

// Stop stops the D-Bus server
func (s *Server) Stop() {
	s.cancel()
	if s.conn != nil {
		s.conn.Close()
	}
	logger.Infof("🔌 D-Bus service stopped")
}

// Wait waits for the server context to be cancelled
func (s *Server) Wait() {
	<-s.ctx.Done()
}

// Synthesize converts message with the default platform, saves the audio
// and returns its path (D-Bus method)
func (s *Server) Synthesize(message, language string) (string, *dbus.Error) {
	logger.Debugf("D-Bus: Synthesize called (%d chars, language %q)", len(message), language)

	ctx, cancel := context.WithTimeout(s.ctx, synthesisTimeout)
	defer cancel()

	audio, err := s.manager.GetAudio(ctx, "", message, language)
	if err != nil {
		return "", s.fail(err)
	}

	name := uuid.New().String() + "." + string(audio.Format)
	path, err := s.store.SaveAudio(name, audio.Data)
	if err != nil {
		return "", s.fail(fmt.Errorf("failed to save audio: %w", err))
	}

	s.emit(SignalAudioReady, path)
	return path, nil
}

// GetDefaultLanguage returns the default platform's default language (D-Bus method)
func (s *Server) GetDefaultLanguage() (string, *dbus.Error) {
	p, err := s.manager.Provider("")
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return p.DefaultLanguage(), nil
}

// GetSupportedLanguages returns the default platform's languages (D-Bus method)
func (s *Server) GetSupportedLanguages() ([]string, *dbus.Error) {
	p, err := s.manager.Provider("")
	if err != nil {
		return nil, dbus.MakeFailedError(err)
	}
	return p.SupportedLanguages(), nil
}

// GetStats returns synthesis statistics as JSON (D-Bus method)
func (s *Server) GetStats() (string, *dbus.Error) {
	if s.stats == nil {
		return "{}", nil
	}
	data, err := s.stats.GetStatsJSON()
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return data, nil
}

func (s *Server) fail(err error) *dbus.Error {
	logger.Error("D-Bus: Synthesis failed", err)
	s.emit(SignalSynthesisError, err.Error())
	return dbus.MakeFailedError(err)
}

// emitSignal emits a D-Bus signal
func (s *Server) emitSignal(name string, args ...interface{}) {
	if s.conn == nil {
		logger.Warnf("D-Bus: Cannot emit signal %s - no connection", name)
		return
	}

	signalPath := dbus.ObjectPath(dbusObjectPath)
	signalName := dbusInterface + "." + name

	err := s.conn.Emit(signalPath, signalName, args...)
	if err != nil {
		logger.Errorf("D-Bus: Failed to emit signal %s", err, name)
	} else {
		logger.Debugf("D-Bus: Emitted signal: %s", name)
	}
}
