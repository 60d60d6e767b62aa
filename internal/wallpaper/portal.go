package wallpaper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/wallmemo/internal/config"
)

const (
	// PortalBusName is the xdg-desktop-portal bus name.
	PortalBusName = "org.freedesktop.portal.Desktop"
	// PortalPath is the portal object path.
	PortalPath = "/org/freedesktop/portal/desktop"
	// PortalInterface is the wallpaper portal interface.
	PortalInterface = "org.freedesktop.portal.Wallpaper"

	requestInterface = "org.freedesktop.portal.Request"
	requestPrefix    = "/org/freedesktop/portal/desktop/request/"
)

// Portal response codes.
const (
	responseSuccess   uint32 = 0
	responseCancelled uint32 = 1
)

// PortalSetter sets the wallpaper through the xdg-desktop-portal Wallpaper
// interface on the session bus.
type PortalSetter struct {
	SetOn  string
	logger *slog.Logger

	// connect returns the bus connection. Defaults to the shared session bus.
	connect func() (*dbus.Conn, error)
}

// NewPortalSetter creates a PortalSetter. setOn is background, lockscreen
// or both.
func NewPortalSetter(setOn string, logger *slog.Logger) *PortalSetter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortalSetter{
		SetOn:   setOn,
		logger:  logger,
		connect: dbus.SessionBus,
	}
}

// Name implements Setter.
func (p *PortalSetter) Name() string { return config.MethodPortal }

// Set implements Setter. It waits for the portal's Response signal or for
// ctx to end.
func (p *PortalSetter) Set(ctx context.Context, path string) error {
	uri, err := FileURI(path)
	if err != nil {
		return err
	}

	conn, err := p.connect()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	// The session bus connection is shared; it is not closed here.

	names := conn.Names()
	if len(names) == 0 {
		return fmt.Errorf("session bus connection has no unique name")
	}
	token := handleToken()
	handle := RequestPath(names[0], token)

	if err := conn.AddMatchSignal(responseMatch(handle)...); err != nil {
		return fmt.Errorf("failed to subscribe to portal response: %w", err)
	}
	defer func() { _ = conn.RemoveMatchSignal(responseMatch(handle)...) }()

	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	obj := conn.Object(PortalBusName, dbus.ObjectPath(PortalPath))
	var got dbus.ObjectPath
	err = obj.CallWithContext(ctx, PortalInterface+".SetWallpaperURI", 0,
		"", uri, Options(p.SetOn, token)).Store(&got)
	if err != nil {
		return fmt.Errorf("SetWallpaperURI: %w", err)
	}
	if got != handle {
		// Older portals ignore handle_token.
		p.logger.Debug("portal returned unexpected request handle", "want", handle, "got", got)
		if err := conn.AddMatchSignal(responseMatch(got)...); err != nil {
			return fmt.Errorf("failed to subscribe to portal response: %w", err)
		}
		defer func() { _ = conn.RemoveMatchSignal(responseMatch(got)...) }()
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for portal response: %w", ctx.Err())
		case sig, ok := <-signals:
			if !ok {
				return fmt.Errorf("session bus closed")
			}
			if sig.Name != requestInterface+".Response" || (sig.Path != handle && sig.Path != got) {
				continue
			}
			return responseError(sig.Body)
		}
	}
}

// Options builds the a{sv} argument of SetWallpaperURI.
func Options(setOn, token string) map[string]dbus.Variant {
	if setOn == "" {
		setOn = "both"
	}
	opts := map[string]dbus.Variant{
		"show-preview": dbus.MakeVariant(false),
		"set-on":       dbus.MakeVariant(setOn),
	}
	if token != "" {
		opts["handle_token"] = dbus.MakeVariant(token)
	}
	return opts
}

// RequestPath predicts the request object path the portal creates for
// sender and token.
func RequestPath(sender, token string) dbus.ObjectPath {
	s := strings.TrimPrefix(sender, ":")
	s = strings.ReplaceAll(s, ".", "_")
	return dbus.ObjectPath(requestPrefix + s + "/" + token)
}

func responseMatch(path dbus.ObjectPath) []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(requestInterface),
		dbus.WithMatchMember("Response"),
	}
}

func handleToken() string {
	return "wallmemo_" + strings.ToLower(ulid.Make().String())
}

func responseError(body []interface{}) error {
	if len(body) == 0 {
		return fmt.Errorf("empty portal response")
	}
	code, ok := body[0].(uint32)
	if !ok {
		return fmt.Errorf("malformed portal response %v", body[0])
	}
	switch code {
	case responseSuccess:
		return nil
	case responseCancelled:
		return fmt.Errorf("request cancelled")
	default:
		return fmt.Errorf("request failed with code %d", code)
	}
}
