package media

import (
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	mprisPath        = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisRootIface   = "org.mpris.MediaPlayer2"
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"
)

// MPRISSession exports org.mpris.MediaPlayer2 on the session bus so desktop
// environments show now-playing metadata and route media keys back to us.
type MPRISSession struct {
	conn  *dbus.Conn
	props *prop.Properties
	log   zerolog.Logger

	mu      sync.Mutex
	handler CommandHandler
}

// NewMPRISSession connects to the session bus and claims
// org.mpris.MediaPlayer2.<name>. Returns an error when there is no bus;
// callers fall back to the no-op session.
func NewMPRISSession(name string, log zerolog.Logger) (*MPRISSession, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}

	s := &MPRISSession{conn: conn, log: log}

	propsSpec := map[string]map[string]*prop.Prop{
		mprisRootIface: {
			"Identity":            {Value: name, Writable: false, Emit: prop.EmitTrue},
			"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitTrue},
			"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitTrue},
			"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitTrue},
			"SupportedUriSchemes": {Value: []string{}, Writable: false, Emit: prop.EmitTrue},
			"SupportedMimeTypes":  {Value: []string{}, Writable: false, Emit: prop.EmitTrue},
		},
		mprisPlayerIface: {
			"PlaybackStatus": {Value: string(StatusStopped), Writable: false, Emit: prop.EmitTrue},
			"Rate":           {Value: 1.0, Writable: false, Emit: prop.EmitTrue},
			"Metadata":       {Value: map[string]dbus.Variant{}, Writable: false, Emit: prop.EmitTrue},
			"Position":       {Value: int64(0), Writable: false, Emit: prop.EmitFalse},
			"MinimumRate":    {Value: 0.25, Writable: false, Emit: prop.EmitTrue},
			"MaximumRate":    {Value: 2.0, Writable: false, Emit: prop.EmitTrue},
			"CanGoNext":      {Value: false, Writable: false, Emit: prop.EmitTrue},
			"CanGoPrevious":  {Value: false, Writable: false, Emit: prop.EmitTrue},
			"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanPause":       {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanSeek":        {Value: true, Writable: false, Emit: prop.EmitTrue},
			"CanControl":     {Value: true, Writable: false, Emit: prop.EmitTrue},
		},
	}
	props, err := prop.Export(conn, mprisPath, propsSpec)
	if err != nil {
		conn.Close()
		return nil, err
	}
	s.props = props

	if err := conn.Export(s, mprisPath, mprisPlayerIface); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.Export(s, mprisPath, mprisRootIface); err != nil {
		conn.Close()
		return nil, err
	}

	reply, err := conn.RequestName(mprisRootIface+"."+name, dbus.NameFlagReplaceExisting)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, errors.Errorf("bus name %s.%s already owned", mprisRootIface, name)
	}

	log.Info().Str("name", name).Msg("mpris session registered")
	return s, nil
}

func (s *MPRISSession) SetCommandHandler(h CommandHandler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

func (s *MPRISSession) UpdateMetadata(meta Metadata) {
	s.setPlayerProp("Metadata", metadataToMPRIS(meta))
}

func (s *MPRISSession) UpdatePlaybackState(status PlaybackStatus, position time.Duration, rate float64) {
	s.setPlayerProp("PlaybackStatus", string(status))
	s.setPlayerProp("Position", position.Microseconds())
	if rate > 0 {
		s.setPlayerProp("Rate", rate)
	}
}

func (s *MPRISSession) Clear() {
	s.setPlayerProp("PlaybackStatus", string(StatusStopped))
	s.setPlayerProp("Position", int64(0))
	s.setPlayerProp("Metadata", map[string]dbus.Variant{})
}

func (s *MPRISSession) Close() {
	s.Clear()
	s.conn.Close()
}

func (s *MPRISSession) setPlayerProp(name string, value interface{}) {
	if err := s.props.Set(mprisPlayerIface, name, dbus.MakeVariant(value)); err != nil {
		s.log.Debug().Str("prop", name).Err(err).Msg("mpris property update failed")
	}
}

func (s *MPRISSession) dispatch(cmd Command, value float64) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h != nil {
		h.OnMediaCommand(cmd, value)
	}
}

// D-Bus exported methods. Signatures follow the MPRIS specification.

func (s *MPRISSession) Play() *dbus.Error {
	s.dispatch(CmdPlay, 0)
	return nil
}

func (s *MPRISSession) Pause() *dbus.Error {
	s.dispatch(CmdPause, 0)
	return nil
}

func (s *MPRISSession) PlayPause() *dbus.Error {
	s.dispatch(CmdPlayPause, 0)
	return nil
}

func (s *MPRISSession) Stop() *dbus.Error {
	s.dispatch(CmdStop, 0)
	return nil
}

// Seek is relative, in microseconds, per the MPRIS spec.
func (s *MPRISSession) Seek(offset int64) *dbus.Error {
	s.dispatch(CmdSeekBy, float64(offset)/1e6)
	return nil
}

func (s *MPRISSession) SetPosition(trackID dbus.ObjectPath, position int64) *dbus.Error {
	s.dispatch(CmdSeekTo, float64(position)/1e6)
	return nil
}

func (s *MPRISSession) Next() *dbus.Error { return nil }

func (s *MPRISSession) Previous() *dbus.Error { return nil }

func (s *MPRISSession) OpenUri(uri string) *dbus.Error { return nil }

func (s *MPRISSession) Raise() *dbus.Error { return nil }

func (s *MPRISSession) Quit() *dbus.Error { return nil }

// metadataToMPRIS builds the xesam metadata map. MPRIS carries a single
// art URL, so the last (highest-resolution) thumbnail wins.
func metadataToMPRIS(meta Metadata) map[string]dbus.Variant {
	m := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackObjectPath(meta.TrackID)),
	}
	if meta.Title != "" {
		m["xesam:title"] = dbus.MakeVariant(meta.Title)
	}
	if meta.Artist != "" {
		m["xesam:artist"] = dbus.MakeVariant([]string{meta.Artist})
	}
	if meta.Album != "" {
		m["xesam:album"] = dbus.MakeVariant(meta.Album)
	}
	if meta.Duration > 0 {
		m["mpris:length"] = dbus.MakeVariant(meta.Duration.Microseconds())
	}
	if len(meta.ArtURLs) > 0 {
		m["mpris:artUrl"] = dbus.MakeVariant(meta.ArtURLs[len(meta.ArtURLs)-1])
	}
	return m
}

// trackObjectPath sanitizes a provider track id into a D-Bus object path.
func trackObjectPath(trackID string) dbus.ObjectPath {
	clean := make([]rune, 0, len(trackID))
	for _, r := range trackID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			clean = append(clean, r)
		default:
			clean = append(clean, '_')
		}
	}
	return dbus.ObjectPath("/com/tunetui/track/" + string(clean))
}
