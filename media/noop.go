package media

import "time"

// NoopSession is used when no session bus is available. Every operation
// silently succeeds.
type NoopSession struct{}

func NewNoopSession() *NoopSession { return &NoopSession{} }

func (*NoopSession) UpdateMetadata(Metadata) {}

func (*NoopSession) UpdatePlaybackState(PlaybackStatus, time.Duration, float64) {}

func (*NoopSession) Clear() {}

func (*NoopSession) SetCommandHandler(CommandHandler) {}

func (*NoopSession) Close() {}
