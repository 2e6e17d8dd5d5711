package config

import "errors"

// ErrUnsupportedStopReference is returned by EngineConfig.Validate when
// StopTriggerReference names a mode the engine does not implement yet.
var ErrUnsupportedStopReference = errors.New("config: unsupported stop_trigger_reference (only last_trade is implemented)")
